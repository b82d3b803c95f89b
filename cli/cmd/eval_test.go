package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEvalRun(t *testing.T) {
	row := filepath.Join(t.TempDir(), "row.yaml")
	if err := os.WriteFile(row, []byte("Price: 19.99\nQty: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		eval    Eval
		want    string
		wantErr bool
	}{
		{
			name: "arithmetic",
			eval: Eval{Expression: "=1 + 2 * 3"},
			want: "7",
		},
		{
			name: "bankers_rounding",
			eval: Eval{Expression: "ROUND(2.5)"},
			want: "2",
		},
		{
			name: "set_variables",
			eval: Eval{Expression: `CONCAT([First], " ", [Last])`, Set: []string{"First=Ada", "Last=Lovelace"}},
			want: "Ada Lovelace",
		},
		{
			name: "row_file",
			eval: Eval{Expression: "[Price] * [Qty]", Row: row, Format: "N2"},
			want: "59.97",
		},
		{
			name: "set_overrides_row",
			eval: Eval{Expression: "[Qty]", Row: row, Set: []string{"Qty=5"}},
			want: "5",
		},
		{
			name:    "syntax_error",
			eval:    Eval{Expression: "1 +"},
			wantErr: true,
		},
		{
			name:    "bad_assignment",
			eval:    Eval{Expression: "1", Set: []string{"nope"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testContext(t)

			err := tt.eval.Run(ctx)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Eval.Run() printed %q, want error", out.String())
				}

				return
			}

			if err != nil {
				t.Fatalf("Eval.Run() error = %v", err)
			}

			if got := strings.TrimSpace(out.String()); got != tt.want {
				t.Errorf("Eval.Run() printed %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateRun(t *testing.T) {
	ctx, out := testContext(t)

	err := (&Validate{Expressions: []string{"=SUM(1, 2)", "UPPER(", "[A] > 2"}}).Run(ctx)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("error = %v, want ErrInvalid", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("printed %d lines, want 3:\n%s", len(lines), out)
	}

	if lines[0] != "=SUM(1, 2): ok" || lines[2] != "[A] > 2: ok" {
		t.Errorf("valid lines = %q, %q", lines[0], lines[2])
	}

	if !strings.HasPrefix(lines[1], "UPPER(: ") || strings.HasSuffix(lines[1], ": ok") {
		t.Errorf("invalid line = %q", lines[1])
	}

	out.Reset()

	if err := (&Validate{Expressions: []string{"1"}}).Run(ctx); err != nil {
		t.Errorf("valid formula error = %v", err)
	}
}

func TestFunctionsRun(t *testing.T) {
	ctx, out := testContext(t)

	if err := (&Functions{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	all := out.String()
	for _, want := range []string{"ROUND(x[, digits])", "UPPER(", "IF(condition, then, else)"} {
		if !strings.Contains(all, want) {
			t.Errorf("listing missing %q", want)
		}
	}

	out.Reset()

	if err := (&Functions{Category: "math"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	math := out.String()
	if !strings.Contains(math, "ROUND(") || strings.Contains(math, "UPPER(") {
		t.Errorf("math listing:\n%s", math)
	}
}

func TestFunctionVars(t *testing.T) {
	enum := FunctionVars()["funcCategoryEnum"]

	if !strings.Contains(enum, "math") || strings.ToLower(enum) != enum {
		t.Errorf("funcCategoryEnum = %q", enum)
	}
}
