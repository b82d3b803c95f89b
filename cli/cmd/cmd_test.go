package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/rptkit/store"
)

// testContext returns a context whose command output goes to the returned
// buffer and whose template store is a fresh SQLite file.
func testContext(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()

	var (
		out bytes.Buffer
		app struct{}
	)

	parser, err := kong.New(&app, kong.Writers(&out, &out))
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithContext(t.Context(), ktx)
	ctx = WithRuntime(ctx, &Runtime{
		Driver:   store.DefaultDriver,
		DSN:      filepath.Join(t.TempDir(), "templates.db"),
		CacheDir: t.TempDir(),
	})

	return ctx, &out
}

func TestAssignments(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", want: map[string]string{}},
		{name: "pairs", pairs: []string{"a=1", " b =x=y"}, want: map[string]string{"a": "1", "b": "x=y"}},
		{name: "later_wins", pairs: []string{"a=1", "a=2"}, want: map[string]string{"a": "2"}},
		{name: "empty_value", pairs: []string{"a="}, want: map[string]string{"a": ""}},
		{name: "missing_equals", pairs: []string{"a"}, wantErr: true},
		{name: "missing_name", pairs: []string{"=1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := assignments(tt.pairs)

			if tt.wantErr {
				if !errors.Is(err, ErrAssignment) {
					t.Fatalf("error = %v, want ErrAssignment", err)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("assignments() = %v, want %v", got, tt.want)
			}

			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestVariables(t *testing.T) {
	got, err := variables([]string{
		"n=3", "f=2.5", "neg=-4", "b=false", "s=hello", "q='007'", "list=[1, 2]",
	})
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"n":    "3",
		"f":    "2.5",
		"neg":  "-4",
		"b":    "false",
		"s":    "hello",
		"q":    "007",
		"list": "[1, 2]",
	}

	for k, v := range want {
		if s := fmt.Sprint(got[k]); s != v {
			t.Errorf("%s = %q, want %q", k, s, v)
		}
	}

	for _, k := range []string{"s", "q", "list"} {
		if _, ok := got[k].(string); !ok {
			t.Errorf("%s is %T, want string", k, got[k])
		}
	}

	if _, ok := got["b"].(bool); !ok {
		t.Errorf("b is %T, want bool", got["b"])
	}
}

func TestParameter(t *testing.T) {
	tests := []struct {
		def      string
		name     string
		dataType string
		def0     *string
		required bool
		wantErr  bool
	}{
		{def: "id", name: "id", required: true},
		{def: "id:int", name: "id", dataType: "int", required: true},
		{def: "since?:date", name: "since", dataType: "date"},
		{def: "limit:int=10", name: "limit", dataType: "int", def0: ptr("10")},
		{def: "tag=", name: "tag", def0: ptr("")},
		{def: ":int", wantErr: true},
		{def: "?", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			p, err := parameter(tt.def)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("parameter(%q) = %+v, want error", tt.def, p)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if p.Name != tt.name || p.DataType != tt.dataType || p.Required != tt.required {
				t.Errorf("parameter(%q) = %+v", tt.def, p)
			}

			switch {
			case tt.def0 == nil && p.DefaultValue != nil:
				t.Errorf("default = %q, want none", *p.DefaultValue)
			case tt.def0 != nil && (p.DefaultValue == nil || *p.DefaultValue != *tt.def0):
				t.Errorf("default = %v, want %q", p.DefaultValue, *tt.def0)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Invoice":            "invoice",
		"Monthly Sales 2024": "monthly-sales-2024",
		"  a//b  ":           "a-b",
		"***":                "report",
		"":                   "report",
	}

	for in, want := range tests {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNamed(t *testing.T) {
	items := []string{"Alpha", "beta", "BETA"}
	id := func(s string) string { return s }

	got, err := named(items, "alpha", "item", id)
	if err != nil || got != "Alpha" {
		t.Errorf("named(alpha) = %q, %v", got, err)
	}

	if _, err := named(items, "beta", "item", id); !errors.Is(err, ErrAmbiguous) {
		t.Errorf("named(beta) error = %v, want ErrAmbiguous", err)
	}

	if _, err := named(items, "gamma", "item", id); !errors.Is(err, ErrNotFound) {
		t.Errorf("named(gamma) error = %v, want ErrNotFound", err)
	}
}

func TestRuntimeFrom_Default(t *testing.T) {
	rt := runtimeFrom(t.Context())

	if rt.Driver != store.DefaultDriver || rt.DSN != ":memory:" {
		t.Errorf("runtimeFrom() = %+v", rt)
	}
}
