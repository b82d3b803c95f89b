package lang

import (
	"slices"
	"strings"
	"testing"
)

func TestFunctions(t *testing.T) {
	names := Functions()
	if len(names) != 60 {
		t.Fatalf("len(Functions()) = %d, want 60", len(names))
	}

	perCategory := map[Category]int{}

	for _, name := range names {
		f, ok := Lookup(strings.ToLower(name))
		if !ok {
			t.Fatalf("Lookup(%q) failed", name)
		}

		if (f.Call == nil) == (f.Lazy == nil) {
			t.Errorf("%s: exactly one of Call and Lazy must be set", name)
		}

		if f.Signature == "" || f.Doc == "" {
			t.Errorf("%s: missing signature or doc", name)
		}

		perCategory[f.Category]++
	}

	want := map[Category]int{
		CategoryMath:        15,
		CategoryString:      20,
		CategoryDateTime:    15,
		CategoryConditional: 5,
		CategoryConversion:  5,
	}

	for c, n := range want {
		if perCategory[c] != n {
			t.Errorf("%s has %d functions, want %d", c, perCategory[c], n)
		}
	}

	if names[0] != "ABS" || names[len(names)-1] != "TOSTRING" {
		t.Errorf("unexpected order: first %s, last %s", names[0], names[len(names)-1])
	}
}

func TestFunc_Arity(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want bool
		text string
	}{
		{"ROUND", 1, true, "1 to 2"},
		{"ROUND", 3, false, "1 to 2"},
		{"CONCAT", 0, true, "at least 0"},
		{"FORMAT", 1, false, "at least 2"},
		{"NOW", 0, true, "0"},
		{"IF", 3, true, "3"},
	}

	for _, tt := range tests {
		f, _ := Lookup(tt.name)

		if got := f.Accepts(tt.n); got != tt.want {
			t.Errorf("%s.Accepts(%d) = %t, want %t", tt.name, tt.n, got, tt.want)
		}

		if got := f.Arity(); got != tt.text {
			t.Errorf("%s.Arity() = %q, want %q", tt.name, got, tt.text)
		}
	}
}

func TestLibrary_InCategory(t *testing.T) {
	var names []string
	for _, f := range Builtins().InCategory(CategoryConditional) {
		names = append(names, f.Name)
	}

	want := []string{"COALESCE", "IF", "ISEMPTY", "ISNULL", "NULLIF"}
	if !slices.Equal(names, want) {
		t.Errorf("conditional functions = %v, want %v", names, want)
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(strings.ToLower(c.String()))
		if err != nil || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.String(), got, err)
		}
	}

	if _, err := ParseCategory("statistics"); err == nil {
		t.Error("ParseCategory(statistics) succeeded")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
		msg   string
	}{
		{"1+1", true, ""},
		{"=IF([Total] > 0, ROUND([Total], 2), 0)", true, ""},
		{"SUM(", false, "syntax error"},
		{"SUM([Field])", false, "unknown function: SUM"},
		{"ABS(1, 2)", false, "ABS expects 1 argument(s), got 2"},
		{"NOPE(ABS())", false, "NOPE"},
		{"ABS(NOPE())", false, "unknown function: NOPE"},
		{"IF(ABS(), NOPE(), 1)", false, "ABS expects"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ok, msg := Validate(tt.input)
			if ok != tt.ok {
				t.Fatalf("Validate(%q) = %t (%s), want %t", tt.input, ok, msg, tt.ok)
			}

			if !strings.Contains(msg, tt.msg) {
				t.Errorf("Validate(%q) message %q does not contain %q", tt.input, msg, tt.msg)
			}

			if tt.ok && msg != "" {
				t.Errorf("Validate(%q) message = %q, want empty", tt.input, msg)
			}
		})
	}
}
