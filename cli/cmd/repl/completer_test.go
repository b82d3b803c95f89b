package repl

import (
	"slices"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dotted", "order.total", 11, "order.total", 0, 11},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "ROUND(fo", 8, "fo", 6, 8},
		{"after_comma", "MAX(a, fo", 9, "fo", 7, 9},
		{"in_field", "[Qt", 3, "Qt", 1, 3},
		{"after_comparison", "a >= fo", 7, "fo", 5, 7},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"cursor_past_end", "abc", 10, "abc", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInField(t *testing.T) {
	tests := []struct {
		input string
		pos   int
		want  bool
	}{
		{"[Qty", 4, true},
		{"[Qty]", 5, false},
		{"[a] + [b", 8, true},
		{"[a] + b", 7, false},
		{"a", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := inField(tt.input, tt.pos); got != tt.want {
				t.Errorf("inField(%q, %d) = %v, want %v", tt.input, tt.pos, got, tt.want)
			}
		})
	}
}

func testModel(input string, mode inputMode, vars map[string]any) model {
	ti := textinput.New()
	ti.SetValue(input)
	ti.SetCursor(len(input))

	return model{input: ti, mode: mode, vars: vars}
}

func matchStrings(m model) []string {
	matches, _, _ := m.computeMatches()

	out := make([]string, len(matches))
	for i, match := range matches {
		out[i] = match.Str
	}

	return out
}

func TestComputeMatches(t *testing.T) {
	vars := map[string]any{"Quantity": 3.0, "Price": 2.5}

	tests := []struct {
		name    string
		input   string
		mode    inputMode
		want    []string
		exclude []string
	}{
		{
			name:  "function prefix",
			input: "ROUN",
			mode:  modeEval,
			want:  []string{"ROUND"},
		},
		{
			name:  "variable",
			input: "1 + Qua",
			mode:  modeEval,
			want:  []string{"Quantity"},
		},
		{
			name:    "field offers variables only",
			input:   "[Pr",
			mode:    modeEval,
			want:    []string{"Price"},
			exclude: []string{"PROPER"},
		},
		{
			name:  "empty field lists every variable",
			input: "[",
			mode:  modeEval,
			want:  []string{"Price", "Quantity"},
		},
		{
			name:  "empty word outside field",
			input: "1 + ",
			mode:  modeEval,
		},
		{
			name:  "keyword",
			input: "TRU",
			mode:  modeEval,
			want:  []string{"TRUE"},
		},
		{
			name:  "command",
			input: "un",
			mode:  modeCtrl,
			want:  []string{"unset"},
		},
		{
			name:  "command argument",
			input: "set fu",
			mode:  modeCtrl,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchStrings(testModel(tt.input, tt.mode, vars))

			if len(tt.want) == 0 && len(got) != 0 {
				t.Fatalf("matches = %q, want none", got)
			}

			for _, w := range tt.want {
				if !slices.Contains(got, w) {
					t.Errorf("matches = %q, missing %q", got, w)
				}
			}

			for _, x := range tt.exclude {
				if slices.Contains(got, x) {
					t.Errorf("matches = %q, unexpected %q", got, x)
				}
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	m := testModel("[", modeEval, map[string]any{"alpha": 1, "beta": 2, "gamma": 3})
	matches, _, _ := m.computeMatches()

	if got := renderCandidateBar(matches, -1, false, 0); got != "" {
		t.Errorf("zero width bar = %q, want empty", got)
	}

	if got := plain(renderCandidateBar(matches, -1, false, 80)); got != "alpha  beta  gamma" {
		t.Errorf("bar = %q", got)
	}

	if got := plain(renderCandidateBar(matches, -1, false, 12)); got != "alpha  ..." {
		t.Errorf("narrow bar = %q", got)
	}
}
