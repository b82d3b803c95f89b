package repl

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func entries(h *History) []HistoryEntry {
	out := make([]HistoryEntry, 0, h.Len())

	for i := range h.Len() {
		e, _ := h.Entry(i)
		out = append(out, e)
	}

	return out
}

func TestHistory_AddAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}

	for _, e := range []HistoryEntry{
		{"1 + 2", modeEval},
		{"vars", modeCtrl},
		{"1 + 2", modeEval},
		{"UPPER(x)", modeEval},
		{"1 + 2", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q): %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"vars", modeCtrl},
		{"UPPER(x)", modeEval},
		{"1 + 2", modeEval},
	}

	got := entries(h)
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, got[i], want[i])
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if s := string(data); s != "C:vars\nE:UPPER(x)\nE:1 + 2\n" {
		t.Errorf("file = %q", s)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	if reloaded.Len() != len(want) {
		t.Errorf("reloaded Len() = %d, want %d", reloaded.Len(), len(want))
	}
}

func TestHistory_SameLineDifferentMode(t *testing.T) {
	h := NewHistory("")

	_ = h.Add("help", modeEval)
	_ = h.Add("help", modeCtrl)

	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
}

func TestHistory_Cap(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for i := range maxHistory + 5 {
		_ = h.Add(strings.Repeat("x", i+1), modeEval)
	}

	if h.Len() != maxHistory {
		t.Fatalf("Len() = %d, want %d", h.Len(), maxHistory)
	}

	first, _ := h.Entry(0)
	if len(first.Line) != 6 {
		t.Errorf("oldest entry has length %d, want 6", len(first.Line))
	}
}

func TestHistory_EntryOutOfBounds(t *testing.T) {
	h := NewHistory("")

	for _, i := range []int{-1, 0, 1} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want ErrOutOfBounds", i, err)
		}
	}
}

func TestHistory_LegacyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	if err := os.WriteFile(path, []byte("plain\n\nC:quit\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	got := entries(h)
	want := []HistoryEntry{{"plain", modeEval}, {"quit", modeCtrl}}

	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("entries = %v, want %v", got, want)
	}
}
