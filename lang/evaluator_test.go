package lang

import (
	"errors"
	"sync"
	"testing"
)

func TestEvaluator_Cache(t *testing.T) {
	ev := NewEvaluator(WithClock(clock))

	for range 3 {
		got, err := ev.Evaluate(t.Context(), "[Qty] * 2", map[string]any{"Qty": 4})
		if err != nil {
			t.Fatal(err)
		}

		if got != 8.0 {
			t.Errorf("Evaluate = %v, want 8", got)
		}
	}

	if ev.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ev.Len())
	}

	if _, err := ev.Evaluate(t.Context(), "1 +", nil); !errors.Is(err, ErrSyntax) {
		t.Errorf("Evaluate(1 +) error = %v, want ErrSyntax", err)
	}

	if ev.Len() != 1 {
		t.Errorf("Len() = %d after syntax error, want 1", ev.Len())
	}
}

func TestEvaluator_Concurrent(t *testing.T) {
	ev := NewEvaluator()
	formulas := []string{"A + B", "IF(A > B, A, B)", "CONCAT(A, '-', B)", "ISNULL(C, A)"}

	var wg sync.WaitGroup

	for i := range 32 {
		wg.Go(func() {
			vars := map[string]any{"A": i, "B": 10}
			for _, f := range formulas {
				if _, err := ev.Evaluate(t.Context(), f, vars); err != nil {
					t.Errorf("Evaluate(%q): %v", f, err)
				}
			}
		})
	}

	wg.Wait()

	if ev.Len() != len(formulas) {
		t.Errorf("Len() = %d, want %d", ev.Len(), len(formulas))
	}
}

func TestEvaluator_Validate(t *testing.T) {
	ev := NewEvaluator()

	if ok, msg := ev.Validate("UPPER('a')"); !ok {
		t.Errorf("Validate = false (%s)", msg)
	}

	if len(ev.Functions()) != 60 {
		t.Errorf("len(Functions()) = %d, want 60", len(ev.Functions()))
	}
}
