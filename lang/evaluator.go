package lang

import (
	"context"
	"log/slog"
	"sync"
)

// maxCached bounds the number of programs an [Evaluator] keeps.
const maxCached = 4096

// Evaluator evaluates formula text, caching one compiled [Program] per
// distinct source. It is safe for concurrent use.
type Evaluator struct {
	opts  []Option
	o     options
	mu    sync.RWMutex
	cache map[string]*Program
}

// NewEvaluator returns an Evaluator configured with opts.
func NewEvaluator(opts ...Option) *Evaluator {
	return &Evaluator{
		opts:  opts,
		o:     makeOptions(opts...),
		cache: make(map[string]*Program),
	}
}

// Program returns the compiled program for text, compiling it on first use.
// Parse errors are not cached.
func (ev *Evaluator) Program(text string) (*Program, error) {
	ev.mu.RLock()
	p, ok := ev.cache[text]
	ev.mu.RUnlock()

	if ok {
		return p, nil
	}

	e, err := Parse(text, ev.opts...)
	if err != nil {
		return nil, err
	}

	p, err = Compile(e, ev.opts...)
	if err != nil {
		return nil, err
	}

	ev.mu.Lock()
	defer ev.mu.Unlock()

	if cached, ok := ev.cache[text]; ok {
		return cached, nil
	}

	if len(ev.cache) >= maxCached {
		ev.o.logger.Debug("program cache full, clearing", slog.Int("size", len(ev.cache)))
		clear(ev.cache)
	}

	ev.cache[text] = p

	return p, nil
}

// Evaluate parses, compiles, and runs text against vars.
func (ev *Evaluator) Evaluate(ctx context.Context, text string, vars map[string]any) (any, error) {
	p, err := ev.Program(text)
	if err != nil {
		return nil, err
	}

	return p.Run(ctx, vars)
}

// Validate checks text against the evaluator's function library.
func (ev *Evaluator) Validate(text string) (bool, string) {
	return ev.o.lib.Validate(text)
}

// Functions returns the evaluator's functions grouped by category.
func (ev *Evaluator) Functions() []*Func {
	return ev.o.lib.Funcs()
}

// Len reports the number of cached programs.
func (ev *Evaluator) Len() int {
	ev.mu.RLock()
	defer ev.mu.RUnlock()

	return len(ev.cache)
}
