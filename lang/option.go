package lang

import (
	"time"

	"github.com/ardnew/rptkit/log"
)

// Option configures parsing, evaluation, compilation, and [Evaluator].
type Option func(*options)

type options struct {
	logger log.Logger
	now    func() time.Time
	lib    *Library
}

func makeOptions(opts ...Option) options {
	o := options{now: time.Now, lib: builtins}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithLogger sets the logger used for trace output. The default is silent.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock sets the clock read by NOW and TODAY.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLibrary replaces the function library. It is mostly useful in tests
// that need a function with side effects.
func WithLibrary(lib *Library) Option {
	return func(o *options) {
		if lib != nil {
			o.lib = lib
		}
	}
}
