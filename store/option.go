package store

import (
	"time"

	"github.com/ardnew/rptkit/log"
)

// Option configures a [Memory] or [DB] store.
type Option func(*options)

type options struct {
	logger log.Logger
	now    func() time.Time
}

func makeOptions(opts ...Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithLogger sets the store logger. The default is silent.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock sets the time source of CreatedAt and ModifiedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
