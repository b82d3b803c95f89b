package render

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ardnew/rptkit/lang"
	"github.com/ardnew/rptkit/log"
)

// DefaultDPI is the raster resolution used when none is configured.
const DefaultDPI = 96

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 90

// Option configures [Layout] and [Preview].
type Option func(*options)

type options struct {
	logger  log.Logger
	eval    *lang.Evaluator
	metrics *metrics
	dpi     float64
	quality int
}

func makeOptions(opts ...Option) options {
	o := options{dpi: DefaultDPI, quality: DefaultQuality}
	for _, opt := range opts {
		opt(&o)
	}

	if o.eval == nil {
		o.eval = lang.NewEvaluator(lang.WithLogger(o.logger))
	}

	return o
}

// WithLogger sets the logger. Formula failures are logged at warn level.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithEvaluator sets the evaluator used for expressions, sharing its
// program cache and function library.
func WithEvaluator(ev *lang.Evaluator) Option {
	return func(o *options) { o.eval = ev }
}

// WithDPI sets the raster resolution in dots per inch.
func WithDPI(dpi float64) Option {
	return func(o *options) {
		if dpi > 0 {
			o.dpi = dpi
		}
	}
}

// WithQuality sets the JPEG quality, 1 to 100.
func WithQuality(q int) Option {
	return func(o *options) { o.quality = min(max(q, 1), 100) }
}

// WithMetrics registers render metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) { o.metrics = newMetrics(reg) }
}
