package render

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	duration *prometheus.HistogramVec
	pages    *prometheus.CounterVec
	errors   prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)

	return &metrics{
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rptkit_render_duration_seconds",
			Help:    "Duration of report rendering.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"output"}),
		pages: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rptkit_render_pages_total",
			Help: "Pages rendered.",
		}, []string{"output"}),
		errors: f.NewCounter(prometheus.CounterOpts{
			Name: "rptkit_render_formula_errors_total",
			Help: "Report cells rendered as #ERROR.",
		}),
	}
}

// observe records a finished render. A nil receiver records nothing.
func (m *metrics) observe(output string, start time.Time, pages int) {
	if m == nil {
		return
	}

	m.duration.WithLabelValues(output).Observe(time.Since(start).Seconds())
	m.pages.WithLabelValues(output).Add(float64(pages))
}

func (m *metrics) formulaError() {
	if m != nil {
		m.errors.Inc()
	}
}
