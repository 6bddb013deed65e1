package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the attendance recorder's Prometheus collectors.
type Metrics struct {
	MarkOutcomes *prometheus.CounterVec
	MarkDuration prometheus.Histogram
}

// New creates and registers the attendance metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MarkOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_attendance_mark_total",
			Help: "Attendance mark requests by terminal outcome",
		}, []string{"outcome"}),
		MarkDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rollcall_attendance_mark_duration_seconds",
			Help:    "Time spent resolving and recording one attendance mark",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// IncrementOutcome counts one terminal outcome.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m == nil {
		return
	}
	m.MarkOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveMarkDuration records how long a mark took since start.
func (m *Metrics) ObserveMarkDuration(start time.Time) {
	if m == nil {
		return
	}
	m.MarkDuration.Observe(time.Since(start).Seconds())
}
