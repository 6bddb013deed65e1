package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the embedding index and resolver.
type Metrics struct {
	ResolveOutcome   *prometheus.CounterVec
	MatchDistance    prometheus.Histogram
	IndexEntries     prometheus.Gauge
	IndexInsertFails prometheus.Counter
	ReconcileRuns    *prometheus.CounterVec
}

// New registers the identity metrics with reg. Passing nil uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		ResolveOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_identity_resolve_total",
			Help: "Identity resolutions by outcome",
		}, []string{"outcome"}), // outcome: "matched", "unmatched"

		MatchDistance: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "rollcall_identity_match_distance",
			Help:    "Euclidean distance of accepted matches",
			Buckets: []float64{0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.8, 1},
		}),

		IndexEntries: f.NewGauge(prometheus.GaugeOpts{
			Name: "rollcall_identity_index_entries",
			Help: "Current number of vectors held by the embedding index",
		}),

		IndexInsertFails: f.NewCounter(prometheus.CounterOpts{
			Name: "rollcall_identity_index_insert_failures_total",
			Help: "Registrations committed to the ledger whose index insert or persist failed",
		}),

		ReconcileRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_identity_reconcile_runs_total",
			Help: "Index reconciliation runs by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncrementResolve(matched bool) {
	if m == nil {
		return
	}
	if matched {
		m.ResolveOutcome.WithLabelValues("matched").Inc()
		return
	}
	m.ResolveOutcome.WithLabelValues("unmatched").Inc()
}

func (m *Metrics) ObserveMatchDistance(d float64) {
	if m != nil {
		m.MatchDistance.Observe(d)
	}
}

func (m *Metrics) SetIndexEntries(n int) {
	if m != nil {
		m.IndexEntries.Set(float64(n))
	}
}

func (m *Metrics) IncrementIndexInsertFailures() {
	if m != nil {
		m.IndexInsertFails.Inc()
	}
}

func (m *Metrics) IncrementReconcile(result string) {
	if m != nil {
		m.ReconcileRuns.WithLabelValues(result).Inc()
	}
}
