package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the credit line module. All methods are
// nil-safe so tests can run services without a registry.
type Metrics struct {
	// Decision outcomes by result and funding category
	Decisions *prometheus.CounterVec

	// Full decide latency including store round-trips
	DecideLatency prometheus.Histogram
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "creditline_decisions_total",
			Help: "Total credit line decisions by outcome and funding category",
		}, []string{"outcome", "category"}), // outcome: "accepted", "rejected", "escalated", "error"

		DecideLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditline_decide_duration_seconds",
			Help:    "Duration of a full credit line decision including persistence",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementDecision records a decision outcome.
func (m *Metrics) IncrementDecision(outcome, category string) {
	if m != nil {
		m.Decisions.WithLabelValues(outcome, category).Inc()
	}
}

// ObserveDecideLatency records the total decide duration.
func (m *Metrics) ObserveDecideLatency(d time.Duration) {
	if m != nil {
		m.DecideLatency.Observe(d.Seconds())
	}
}
