package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		transactionsTotal,
		bankCallDuration,
	)
}

var (
	transactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gopos_transactions_total",
			Help: "Orchestrated transactions by gateway, kind and outcome (approved/declined/error).",
		},
		[]string{"gateway", "kind", "outcome"},
	)

	bankCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gopos_bank_call_duration_seconds",
			Help:    "Wall time of one orchestrated bank call.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"gateway", "kind"},
	)
)

// ObserveTransaction records one finished transaction
func ObserveTransaction(gateway, kind, outcome string, d time.Duration) {
	transactionsTotal.WithLabelValues(norm(gateway), norm(kind), norm(outcome)).Inc()
	bankCallDuration.WithLabelValues(norm(gateway), norm(kind)).Observe(d.Seconds())
}
