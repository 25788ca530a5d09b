package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(installmentLookups)
}

var installmentLookups = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gopos_installment_lookups_total",
		Help: "Installment lookups by result (bank/fallback/none).",
	},
	[]string{"result"},
)

// IncInstallmentLookup counts one installment lookup
func IncInstallmentLookup(result string) {
	installmentLookups.WithLabelValues(norm(result)).Inc()
}
