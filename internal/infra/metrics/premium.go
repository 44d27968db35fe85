package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		premiumActivationsTotal,
		premiumExpirationsTotal,
	)
}

var (
	premiumActivationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "premium_activations_total",
			Help: "Premium listings activated by payment reconciliation.",
		},
	)

	premiumExpirationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "premium_expirations_total",
			Help: "Premium listings expired by the sweep worker.",
		},
	)
)

func IncPremiumActivated() {
	premiumActivationsTotal.Inc()
}

func AddPremiumExpired(n int) {
	premiumExpirationsTotal.Add(float64(n))
}
