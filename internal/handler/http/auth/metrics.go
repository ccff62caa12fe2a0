package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// adminChecksTotal counts admin gate decisions. A rising "denied" count means
// someone is guessing the token.
var adminChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "admin_token_checks_total",
		Help: "Admin token checks by result",
	},
	[]string{"result"},
)

func recordCheck(result Result) {
	adminChecksTotal.WithLabelValues(result.String()).Inc()
}
