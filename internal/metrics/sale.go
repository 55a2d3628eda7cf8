package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	purchaseTransactionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sale",
			Subsystem: "transfer",
			Name:      "purchase_transactions_total",
			Help:      "Total number of cooperative purchase transactions built",
		},
	)

	payoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sale",
			Subsystem: "transfer",
			Name:      "payouts_total",
			Help:      "Total number of token payouts by outcome",
		},
		[]string{"outcome"},
	)

	payoutDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sale",
			Subsystem: "transfer",
			Name:      "payout_duration_seconds",
			Help:      "Token payout latency from balance check to submission",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func IncPurchaseTransactions() {
	purchaseTransactionsTotal.Inc()
}

func ObservePayout(outcome string, start time.Time) {
	payoutsTotal.WithLabelValues(outcome).Inc()
	payoutDuration.Observe(time.Since(start).Seconds())
}
