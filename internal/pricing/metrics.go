package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_quotes_total",
		Help: "Total number of quotes calculated, by price source",
	}, []string{"price_source"})

	quoteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_quote_duration_seconds",
		Help:    "Duration of quote calculations including lookups",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
	})

	timeRulesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricing_time_rules_applied_total",
		Help: "Total number of quotes where a time-based rule applied",
	})

	couponsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricing_coupons_applied_total",
		Help: "Total number of quotes where a coupon discount applied",
	})
)
