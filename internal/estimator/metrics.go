package estimator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// QuotesComputedTotal tracks computed quotes by market state (cold/warm).
	QuotesComputedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pivot_estimator_quotes_computed_total",
			Help: "Total number of trade quotes computed",
		},
		[]string{"market_state"},
	)

	// QuotesRejectedTotal tracks rejected quote requests by reason.
	QuotesRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pivot_estimator_quotes_rejected_total",
			Help: "Total number of quote requests rejected before computation",
		},
		[]string{"reason"},
	)

	// QuotePriceImpactBps tracks projected price impact in basis points.
	QuotePriceImpactBps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pivot_estimator_price_impact_bps",
		Help:    "Projected price impact of quoted trades in basis points",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})

	// QuoteSlippageBps tracks the slippage bounds attached to quotes.
	QuoteSlippageBps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pivot_estimator_slippage_bound_bps",
		Help:    "Maximum slippage bounds attached to quoted trades in basis points",
		Buckets: []float64{100, 150, 250, 500, 1000, 2500, 5000},
	})
)
