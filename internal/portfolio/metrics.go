package portfolio

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// ComputationsTotal tracks portfolio summary computations.
	ComputationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pivot_portfolio_computations_total",
		Help: "Total number of portfolio summary computations",
	})

	// ComputeDurationSeconds tracks valuation latency.
	ComputeDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pivot_portfolio_compute_duration_seconds",
		Help:    "Duration of portfolio summary computation",
		Buckets: prometheus.DefBuckets,
	})

	// NetWorth tracks the most recently computed net worth.
	NetWorth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pivot_portfolio_net_worth",
		Help: "Most recently computed net worth (wallet + positions, USD)",
	})

	// PositionsValue tracks the current value of open positions.
	PositionsValue = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pivot_portfolio_positions_value",
		Help: "Current value of all open positions (USD)",
	})

	// InvestedCapital tracks total capital ever committed.
	InvestedCapital = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pivot_portfolio_invested_capital",
		Help: "Total capital committed via buy and add-liquidity trades (USD)",
	})

	// ProfitLoss tracks combined realized and unrealized P&L.
	ProfitLoss = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pivot_portfolio_profit_loss",
		Help: "Combined realized and unrealized profit/loss (USD)",
	})

	// OpenPositions tracks the number of open positions.
	OpenPositions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pivot_portfolio_open_positions",
		Help: "Number of open positions in the last computed summary",
	})
)

func observeSummary(s *Summary) {
	NetWorth.Set(s.NetWorth)
	PositionsValue.Set(s.PositionsValue)
	InvestedCapital.Set(s.Invested)
	ProfitLoss.Set(s.ProfitLoss)
	OpenPositions.Set(float64(s.OpenPositions))
}
