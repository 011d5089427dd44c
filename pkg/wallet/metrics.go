package wallet

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// GasBalance tracks the native token balance for transaction fees.
	GasBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pivot_wallet_gas_balance",
		Help: "Current native token balance in wallet (native units)",
	})

	// CollateralBalance tracks the collateral token balance.
	CollateralBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pivot_wallet_collateral_balance",
		Help: "Current collateral token balance in wallet (USD)",
	})

	// CollateralAllowance tracks the allowance approved to the market hub.
	CollateralAllowance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pivot_wallet_collateral_allowance",
		Help: "Collateral allowance approved to the market hub (USD)",
	})

	// UpdateErrorsTotal tracks the number of failed update attempts.
	UpdateErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pivot_wallet_update_errors_total",
		Help: "Total number of failed wallet update attempts",
	})

	// UpdateDuration tracks the time taken to fetch wallet data.
	UpdateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pivot_wallet_update_duration_seconds",
		Help:    "Time taken to fetch wallet data (seconds)",
		Buckets: prometheus.DefBuckets,
	})

	// LastUpdateTimestamp tracks the Unix timestamp of the last successful update.
	LastUpdateTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pivot_wallet_last_update_timestamp",
		Help: "Unix timestamp of last successful wallet update",
	})
)
