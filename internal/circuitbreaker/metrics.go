package circuitbreaker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// CircuitBreakerEnabled indicates whether the circuit breaker allows buy submissions.
	CircuitBreakerEnabled = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pivot_circuit_breaker_enabled",
		Help: "Whether circuit breaker allows buy submissions (1=enabled, 0=disabled)",
	})

	// CircuitBreakerBalance tracks the last checked collateral balance.
	CircuitBreakerBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pivot_circuit_breaker_balance_usd",
		Help: "Last checked collateral balance in the wallet",
	})

	// CircuitBreakerDisableThreshold tracks the current threshold for disabling buys.
	CircuitBreakerDisableThreshold = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pivot_circuit_breaker_disable_threshold_usd",
		Help: "Current collateral balance threshold for disabling buys (dynamically calculated)",
	})

	// CircuitBreakerEnableThreshold tracks the current threshold for re-enabling buys.
	CircuitBreakerEnableThreshold = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pivot_circuit_breaker_enable_threshold_usd",
		Help: "Current collateral balance threshold for re-enabling buys (with hysteresis)",
	})

	// CircuitBreakerAvgStakeSize tracks the rolling average stake size.
	CircuitBreakerAvgStakeSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pivot_circuit_breaker_avg_stake_size_usd",
		Help: "Rolling average stake size from recent buys (used for threshold calculation)",
	})

	// CircuitBreakerStateChanges tracks the number of times the circuit breaker changed state.
	CircuitBreakerStateChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pivot_circuit_breaker_state_changes_total",
		Help: "Total number of times circuit breaker changed state (enabled/disabled)",
	})

	// CircuitBreakerCheckDuration tracks the time taken to check balance.
	CircuitBreakerCheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pivot_circuit_breaker_check_duration_seconds",
		Help:    "Time taken to check wallet balance",
		Buckets: prometheus.DefBuckets,
	})
)
