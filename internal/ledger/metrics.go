package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// ViewCallDurationSeconds tracks gateway view-call latency by method.
	ViewCallDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pivot_ledger_view_call_duration_seconds",
			Help:    "Duration of ledger gateway view calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// ViewCallErrorsTotal tracks failed view calls by method and cause.
	ViewCallErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pivot_ledger_view_call_errors_total",
			Help: "Total number of failed ledger gateway view calls",
		},
		[]string{"method", "cause"},
	)

	// SnapshotCacheHitsTotal tracks snapshot cache hits.
	SnapshotCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pivot_ledger_snapshot_cache_hits_total",
		Help: "Total number of market snapshot cache hits",
	})

	// SnapshotCacheMissesTotal tracks snapshot cache misses.
	SnapshotCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pivot_ledger_snapshot_cache_misses_total",
		Help: "Total number of market snapshot cache misses",
	})

	// MarketsDroppedTotal tracks markets dropped from aggregation after a
	// failed read (partial data loss).
	MarketsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pivot_ledger_markets_dropped_total",
		Help: "Total number of markets dropped from portfolio aggregation after read failures",
	})

	// AggregationDurationSeconds tracks full user-data fan-out latency.
	AggregationDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pivot_ledger_aggregation_duration_seconds",
		Help:    "Duration of the per-user batch aggregation fan-out",
		Buckets: prometheus.DefBuckets,
	})
)
