package reporter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	// SnapshotsTotal tracks portfolio snapshot attempts by result.
	SnapshotsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pivot_reporter_snapshots_total",
			Help: "Total number of portfolio snapshot attempts",
		},
		[]string{"result"},
	)

	// SnapshotDurationSeconds tracks end-to-end snapshot latency.
	SnapshotDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pivot_reporter_snapshot_duration_seconds",
		Help:    "Time to fetch, value and store one portfolio snapshot",
		Buckets: prometheus.DefBuckets,
	})

	// LastSnapshotTimestamp tracks the time of the last successful snapshot.
	LastSnapshotTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pivot_reporter_last_snapshot_timestamp",
		Help: "Unix timestamp of the last successful portfolio snapshot",
	})
)
