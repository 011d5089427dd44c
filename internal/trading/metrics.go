package trading

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// SubmissionsTotal tracks trade submissions by submitter and result.
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pivot_trading_submissions_total",
			Help: "Total number of trade submissions",
		},
		[]string{"submitter", "result"},
	)

	// SubmissionDurationSeconds tracks relayer round-trip latency.
	SubmissionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pivot_trading_submission_duration_seconds",
		Help:    "Duration of relayer trade submissions",
		Buckets: prometheus.DefBuckets,
	})
)
