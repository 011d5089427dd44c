package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	// ActiveConnections tracks active WebSocket connections.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pivot_stream_active_connections",
		Help: "Number of active WebSocket connections",
	})

	// ReconnectAttemptsTotal tracks reconnection attempts.
	ReconnectAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pivot_stream_reconnect_attempts_total",
		Help: "Total number of WebSocket reconnection attempts",
	})

	// ReconnectFailuresTotal tracks reconnection failures.
	ReconnectFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pivot_stream_reconnect_failures_total",
		Help: "Total number of WebSocket reconnection failures",
	})

	// EventsReceivedTotal tracks price events received by type.
	EventsReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pivot_stream_events_received_total",
			Help: "Total number of price events received",
		},
		[]string{"event_type"},
	)

	// EventLatencySeconds tracks event processing latency.
	EventLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pivot_stream_event_latency_seconds",
		Help:    "Price event processing latency",
		Buckets: prometheus.DefBuckets,
	})

	// SubscriptionCount tracks active market subscriptions.
	SubscriptionCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pivot_stream_subscription_count",
		Help: "Number of active market subscriptions",
	})

	// EventsDroppedTotal tracks events dropped due to full channel or bad payloads.
	EventsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pivot_stream_events_dropped_total",
			Help: "Total number of price events dropped",
		},
		[]string{"reason"},
	)

	// ConnectionDuration tracks WebSocket connection lifetime.
	ConnectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pivot_stream_connection_duration_seconds",
		Help:    "Duration of WebSocket connections before disconnect",
		Buckets: []float64{60, 300, 600, 1800, 3600, 7200, 14400, 28800, 43200, 86400},
	})

	// UnsubscriptionsTotal tracks market unsubscriptions.
	UnsubscriptionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pivot_stream_unsubscriptions_total",
		Help: "Total number of market unsubscriptions",
	})
)
