package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MQ 消费延迟（毫秒）
	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"event_type", "queue"},
	)

	// 数据库查询延迟（秒）
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of queries slower than the configured threshold",
		},
	)

	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	CompletionToggleCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_toggle_count",
			Help: "Total number of complete/uncomplete operations",
		},
		[]string{"kind", "action"}, // kind: task, routine; action: complete, uncomplete
	)

	EventPublishedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_published_count",
			Help: "Total number of activity events handed to the broker",
		},
		[]string{"event_type", "status"}, // status: success, failed, skipped
	)

	EventConsumedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_consumed_count",
			Help: "Total number of activity events processed by the worker",
		},
		[]string{"event_type", "status"}, // status: success, duplicate, failed, dead_lettered
	)
)

func RecordMQConsumeLatency(eventType, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(eventType, queue).Observe(float64(duration.Milliseconds()))
}

func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func IncrementSlowQuery() {
	SlowQueryCount.Inc()
}

func IncrementCompletionToggle(kind, action string) {
	CompletionToggleCount.WithLabelValues(kind, action).Inc()
}

func IncrementEventPublished(eventType, status string) {
	EventPublishedCount.WithLabelValues(eventType, status).Inc()
}

func IncrementEventConsumed(eventType, status string) {
	EventConsumedCount.WithLabelValues(eventType, status).Inc()
}
