package outbox

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	deliveredCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ecosangam",
		Subsystem: "outbox",
		Name:      "events_delivered_total",
		Help:      "Number of outbox events successfully published to Kafka.",
	})

	failedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ecosangam",
		Subsystem: "outbox",
		Name:      "events_failed_total",
		Help:      "Number of outbox events that failed to publish and were routed to the DLQ.",
	})

	batchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ecosangam",
		Subsystem: "outbox",
		Name:      "batch_duration_seconds",
		Help:      "Time spent fetching, delivering, and marking outbox batches.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	})

	dlqCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecosangam",
		Subsystem: "outbox",
		Name:      "events_dlq_total",
		Help:      "Number of outbox events routed to the dead-letter queue, labeled by topic.",
	}, []string{"topic"})

	dlqProcessedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecosangam",
		Subsystem: "dlq",
		Name:      "messages_processed_total",
		Help:      "Number of DLQ entries handled in a manager pass.",
	}, []string{"topic", "event_type"})

	dlqRequeuedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecosangam",
		Subsystem: "dlq",
		Name:      "messages_requeued_total",
		Help:      "Number of DLQ entries reinserted into the primary outbox.",
	}, []string{"topic", "event_type"})

	dlqQuarantinedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecosangam",
		Subsystem: "dlq",
		Name:      "messages_quarantined_total",
		Help:      "Number of DLQ entries quarantined after exhausting retries.",
	}, []string{"topic", "event_type"})

	dlqRetryCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecosangam",
		Subsystem: "dlq",
		Name:      "retry_scheduled_total",
		Help:      "Number of times a DLQ entry was scheduled for a future retry.",
	}, []string{"topic", "event_type"})

	dlqBacklogGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ecosangam",
		Subsystem: "dlq",
		Name:      "queued_messages",
		Help:      "Current number of entries remaining in the DLQ.",
	})
)

func init() {
	prometheus.MustRegister(deliveredCounter, failedCounter, batchDuration, dlqCounter)
	prometheus.MustRegister(dlqProcessedCounter, dlqRequeuedCounter, dlqQuarantinedCounter, dlqRetryCounter, dlqBacklogGauge)
}

func recordDLQProcessed(entry dlqEntry) {
	dlqProcessedCounter.WithLabelValues(entry.Topic, entry.EventType).Inc()
}

func recordDLQRequeued(entry dlqEntry) {
	dlqRequeuedCounter.WithLabelValues(entry.Topic, entry.EventType).Inc()
}

func recordDLQQuarantined(entry dlqEntry) {
	dlqQuarantinedCounter.WithLabelValues(entry.Topic, entry.EventType).Inc()
}

func recordDLQRetry(entry dlqEntry) {
	dlqRetryCounter.WithLabelValues(entry.Topic, entry.EventType).Inc()
}

func updateBacklogGauge(ctx context.Context, pool *pgxpool.Pool) {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox_dlq WHERE quarantined_at IS NULL`).Scan(&count); err != nil {
		return
	}
	dlqBacklogGauge.Set(float64(count))
}
