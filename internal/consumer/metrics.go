package consumer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	processedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecosangam",
		Subsystem: "consumer",
		Name:      "events_processed_total",
		Help:      "Goal and footprint events handled and committed, by topic and event type.",
	}, []string{"topic", "event_type"})

	handlerErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecosangam",
		Subsystem: "consumer",
		Name:      "handler_errors_total",
		Help:      "Events left uncommitted after every handler attempt failed.",
	}, []string{"topic", "event_type"})

	handlerRetryCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecosangam",
		Subsystem: "consumer",
		Name:      "handler_retries_total",
		Help:      "Handler attempts repeated after a failure, by event type.",
	}, []string{"event_type"})

	handlerDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ecosangam",
		Subsystem: "consumer",
		Name:      "handler_duration_seconds",
		Help:      "Time spent handling one event including retries.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"event_type"})

	decodeErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecosangam",
		Subsystem: "consumer",
		Name:      "decode_errors_total",
		Help:      "Records without schema framing or an event_type header, by topic.",
	}, []string{"topic"})

	lastEventGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "ecosangam",
		Subsystem: "consumer",
		Name:      "last_event_timestamp_seconds",
		Help:      "Unix time of the newest committed event of each type.",
	}, []string{"event_type"})
)

func init() {
	prometheus.MustRegister(processedCounter, handlerErrorCounter, handlerRetryCounter,
		handlerDuration, decodeErrorCounter, lastEventGauge)
}

func recordProcessed(msg Message) {
	processedCounter.WithLabelValues(msg.Topic, msg.EventType).Inc()
	if !msg.Timestamp.IsZero() {
		lastEventGauge.WithLabelValues(msg.EventType).Set(float64(msg.Timestamp.Unix()))
	}
}

func recordHandlerError(msg Message) {
	handlerErrorCounter.WithLabelValues(msg.Topic, msg.EventType).Inc()
}

func recordRetry(eventType string) {
	handlerRetryCounter.WithLabelValues(eventType).Inc()
}

func observeHandler(eventType string, started time.Time) {
	handlerDuration.WithLabelValues(eventType).Observe(time.Since(started).Seconds())
}

func recordDecodeError(topic string) {
	decodeErrorCounter.WithLabelValues(topic).Inc()
}
