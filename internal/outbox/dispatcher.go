// Package outbox delivers recorded domain events to Kafka and manages the dead-letter
// table for events that could not be delivered.
package outbox

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

type schemaRegistrar interface {
	EnsureSchema(context.Context, string, string) (int, error)
}

// batchStore claims undelivered rows and records their fate.
type batchStore interface {
	Claim(ctx context.Context, limit int) ([]Message, error)
	MarkPublished(ctx context.Context, ids []int64) error
	WriteDLQ(ctx context.Context, msg Message, reason string) error
}

// Message represents a row fetched from the outbox.
type Message struct {
	EventID       int64
	UserID        string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	SchemaSubject string
	PartitionKey  string
	Payload       json.RawMessage
}

type deliveryFailure struct {
	msg    Message
	reason string
}

// Dispatcher drains the outbox table and delivers events to Kafka using Schema Registry
// metadata.
type Dispatcher struct {
	store            batchStore
	producer         messageWriter
	registry         schemaRegistrar
	logger           zerolog.Logger
	pollInterval     time.Duration
	batchSize        int
	schemaIDCache    sync.Map
	now              func() time.Time
	shutdownComplete chan struct{}
}

// DispatcherOption customises a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the dispatcher logger.
func WithDispatcherLogger(logger zerolog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = logger }
}

// NewDispatcher constructs a Dispatcher reading from the outbox table in pool.
func NewDispatcher(pool *pgxpool.Pool, producer messageWriter, registry schemaRegistrar, pollInterval time.Duration, batchSize int, opts ...DispatcherOption) *Dispatcher {
	return newDispatcher(NewPostgresStore(pool), producer, registry, pollInterval, batchSize, opts...)
}

func newDispatcher(store batchStore, producer messageWriter, registry schemaRegistrar, pollInterval time.Duration, batchSize int, opts ...DispatcherOption) *Dispatcher {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 25
	}
	d := &Dispatcher{
		store:            store,
		producer:         producer,
		registry:         registry,
		logger:           zerolog.Nop(),
		pollInterval:     pollInterval,
		batchSize:        batchSize,
		now:              func() time.Time { return time.Now().UTC() },
		shutdownComplete: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start runs the polling loop until ctx is cancelled. It should be called in a
// goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.pollInterval)
	defer func() {
		ticker.Stop()
		close(d.shutdownComplete)
	}()

	for {
		if _, err := d.processBatch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Error().Err(err).Msg("outbox dispatcher error")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Wait blocks until the dispatcher stops.
func (d *Dispatcher) Wait() {
	<-d.shutdownComplete
}

// processBatch delivers one batch and returns how many events reached Kafka.
func (d *Dispatcher) processBatch(ctx context.Context) (int, error) {
	start := time.Now()

	messages, err := d.store.Claim(ctx, d.batchSize)
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}
	defer func() { batchDuration.Observe(time.Since(start).Seconds()) }()

	failures := d.deliver(ctx, messages)
	for _, f := range failures {
		d.logger.Warn().
			Int64("event_id", f.msg.EventID).
			Str("event_type", f.msg.EventType).
			Str("topic", f.msg.Topic).
			Str("reason", f.reason).
			Msg("outbox delivery failure")
		if err := d.store.WriteDLQ(ctx, f.msg, fmt.Sprintf("%s (topic=%s)", f.reason, f.msg.Topic)); err != nil {
			return 0, err
		}
		dlqCounter.WithLabelValues(f.msg.Topic).Inc()
	}
	failedCounter.Add(float64(len(failures)))

	delivered := len(messages) - len(failures)
	deliveredCounter.Add(float64(delivered))

	ids := make([]int64, 0, len(messages))
	for _, msg := range messages {
		ids = append(ids, msg.EventID)
	}
	return delivered, d.store.MarkPublished(ctx, ids)
}

// deliver writes messages grouped by topic. Every message that did not reach Kafka is
// returned with the reason.
func (d *Dispatcher) deliver(ctx context.Context, messages []Message) []deliveryFailure {
	var (
		failures []deliveryFailure
		order    []string
		batches  = make(map[string][]kafka.Message)
		sources  = make(map[string][]Message)
	)

	for _, msg := range messages {
		schemaID, err := d.schemaID(ctx, msg)
		if err != nil {
			failures = append(failures, deliveryFailure{msg: msg, reason: err.Error()})
			continue
		}

		record := kafka.Message{
			Key:   []byte(msg.PartitionKey),
			Value: encodeWireFormat(schemaID, msg.Payload),
			Time:  d.now(),
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(msg.EventType)},
				{Key: "user_id", Value: []byte(msg.UserID)},
				{Key: "aggregate_id", Value: []byte(msg.AggregateID)},
				{Key: "schema_subject", Value: []byte(msg.SchemaSubject)},
				{Key: "event_id", Value: []byte(strconv.FormatInt(msg.EventID, 10))},
			},
		}
		if _, seen := batches[msg.Topic]; !seen {
			order = append(order, msg.Topic)
		}
		batches[msg.Topic] = append(batches[msg.Topic], record)
		sources[msg.Topic] = append(sources[msg.Topic], msg)
	}

	for _, topic := range order {
		if err := d.producer.WriteMessages(ctx, topic, batches[topic]...); err != nil {
			for _, msg := range sources[topic] {
				failures = append(failures, deliveryFailure{msg: msg, reason: err.Error()})
			}
		}
	}
	return failures
}

func (d *Dispatcher) schemaID(ctx context.Context, msg Message) (int, error) {
	schema, ok := schemaCatalog[msg.EventType]
	if !ok {
		return 0, fmt.Errorf("no schema metadata for event_type=%s", msg.EventType)
	}
	cacheKey := msg.SchemaSubject + "::" + schema
	if id, found := d.schemaIDCache.Load(cacheKey); found {
		return id.(int), nil
	}
	id, err := d.registry.EnsureSchema(ctx, msg.SchemaSubject, schema)
	if err != nil {
		return 0, err
	}
	d.schemaIDCache.Store(cacheKey, id)
	return id, nil
}

// encodeWireFormat applies Confluent framing for Schema Registry aware payloads.
func encodeWireFormat(schemaID int, payload []byte) []byte {
	frame := make([]byte, 5+len(payload))
	frame[0] = 0
	binary.BigEndian.PutUint32(frame[1:5], uint32(schemaID))
	copy(frame[5:], payload)
	return frame
}

// DecodeWireFormat strips Confluent framing, returning the schema ID and the payload.
func DecodeWireFormat(value []byte) (int, []byte, error) {
	if len(value) < 5 || value[0] != 0 {
		return 0, nil, errors.New("payload is not schema registry framed")
	}
	return int(binary.BigEndian.Uint32(value[1:5])), value[5:], nil
}
