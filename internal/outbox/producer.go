package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"example.com/ecosangam/internal/events"
)

const defaultBatchTimeout = 50 * time.Millisecond

// KafkaProducer publishes outbox events, keeping one writer per topic.
type KafkaProducer struct {
	brokers      []string
	logger       zerolog.Logger
	batchTimeout time.Duration

	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

// ProducerOption customises a KafkaProducer.
type ProducerOption func(*KafkaProducer)

// WithProducerLogger routes kafka-go writer errors to logger.
func WithProducerLogger(logger zerolog.Logger) ProducerOption {
	return func(p *KafkaProducer) {
		p.logger = logger
	}
}

// WithBatchTimeout bounds how long goal and footprint events wait for a batch to fill.
func WithBatchTimeout(d time.Duration) ProducerOption {
	return func(p *KafkaProducer) {
		if d > 0 {
			p.batchTimeout = d
		}
	}
}

// NewKafkaProducer creates a KafkaProducer for brokers.
func NewKafkaProducer(brokers []string, opts ...ProducerOption) *KafkaProducer {
	p := &KafkaProducer{
		brokers:      brokers,
		logger:       zerolog.Nop(),
		batchTimeout: defaultBatchTimeout,
		writers:      make(map[string]*kafka.Writer),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WriteMessages writes msgs to topic.
func (p *KafkaProducer) WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error {
	return p.writerFor(topic).WriteMessages(ctx, msgs...)
}

func (p *KafkaProducer) writerFor(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}
	w := p.newWriter(topic)
	p.writers[topic] = w
	return w
}

// newWriter keys partitions by user id. Goal completions each trigger a
// certificate email and go out unbatched.
func (p *KafkaProducer) newWriter(topic string) *kafka.Writer {
	logger := p.logger.With().Str("topic", topic).Logger()
	w := &kafka.Writer{
		Addr:                   kafka.TCP(p.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Compression:            kafka.Snappy,
		AllowAutoTopicCreation: true,
		BatchTimeout:           p.batchTimeout,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error().Msgf(msg, args...)
		}),
	}
	if route, ok := events.Lookup(events.TypeGoalCompleted); ok && route.Topic == topic {
		w.BatchSize = 1
	}
	return w
}

// Close flushes and releases every writer.
func (p *KafkaProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.writers, topic)
	}
	return firstErr
}
