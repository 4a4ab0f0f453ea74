// Package consumer reads the events published by the outbox dispatcher and hands them
// to downstream handlers.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"example.com/ecosangam/internal/outbox"
)

// Reader exposes the minimal kafka.Reader interface needed by the processor.
type Reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

// Handler receives decoded messages from Kafka.
type Handler interface {
	Handle(context.Context, Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(context.Context, Message) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, msg Message) error { return f(ctx, msg) }

// Message is the decoded representation of a Kafka record emitted by the outbox
// dispatcher.
type Message struct {
	Topic         string
	Partition     int
	Offset        int64
	Timestamp     time.Time
	EventType     string
	EventID       int64
	UserID        string
	AggregateID   string
	SchemaSubject string
	SchemaID      int
	Payload       json.RawMessage
}

// Key identifies the record for idempotent handling.
func (m Message) Key() string {
	if m.EventID != 0 {
		return strconv.FormatInt(m.EventID, 10)
	}
	return fmt.Sprintf("%s/%d/%d", m.Topic, m.Partition, m.Offset)
}

// Option configures optional behaviour for the Processor.
type Option func(*Processor)

// WithLogger overrides the logger used to report errors.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithRetry makes the processor retry a failing handler up to attempts times in total,
// doubling delay between attempts.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(p *Processor) {
		if attempts > 0 {
			p.attempts = attempts
		}
		if delay > 0 {
			p.retryDelay = delay
		}
	}
}

// Processor pulls messages from Kafka, decodes them, and dispatches to a Handler.
type Processor struct {
	reader     Reader
	handler    Handler
	logger     zerolog.Logger
	attempts   int
	retryDelay time.Duration
}

// NewProcessor constructs a Processor with the provided reader and handler.
func NewProcessor(reader Reader, handler Handler, opts ...Option) *Processor {
	p := &Processor{
		reader:     reader,
		handler:    handler,
		logger:     zerolog.Nop(),
		attempts:   1,
		retryDelay: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run starts a blocking loop that processes Kafka messages until the context is
// cancelled. A message whose handler keeps failing is left uncommitted.
func (p *Processor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := p.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			p.logger.Error().Err(err).Msg("fetch error")
			continue
		}

		event, decodeErr := decodeMessage(msg)
		if decodeErr != nil {
			p.logger.Warn().Err(decodeErr).
				Str("topic", msg.Topic).
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Msg("decode error")
			recordDecodeError(msg.Topic)
			// Malformed records are committed so they cannot block the partition.
			if commitErr := p.reader.CommitMessages(ctx, msg); commitErr != nil {
				p.logger.Error().Err(commitErr).Msg("commit error after decode failure")
			}
			continue
		}

		if handleErr := p.handle(ctx, event); handleErr != nil {
			if errors.Is(handleErr, context.Canceled) {
				return handleErr
			}
			p.logger.Error().Err(handleErr).
				Str("event_type", event.EventType).
				Str("user_id", event.UserID).
				Int64("offset", event.Offset).
				Msg("handler error")
			recordHandlerError(event)
			continue
		}

		if commitErr := p.reader.CommitMessages(ctx, msg); commitErr != nil {
			p.logger.Error().Err(commitErr).Msg("commit error")
		} else {
			recordProcessed(event)
		}
	}
}

func (p *Processor) handle(ctx context.Context, event Message) error {
	defer observeHandler(event.EventType, time.Now())
	delay := p.retryDelay
	var err error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		if err = p.handler.Handle(ctx, event); err == nil {
			return nil
		}
		if attempt == p.attempts {
			break
		}
		p.logger.Debug().Err(err).Int("attempt", attempt).Str("event_type", event.EventType).Msg("retrying handler")
		recordRetry(event.EventType)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}

func decodeMessage(msg kafka.Message) (Message, error) {
	schemaID, payload, err := outbox.DecodeWireFormat(msg.Value)
	if err != nil {
		return Message{}, fmt.Errorf("invalid payload (length %d): %w", len(msg.Value), err)
	}

	eventType, ok := headerValue(msg, "event_type")
	if !ok {
		return Message{}, errors.New("missing event_type header")
	}
	userID, _ := headerValue(msg, "user_id")
	aggregateID, _ := headerValue(msg, "aggregate_id")
	schemaSubject, _ := headerValue(msg, "schema_subject")

	var eventID int64
	if raw, ok := headerValue(msg, "event_id"); ok {
		eventID, _ = strconv.ParseInt(string(raw), 10, 64)
	}

	return Message{
		Topic:         msg.Topic,
		Partition:     msg.Partition,
		Offset:        msg.Offset,
		Timestamp:     msg.Time,
		EventType:     string(eventType),
		EventID:       eventID,
		UserID:        string(userID),
		AggregateID:   string(aggregateID),
		SchemaSubject: string(schemaSubject),
		SchemaID:      schemaID,
		Payload:       json.RawMessage(append([]byte(nil), payload...)),
	}, nil
}

func headerValue(msg kafka.Message, key string) ([]byte, bool) {
	for _, header := range msg.Headers {
		if header.Key == key {
			return header.Value, true
		}
	}
	return nil, false
}
