package consumer

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"example.com/ecosangam/internal/events"
)

func framed(schemaID int, payload []byte) []byte {
	value := make([]byte, 5+len(payload))
	binary.BigEndian.PutUint32(value[1:5], uint32(schemaID))
	copy(value[5:], payload)
	return value
}

func completedRecord(offset int64, payload []byte) kafka.Message {
	return kafka.Message{
		Topic:     "goal_completed",
		Partition: 0,
		Offset:    offset,
		Time:      time.Now().UTC(),
		Value:     framed(42, payload),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(events.TypeGoalCompleted)},
			{Key: "user_id", Value: []byte("user-1")},
			{Key: "aggregate_id", Value: []byte("goal-1")},
			{Key: "schema_subject", Value: []byte("goal_completed-value")},
			{Key: "event_id", Value: []byte("77")},
		},
	}
}

func testLogger(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.TestWriter{T: t})
}

func TestProcessorCommitsOnSuccess(t *testing.T) {
	payload := []byte(`{"goalId":"goal-1"}`)
	reader := &stubReader{messages: []kafka.Message{completedRecord(10, payload)}}
	handler := &stubHandler{}

	err := NewProcessor(reader, handler, WithLogger(testLogger(t))).Run(context.Background())
	require.ErrorIs(t, err, context.Canceled)

	require.Equal(t, 1, handler.calls)
	require.Equal(t, 1, reader.commitCalls)
	require.Equal(t, events.TypeGoalCompleted, handler.last.EventType)
	require.Equal(t, "user-1", handler.last.UserID)
	require.Equal(t, "goal-1", handler.last.AggregateID)
	require.Equal(t, int64(77), handler.last.EventID)
	require.Equal(t, "77", handler.last.Key())
	require.Equal(t, 42, handler.last.SchemaID)
	require.JSONEq(t, string(payload), string(handler.last.Payload))
}

func TestProcessorSkipsCommitOnHandlerError(t *testing.T) {
	reader := &stubReader{messages: []kafka.Message{completedRecord(20, []byte(`{}`))}}
	handler := &stubHandler{errs: []error{errors.New("boom")}}

	before := testutil.ToFloat64(handlerErrorCounter.WithLabelValues("goal_completed", events.TypeGoalCompleted))
	err := NewProcessor(reader, handler, WithLogger(testLogger(t))).Run(context.Background())
	require.ErrorIs(t, err, context.Canceled)

	require.Equal(t, 1, handler.calls)
	require.Zero(t, reader.commitCalls)
	require.Equal(t, before+1, testutil.ToFloat64(handlerErrorCounter.WithLabelValues("goal_completed", events.TypeGoalCompleted)))
}

func TestProcessorRetriesHandler(t *testing.T) {
	reader := &stubReader{messages: []kafka.Message{completedRecord(30, []byte(`{}`))}}
	busy := errors.New("smtp busy")
	handler := &stubHandler{errs: []error{busy, busy}}

	retries := testutil.ToFloat64(handlerRetryCounter.WithLabelValues(events.TypeGoalCompleted))
	processed := testutil.ToFloat64(processedCounter.WithLabelValues("goal_completed", events.TypeGoalCompleted))
	err := NewProcessor(reader, handler, WithRetry(3, time.Millisecond)).Run(context.Background())
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 3, handler.calls)
	require.Equal(t, 1, reader.commitCalls)
	require.Equal(t, retries+2, testutil.ToFloat64(handlerRetryCounter.WithLabelValues(events.TypeGoalCompleted)))
	require.Equal(t, processed+1, testutil.ToFloat64(processedCounter.WithLabelValues("goal_completed", events.TypeGoalCompleted)))
	require.Positive(t, testutil.ToFloat64(lastEventGauge.WithLabelValues(events.TypeGoalCompleted)))
}

func TestProcessorCommitsUndecodableRecords(t *testing.T) {
	bad := kafka.Message{Topic: "goal_events", Value: []byte("{}")}
	missingType := kafka.Message{Topic: "goal_events", Value: framed(1, []byte(`{}`))}
	reader := &stubReader{messages: []kafka.Message{bad, missingType}}
	handler := &stubHandler{}

	before := testutil.ToFloat64(decodeErrorCounter.WithLabelValues("goal_events"))
	err := NewProcessor(reader, handler).Run(context.Background())
	require.ErrorIs(t, err, context.Canceled)

	require.Zero(t, handler.calls)
	require.Equal(t, 2, reader.commitCalls)
	require.Equal(t, before+2, testutil.ToFloat64(decodeErrorCounter.WithLabelValues("goal_events")))
}

func TestMessageKeyFallsBackToPosition(t *testing.T) {
	msg := Message{Topic: "goal_completed", Partition: 2, Offset: 9}
	require.Equal(t, "goal_completed/2/9", msg.Key())
}

type stubReader struct {
	messages    []kafka.Message
	index       int
	commitCalls int
}

func (r *stubReader) FetchMessage(context.Context) (kafka.Message, error) {
	if r.index >= len(r.messages) {
		return kafka.Message{}, context.Canceled
	}
	msg := r.messages[r.index]
	r.index++
	return msg, nil
}

func (r *stubReader) CommitMessages(_ context.Context, _ ...kafka.Message) error {
	r.commitCalls++
	return nil
}

func (r *stubReader) Close() error { return nil }

// stubHandler fails its first len(errs) calls with the listed errors.
type stubHandler struct {
	calls int
	errs  []error
	last  Message
}

func (h *stubHandler) Handle(_ context.Context, msg Message) error {
	h.calls++
	h.last = msg
	if h.calls <= len(h.errs) {
		return h.errs[h.calls-1]
	}
	return nil
}
