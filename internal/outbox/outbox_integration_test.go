//go:build integration

package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"example.com/ecosangam/internal/events"
	"example.com/ecosangam/internal/pgtest"
)

func seedOutbox(t *testing.T, ctx context.Context, pool *pgxpool.Pool, userID, eventType string) int64 {
	t.Helper()
	route, ok := events.Lookup(eventType)
	if !ok {
		route = events.Route{Topic: "goal_events", SchemaSubject: "goal_events-value"}
	}
	var id int64
	err := pool.QueryRow(ctx,
		`INSERT INTO outbox (user_id, aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload)
         VALUES ($1,'goal','goal-1',$2,$3,$4,$1,'{"goal_id":"goal-1"}') RETURNING event_id`,
		userID, eventType, route.Topic, route.SchemaSubject,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestDispatcherPublishesFromPostgres(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Start(t, ctx)
	seedOutbox(t, ctx, pool, "user-1", events.TypeGoalCreated)

	producer := &stubProducer{}
	d := NewDispatcher(pool, producer, &stubRegistry{id: 42}, 10*time.Millisecond, 5)

	delivered, err := d.processBatch(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, delivered)
	require.Len(t, producer.writes, 1)

	var published int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE published_at IS NOT NULL`).Scan(&published))
	require.Equal(t, 1, published)

	delivered, err = d.processBatch(ctx)
	require.NoError(t, err)
	require.Zero(t, delivered)
}

func TestClaimedRowsAreSkippedByOtherDispatchers(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Start(t, ctx)
	seedOutbox(t, ctx, pool, "user-1", events.TypeGoalCreated)

	store := NewPostgresStore(pool)
	first, err := store.Claim(ctx, 5)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := store.Claim(ctx, 5)
	require.NoError(t, err)
	require.Empty(t, second)
}

func TestDispatcherFailureLandsInDLQAndManagerRequeues(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Start(t, ctx)
	eventID := seedOutbox(t, ctx, pool, "user-1", events.TypeGoalCompleted)

	producer := &stubProducer{err: map[string]error{"goal_completed": errors.New("kafka write failed")}}
	d := NewDispatcher(pool, producer, &stubRegistry{id: 7}, 10*time.Millisecond, 5)
	_, err := d.processBatch(ctx)
	require.NoError(t, err)

	var reason string
	require.NoError(t, pool.QueryRow(ctx, `SELECT reason FROM outbox_dlq WHERE event_id = $1`, eventID).Scan(&reason))
	require.Contains(t, reason, "kafka write failed")

	beforeRequeued := testutil.ToFloat64(dlqRequeuedCounter.WithLabelValues("goal_completed", events.TypeGoalCompleted))
	manager := NewDLQManager(pool, 3, time.Second, zeroLogger())
	handled, err := manager.RunOnce(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 1, handled)
	require.InDelta(t, beforeRequeued+1, testutil.ToFloat64(dlqRequeuedCounter.WithLabelValues("goal_completed", events.TypeGoalCompleted)), 0.0001)
	require.Zero(t, testutil.ToFloat64(dlqBacklogGauge))

	var pending int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE published_at IS NULL AND event_type = $1`, events.TypeGoalCompleted).Scan(&pending))
	require.Equal(t, 1, pending)

	producer.err = nil
	delivered, err := d.processBatch(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, delivered)
}

func TestDLQManagerQuarantinesExhaustedEntries(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Start(t, ctx)

	_, err := pool.Exec(ctx,
		`INSERT INTO outbox_dlq (user_id, event_id, event_type, topic, payload, reason, aggregate_type, aggregate_id, schema_subject, partition_key, retry_count, next_retry_at)
         VALUES ('user-1', 1, 'goal.completed', 'goal_completed', '{}', 'down', 'goal', 'goal-1', 'goal_completed-value', 'user-1', 3, NOW())`)
	require.NoError(t, err)

	manager := NewDLQManager(pool, 3, time.Second, zeroLogger())
	handled, err := manager.RunOnce(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 1, handled)

	var quarantineReason *string
	require.NoError(t, pool.QueryRow(ctx, `SELECT quarantine_reason FROM outbox_dlq`).Scan(&quarantineReason))
	require.NotNil(t, quarantineReason)
	require.Equal(t, "retry limit reached", *quarantineReason)
}

func TestDLQManagerSchedulesRetryWhenRequeueFails(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Start(t, ctx)

	_, err := pool.Exec(ctx,
		`INSERT INTO outbox_dlq (user_id, event_id, event_type, topic, payload, reason, aggregate_type, aggregate_id, schema_subject, partition_key, next_retry_at)
         VALUES ('user-1', 1, 'goal.completed', 'goal_completed', '{}', 'down', 'goal', 'goal-1', '', 'user-1', NOW())`)
	require.NoError(t, err)

	manager := NewDLQManager(pool, 3, time.Minute, zeroLogger())
	_, err = manager.RunOnce(ctx, 10)
	require.NoError(t, err)

	var retries int
	var next time.Time
	require.NoError(t, pool.QueryRow(ctx, `SELECT retry_count, next_retry_at FROM outbox_dlq`).Scan(&retries, &next))
	require.Equal(t, 1, retries)
	require.True(t, next.After(time.Now().Add(30*time.Second)))
}
