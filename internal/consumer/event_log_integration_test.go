//go:build integration

package consumer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/ecosangam/internal/events"
	"example.com/ecosangam/internal/pgtest"
)

func TestEventLogHandlerIgnoresRedelivery(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Start(t, ctx)
	h := NewEventLogHandler(pool)

	msg := Message{
		Topic:         "goal_events",
		Partition:     0,
		Offset:        4,
		Timestamp:     time.Now().UTC(),
		EventType:     events.TypeGoalCreated,
		UserID:        "user-1",
		SchemaSubject: "goal_events-value",
		SchemaID:      3,
		Payload:       []byte(`{"goal_id":"g"}`),
	}
	require.NoError(t, h.Handle(ctx, msg))
	require.NoError(t, h.Handle(ctx, msg))

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM goal_event_log WHERE user_id = 'user-1'`).Scan(&count))
	require.Equal(t, 1, count)
}
