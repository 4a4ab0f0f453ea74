package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/ecosangam/internal/events"
)

func TestRouterDispatchesByType(t *testing.T) {
	var seen []string
	record := func(name string) Handler {
		return HandlerFunc(func(_ context.Context, msg Message) error {
			seen = append(seen, name+":"+msg.EventType)
			return nil
		})
	}
	router := NewRouter().All(record("log")).On(events.TypeGoalCompleted, record("notify"))

	require.NoError(t, router.Handle(context.Background(), Message{EventType: events.TypeGoalCreated}))
	require.NoError(t, router.Handle(context.Background(), Message{EventType: events.TypeGoalCompleted}))
	require.Equal(t, []string{"log:goal.created", "log:goal.completed", "notify:goal.completed"}, seen)
}

func TestRouterJoinsErrors(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	router := NewRouter().
		All(HandlerFunc(func(context.Context, Message) error { return errA })).
		On("x", HandlerFunc(func(context.Context, Message) error { return errB }))

	err := router.Handle(context.Background(), Message{EventType: "x"})
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)
}

type recordingNotifier struct {
	key       string
	completed events.GoalCompleted
	err       error
}

func (n *recordingNotifier) NotifyGoalCompleted(_ context.Context, key string, completed events.GoalCompleted) error {
	n.key, n.completed = key, completed
	return n.err
}

func TestCompletionHandlerForwardsPayload(t *testing.T) {
	payload, err := json.Marshal(events.GoalCompleted{
		GoalID:      "goal-9",
		Name:        "Asha",
		Email:       "asha@example.com",
		StartDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		CarbonSaved: 12.5,
		Streak:      2,
		GoalTitle:   "Reduce Meat Consumption by 5",
	})
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	h := NewCompletionHandler(notifier)
	require.NoError(t, h.Handle(context.Background(), Message{EventType: events.TypeGoalCompleted, Payload: payload}))
	require.Equal(t, "goal-9", notifier.key)
	require.Equal(t, "asha@example.com", notifier.completed.Email)
	require.Equal(t, 12.5, notifier.completed.CarbonSaved)
}

func TestCompletionHandlerIgnoresOtherEvents(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("should not be called")}
	h := NewCompletionHandler(notifier)
	require.NoError(t, h.Handle(context.Background(), Message{EventType: events.TypeGoalCreated, Payload: []byte("not json")}))
}

func TestCompletionHandlerRejectsBadPayload(t *testing.T) {
	h := NewCompletionHandler(&recordingNotifier{})
	err := h.Handle(context.Background(), Message{EventType: events.TypeGoalCompleted, Payload: []byte("{")})
	require.ErrorContains(t, err, "decode goal.completed")
}
