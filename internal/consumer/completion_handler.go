package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"example.com/ecosangam/internal/events"
)

// CompletionNotifier issues the certificate for a completed goal. key is stable across
// redeliveries of the same event.
type CompletionNotifier interface {
	NotifyGoalCompleted(ctx context.Context, key string, completed events.GoalCompleted) error
}

// CompletionHandler decodes goal.completed events and forwards them to a notifier.
type CompletionHandler struct {
	notifier CompletionNotifier
}

// NewCompletionHandler constructs a CompletionHandler.
func NewCompletionHandler(notifier CompletionNotifier) *CompletionHandler {
	return &CompletionHandler{notifier: notifier}
}

// Handle implements Handler.
func (h *CompletionHandler) Handle(ctx context.Context, msg Message) error {
	if msg.EventType != events.TypeGoalCompleted {
		return nil
	}
	var completed events.GoalCompleted
	if err := json.Unmarshal(msg.Payload, &completed); err != nil {
		return fmt.Errorf("decode goal.completed: %w", err)
	}
	key := completed.GoalID
	if key == "" {
		key = msg.Key()
	}
	return h.notifier.NotifyGoalCompleted(ctx, key, completed)
}
