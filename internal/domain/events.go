package domain

import (
	"time"

	"example.com/ecosangam/internal/events"
)

// Event types recorded by the service.
const (
	EventGoalCreated     = events.TypeGoalCreated
	EventActivityLogged  = events.TypeActivityLogged
	EventGoalCompleted   = events.TypeGoalCompleted
	EventFootprintUpdate = events.TypeFootprintUpdated
)

// GoalCompleted is emitted exactly once, when a goal's progress first reaches its
// target. Name and Email are filled in by the service from the acting user.
type GoalCompleted = events.GoalCompleted

// Event is a domain change pending delivery. Payload is marshalled to JSON by the
// repository that records it.
type Event struct {
	ID          string
	Type        string
	UserID      string
	AggregateID string
	OccurredAt  time.Time
	Payload     any
}
