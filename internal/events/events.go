// Package events defines the event payloads exchanged between the API, the outbox
// dispatcher and downstream consumers.
package events

import "time"

// Event type names.
const (
	TypeGoalCreated      = "goal.created"
	TypeActivityLogged   = "goal.activity_logged"
	TypeGoalCompleted    = "goal.completed"
	TypeFootprintUpdated = "footprint.updated"
)

// GoalCreated is emitted when a user creates a goal.
type GoalCreated struct {
	GoalID    string    `json:"goal_id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Target    float64   `json:"target"`
	Unit      string    `json:"unit"`
	Days      int       `json:"days"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityLogged is emitted for every activity appended to a goal.
type ActivityLogged struct {
	GoalID     string    `json:"goal_id"`
	UserID     string    `json:"user_id"`
	ActivityID string    `json:"activity_id"`
	Date       string    `json:"date"`
	Label      string    `json:"activity"`
	Impact     float64   `json:"impact"`
	Progress   float64   `json:"progress"`
	LoggedAt   time.Time `json:"logged_at"`
}

// GoalCompleted is emitted once when a goal first reaches its target. It carries
// everything needed to issue a completion certificate.
type GoalCompleted struct {
	GoalID      string    `json:"goalId,omitempty"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	CarbonSaved float64   `json:"carbonSaved"`
	Streak      int       `json:"streak"`
	GoalTitle   string    `json:"goalTitle"`
}

// FootprintUpdated is emitted when a category estimate is published to a footprint.
type FootprintUpdated struct {
	UserID     string    `json:"user_id"`
	Category   string    `json:"category"`
	Tons       float64   `json:"tons"`
	TotalTons  float64   `json:"total_tons"`
	OccurredAt time.Time `json:"occurred_at"`
}
