// Package domain defines the goal tracking and footprint business logic.
package domain

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"example.com/ecosangam/internal/emissions"
	"example.com/ecosangam/internal/events"
)

// User identifies the person acting on goals. Name and Email travel with completion
// events so that certificates can be addressed.
type User struct {
	ID    string
	Name  string
	Email string
}

// GoalRepository stores each user's goal collection.
type GoalRepository interface {
	Load(ctx context.Context, userID string) ([]Goal, error)
	// Update applies fn to the user's goals and persists the returned goals together
	// with the returned events. Nothing is written when fn fails. Calls for the same
	// user are serialised.
	Update(ctx context.Context, userID string, fn func([]Goal) ([]Goal, []Event, error)) error
}

// FootprintRepository stores the latest estimate per category for each user.
type FootprintRepository interface {
	LoadResults(ctx context.Context, userID string) ([]emissions.Result, error)
	SaveResult(ctx context.Context, userID string, result emissions.Result, events []Event) error
}

// Cursor models the pagination token for goal listings.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// Service orchestrates goal and footprint workflows.
type Service struct {
	goals      GoalRepository
	footprints FootprintRepository
	now        func() time.Time
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithClock overrides the service clock.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService constructs a Service. footprints may be nil when only goals are served.
func NewService(goals GoalRepository, footprints FootprintRepository, opts ...ServiceOption) *Service {
	s := &Service{
		goals:      goals,
		footprints: footprints,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateGoal validates and stores a new goal, recording goal.created and, if the
// target is met on creation, goal.completed.
func (s *Service) CreateGoal(ctx context.Context, user User, params NewGoalParams) (*Goal, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	now := s.now()
	var created Goal
	err := s.goals.Update(ctx, user.ID, func(goals []Goal) ([]Goal, []Event, error) {
		goal, completed, err := NewGoal(params, ulid.Make().String(), now)
		if err != nil {
			return nil, nil, err
		}
		created = goal
		pending := []Event{newEvent(EventGoalCreated, user.ID, goal.ID, now, events.GoalCreated{
			GoalID:    goal.ID,
			UserID:    user.ID,
			Type:      string(goal.Type),
			Title:     goal.Title,
			Target:    goal.Target,
			Unit:      goal.Unit,
			Days:      goal.Days,
			CreatedAt: goal.CreatedAt,
		})}
		if completed != nil {
			pending = append(pending, completionEvent(user, goal.ID, now, completed))
		}
		return append(goals, goal), pending, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// LogActivityInput captures an activity log request.
type LogActivityInput struct {
	Activity       string
	CustomActivity string
	Impact         *float64
}

// LogActivity appends an activity to the goal and records the resulting events.
func (s *Service) LogActivity(ctx context.Context, user User, goalID string, input LogActivityInput) (*Goal, LogResult, error) {
	now := s.now()
	var (
		updated Goal
		result  LogResult
	)
	err := s.goals.Update(ctx, user.ID, func(goals []Goal) ([]Goal, []Event, error) {
		idx := indexOf(goals, goalID)
		if idx < 0 {
			return nil, nil, ErrGoalNotFound
		}
		goal := cloneGoal(goals[idx])
		res, err := goal.LogActivity(uuid.NewString(), input.Activity, input.CustomActivity, input.Impact, now)
		if err != nil {
			return nil, nil, err
		}
		pending := []Event{newEvent(EventActivityLogged, user.ID, goal.ID, now, events.ActivityLogged{
			GoalID:     goal.ID,
			UserID:     user.ID,
			ActivityID: res.Activity.ID,
			Date:       res.Activity.Date,
			Label:      res.Activity.Label,
			Impact:     res.Activity.Impact,
			Progress:   goal.Progress,
			LoggedAt:   res.Activity.LoggedAt,
		})}
		if res.Completed != nil {
			pending = append(pending, completionEvent(user, goal.ID, now, res.Completed))
		}
		out := append([]Goal(nil), goals...)
		out[idx] = goal
		updated, result = goal, res
		return out, pending, nil
	})
	if err != nil {
		return nil, LogResult{}, err
	}
	return &updated, result, nil
}

// GetGoal fetches a single goal.
func (s *Service) GetGoal(ctx context.Context, userID, goalID string) (*Goal, error) {
	goals, err := s.goals.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := indexOf(goals, goalID)
	if idx < 0 {
		return nil, ErrGoalNotFound
	}
	goal := goals[idx]
	return &goal, nil
}

// ListGoals returns goals ordered by creation time with cursor pagination.
func (s *Service) ListGoals(ctx context.Context, userID string, cursor *Cursor, limit int) ([]Goal, *Cursor, error) {
	goals, err := s.goals.Load(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	sort.SliceStable(goals, func(i, j int) bool {
		if !goals[i].CreatedAt.Equal(goals[j].CreatedAt) {
			return goals[i].CreatedAt.Before(goals[j].CreatedAt)
		}
		return goals[i].ID < goals[j].ID
	})

	start := 0
	if cursor != nil {
		start = sort.Search(len(goals), func(i int) bool {
			g := goals[i]
			if g.CreatedAt.Equal(cursor.CreatedAt) {
				return g.ID > cursor.ID
			}
			return g.CreatedAt.After(cursor.CreatedAt)
		})
	}
	goals = goals[start:]
	if limit <= 0 || limit >= len(goals) {
		return goals, nil, nil
	}
	page := goals[:limit]
	last := page[len(page)-1]
	return page, &Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
}

// GoalCalendar builds the challenge calendar for a goal.
func (s *Service) GoalCalendar(ctx context.Context, userID, goalID string) (Calendar, error) {
	goal, err := s.GetGoal(ctx, userID, goalID)
	if err != nil {
		return Calendar{}, err
	}
	return BuildCalendar(*goal, s.now()), nil
}

// RecordEstimate publishes an estimate to the user's stored footprint.
func (s *Service) RecordEstimate(ctx context.Context, userID string, result emissions.Result) (*emissions.Footprint, error) {
	fp, err := s.Footprint(ctx, userID)
	if err != nil {
		return nil, err
	}
	fp.Publish(result)
	if s.footprints == nil {
		return fp, nil
	}
	event := newEvent(EventFootprintUpdate, userID, userID, s.now(), events.FootprintUpdated{
		UserID:     userID,
		Category:   string(result.Category),
		Tons:       result.Tons,
		TotalTons:  fp.Total(),
		OccurredAt: result.CalculatedAt,
	})
	if err := s.footprints.SaveResult(ctx, userID, result, []Event{event}); err != nil {
		return nil, err
	}
	return fp, nil
}

// Footprint loads the user's latest results.
func (s *Service) Footprint(ctx context.Context, userID string) (*emissions.Footprint, error) {
	if s.footprints == nil {
		return emissions.NewFootprint(), nil
	}
	results, err := s.footprints.LoadResults(ctx, userID)
	if err != nil {
		return nil, err
	}
	return emissions.NewFootprint(results...), nil
}

func newEvent(t string, userID, aggregateID string, at time.Time, payload any) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        t,
		UserID:      userID,
		AggregateID: aggregateID,
		OccurredAt:  at,
		Payload:     payload,
	}
}

func completionEvent(user User, goalID string, at time.Time, completed *GoalCompleted) Event {
	completed.Name = user.Name
	completed.Email = user.Email
	return newEvent(EventGoalCompleted, user.ID, goalID, at, *completed)
}

func indexOf(goals []Goal, id string) int {
	for i := range goals {
		if goals[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneGoal(g Goal) Goal {
	g.Activities = append([]Activity(nil), g.Activities...)
	if g.CompletedAt != nil {
		at := *g.CompletedAt
		g.CompletedAt = &at
	}
	return g
}
