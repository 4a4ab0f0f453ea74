// Package memory provides in-process repositories for local development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"example.com/ecosangam/internal/domain"
	"example.com/ecosangam/internal/emissions"
	"example.com/ecosangam/internal/persistence"
)

// EventSink receives events after the change that produced them is stored.
type EventSink func(ctx context.Context, events []domain.Event)

// Repository stores goals and footprints in memory. Values are kept encoded so that
// callers never share slices with the store.
type Repository struct {
	mu         sync.Mutex
	goals      map[string][]byte
	footprints map[string][]byte
	events     []domain.Event
	sink       EventSink
	logger     zerolog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithEventSink forwards recorded events to sink.
func WithEventSink(sink EventSink) Option {
	return func(r *Repository) { r.sink = sink }
}

// WithLogger sets the logger used to report discarded data.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Repository) { r.logger = logger }
}

// NewRepository constructs an empty Repository.
func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		goals:      make(map[string][]byte),
		footprints: make(map[string][]byte),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load implements domain.GoalRepository.
func (r *Repository) Load(_ context.Context, userID string) ([]domain.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return persistence.DecodeGoals(r.goals[userID], userID, r.logger), nil
}

// Update implements domain.GoalRepository.
func (r *Repository) Update(ctx context.Context, userID string, fn func([]domain.Goal) ([]domain.Goal, []domain.Event, error)) error {
	r.mu.Lock()
	current := persistence.DecodeGoals(r.goals[userID], userID, r.logger)
	goals, events, err := fn(current)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	raw, err := persistence.EncodeGoals(goals)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	r.goals[userID] = raw
	r.events = append(r.events, events...)
	sink := r.sink
	r.mu.Unlock()

	if sink != nil && len(events) > 0 {
		sink(ctx, events)
	}
	return nil
}

// LoadResults implements domain.FootprintRepository.
func (r *Repository) LoadResults(_ context.Context, userID string) ([]emissions.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return persistence.DecodeResults(r.footprints[userID], userID, r.logger), nil
}

// SaveResult implements domain.FootprintRepository.
func (r *Repository) SaveResult(ctx context.Context, userID string, result emissions.Result, events []domain.Event) error {
	r.mu.Lock()
	fp := emissions.NewFootprint(persistence.DecodeResults(r.footprints[userID], userID, r.logger)...)
	fp.Publish(result)
	raw, err := persistence.EncodeResults(fp.Results())
	if err != nil {
		r.mu.Unlock()
		return err
	}
	r.footprints[userID] = raw
	r.events = append(r.events, events...)
	sink := r.sink
	r.mu.Unlock()

	if sink != nil && len(events) > 0 {
		sink(ctx, events)
	}
	return nil
}

// Corrupt replaces a user's stored goals with raw bytes. It exists for exercising the
// corrupt-data path.
func (r *Repository) Corrupt(userID string, raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goals[userID] = append([]byte(nil), raw...)
}

// Events returns a copy of every event recorded so far.
func (r *Repository) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}
