package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/ecosangam/internal/domain"
	"example.com/ecosangam/internal/emissions"
)

func ptr[T any](v T) *T { return &v }

func TestRepositoryBacksService(t *testing.T) {
	ctx := context.Background()
	var (
		mu       sync.Mutex
		received []domain.Event
	)
	repo := NewRepository(WithEventSink(func(_ context.Context, events []domain.Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, events...)
	}))
	svc := domain.NewService(repo, repo)
	user := domain.User{ID: "u1", Name: "Ravi", Email: "ravi@example.com"}

	goal, err := svc.CreateGoal(ctx, user, domain.NewGoalParams{Type: domain.GoalWater, Target: ptr(20.0), Days: ptr(3)})
	require.NoError(t, err)

	_, res, err := svc.LogActivity(ctx, user, goal.ID, domain.LogActivityInput{Activity: "Collected rainwater", Impact: ptr(20.0)})
	require.NoError(t, err)
	require.NotNil(t, res.Completed)

	stored, err := svc.GetGoal(ctx, user.ID, goal.ID)
	require.NoError(t, err)
	require.True(t, stored.Completed)
	require.Len(t, stored.Activities, 1)

	require.Len(t, repo.Events(), 3)
	mu.Lock()
	require.Len(t, received, 3)
	require.Equal(t, domain.EventGoalCompleted, received[2].Type)
	mu.Unlock()
}

func TestRepositoryFailedUpdateWritesNothing(t *testing.T) {
	repo := NewRepository()
	err := repo.Update(context.Background(), "u1", func(goals []domain.Goal) ([]domain.Goal, []domain.Event, error) {
		return append(goals, domain.Goal{ID: "g"}), []domain.Event{{ID: "e"}}, domain.ErrGoalNotFound
	})
	require.ErrorIs(t, err, domain.ErrGoalNotFound)

	goals, err := repo.Load(context.Background(), "u1")
	require.NoError(t, err)
	require.Empty(t, goals)
	require.Empty(t, repo.Events())
}

func TestRepositoryCorruptGoalsStartEmpty(t *testing.T) {
	repo := NewRepository()
	repo.Corrupt("u1", []byte("{{{"))

	goals, err := repo.Load(context.Background(), "u1")
	require.NoError(t, err)
	require.Empty(t, goals)
}

func TestRepositoryFootprintKeepsLatest(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveResult(ctx, "u1", emissions.Result{Category: emissions.CategoryCar, Tons: 2, CalculatedAt: now}, nil))
	require.NoError(t, repo.SaveResult(ctx, "u1", emissions.Result{Category: emissions.CategoryCar, Tons: 1, CalculatedAt: now.Add(time.Hour)}, nil))
	require.NoError(t, repo.SaveResult(ctx, "u1", emissions.Result{Category: emissions.CategoryFood, Tons: 0.5, CalculatedAt: now}, nil))

	results, err := repo.LoadResults(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1.5, emissions.NewFootprint(results...).Total())
}
