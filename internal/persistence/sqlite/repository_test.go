package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"example.com/ecosangam/internal/domain"
	"example.com/ecosangam/internal/emissions"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "ecosangam.db"), zerolog.New(zerolog.TestWriter{T: t}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

var alice = domain.User{ID: "user-1", Name: "Alice", Email: "alice@example.com"}

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

func TestGoalLifecycleThroughService(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	svc := domain.NewService(repo, repo)

	goal, err := svc.CreateGoal(ctx, alice, domain.NewGoalParams{Type: domain.GoalLessMeat, Target: f64(5), Days: intp(7)})
	require.NoError(t, err)
	_, res, err := svc.LogActivity(ctx, alice, goal.ID, domain.LogActivityInput{Activity: "Ate a vegan meal", Impact: f64(9)})
	require.NoError(t, err)
	require.NotNil(t, res.Completed)

	stored, err := svc.GetGoal(ctx, alice.ID, goal.ID)
	require.NoError(t, err)
	require.Equal(t, 5.0, stored.Progress)
	require.True(t, stored.Completed)
	require.Len(t, stored.Activities, 1)

	logged, err := repo.Events(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, logged, 3)
	require.Equal(t, domain.EventGoalCreated, logged[0].Type)
	require.Equal(t, domain.EventGoalCompleted, logged[2].Type)

	var completed domain.GoalCompleted
	require.NoError(t, json.Unmarshal(logged[2].Payload, &completed))
	require.Equal(t, "alice@example.com", completed.Email)
	require.Equal(t, 12.5, completed.CarbonSaved)
}

func TestFailedUpdateWritesNothing(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	svc := domain.NewService(repo, repo)

	_, _, err := svc.LogActivity(ctx, alice, "missing", domain.LogActivityInput{Activity: "x", Impact: f64(1)})
	require.ErrorIs(t, err, domain.ErrGoalNotFound)

	goals, err := repo.Load(ctx, alice.ID)
	require.NoError(t, err)
	require.Empty(t, goals)
	logged, err := repo.Events(ctx, alice.ID)
	require.NoError(t, err)
	require.Empty(t, logged)
}

func TestConcurrentUpdatesAreSerialised(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	svc := domain.NewService(repo, repo)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateGoal(ctx, alice, domain.NewGoalParams{Type: domain.GoalWater, Target: f64(10), Days: intp(3)})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	goals, err := repo.Load(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, goals, 8)
}

func TestCorruptGoalsLoadAsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	_, err := repo.db.ExecContext(ctx, `INSERT INTO user_goals (user_id, goals, updated_at) VALUES (?, ?, ?)`,
		alice.ID, "{not json", formatTime(time.Now()))
	require.NoError(t, err)

	goals, err := repo.Load(ctx, alice.ID)
	require.NoError(t, err)
	require.Empty(t, goals)

	svc := domain.NewService(repo, repo)
	_, err = svc.CreateGoal(ctx, alice, domain.NewGoalParams{Type: domain.GoalWater, Target: f64(10), Days: intp(3)})
	require.NoError(t, err)
	goals, err = repo.Load(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, goals, 1)
}

func TestFootprintKeepsNewestResult(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)

	newer := emissions.Result{Category: emissions.CategoryCar, Tons: 1.2, Precision: 2, CalculatedAt: now}
	older := emissions.Result{Category: emissions.CategoryCar, Tons: 9, Precision: 2, CalculatedAt: now.Add(-time.Hour)}
	require.NoError(t, repo.SaveResult(ctx, alice.ID, newer, nil))
	require.NoError(t, repo.SaveResult(ctx, alice.ID, older, nil))
	require.NoError(t, repo.SaveResult(ctx, alice.ID, emissions.Result{Category: emissions.CategoryBus, Tons: 0.005, Precision: 3, CalculatedAt: now}, nil))

	results, err := repo.LoadResults(ctx, alice.ID)
	require.NoError(t, err)
	fp := emissions.NewFootprint(results...)
	require.Equal(t, 1.205, fp.Total())
	car, ok := fp.Latest(emissions.CategoryCar)
	require.True(t, ok)
	require.True(t, now.Equal(car.CalculatedAt))
}

func TestMigrateIsIdempotent(t *testing.T) {
	repo := openTestRepo(t)
	require.NoError(t, repo.Migrate(context.Background()))
}
