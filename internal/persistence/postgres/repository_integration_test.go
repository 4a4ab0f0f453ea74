//go:build integration

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"example.com/ecosangam/internal/domain"
	"example.com/ecosangam/internal/emissions"
	"example.com/ecosangam/internal/pgtest"
)

func TestRepositoryGoalLifecycleWritesOutbox(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Start(t, ctx)
	repo := NewRepository(pool, zerolog.Nop())

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := domain.NewService(repo, repo, domain.WithClock(func() time.Time { return now }))
	user := domain.User{ID: "user-1", Name: "Asha", Email: "asha@example.com"}

	target, days, impact := 5.0, 3, 5.0
	goal, err := svc.CreateGoal(ctx, user, domain.NewGoalParams{Type: domain.GoalLessMeat, Target: &target, Days: &days})
	require.NoError(t, err)

	_, res, err := svc.LogActivity(ctx, user, goal.ID, domain.LogActivityInput{Activity: "Had a meat-free day", Impact: &impact})
	require.NoError(t, err)
	require.NotNil(t, res.Completed)

	stored, err := repo.Load(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.True(t, stored[0].Completed)

	rows, err := pool.Query(ctx, `SELECT event_type, topic, partition_key, payload FROM outbox ORDER BY event_id`)
	require.NoError(t, err)
	defer rows.Close()

	var types []string
	for rows.Next() {
		var eventType, topic, key string
		var payload []byte
		require.NoError(t, rows.Scan(&eventType, &topic, &key, &payload))
		types = append(types, eventType)
		require.Equal(t, user.ID, key)
		if eventType == domain.EventGoalCompleted {
			require.Equal(t, "goal_completed", topic)
			var completed domain.GoalCompleted
			require.NoError(t, json.Unmarshal(payload, &completed))
			require.Equal(t, "asha@example.com", completed.Email)
			require.Equal(t, 12.5, completed.CarbonSaved)
		}
	}
	require.NoError(t, rows.Err())
	require.Equal(t, []string{domain.EventGoalCreated, domain.EventActivityLogged, domain.EventGoalCompleted}, types)
}

func TestRepositoryFailedUpdateWritesNothing(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Start(t, ctx)
	repo := NewRepository(pool, zerolog.Nop())

	boom := errors.New("boom")
	err := repo.Update(ctx, "user-2", func(goals []domain.Goal) ([]domain.Goal, []domain.Event, error) {
		return nil, nil, boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox`).Scan(&count))
	require.Zero(t, count)
}

func TestRepositorySerialisesConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Start(t, ctx)
	repo := NewRepository(pool, zerolog.Nop())

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Update(ctx, "user-3", func(goals []domain.Goal) ([]domain.Goal, []domain.Event, error) {
				return append(goals, domain.Goal{ID: time.Now().String(), Activities: []domain.Activity{}}), nil, nil
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	goals, err := repo.Load(ctx, "user-3")
	require.NoError(t, err)
	require.Len(t, goals, 8)
}

func TestRepositoryDiscardsCorruptGoals(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Start(t, ctx)
	repo := NewRepository(pool, zerolog.Nop())

	_, err := pool.Exec(ctx, `INSERT INTO user_goals (user_id, goals) VALUES ('user-4', '{"not":"a list"}')`)
	require.NoError(t, err)

	goals, err := repo.Load(ctx, "user-4")
	require.NoError(t, err)
	require.Empty(t, goals)
}

func TestRepositoryKeepsNewestFootprintResult(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Start(t, ctx)
	repo := NewRepository(pool, zerolog.Nop())

	newer := emissions.Result{Category: emissions.CategoryCar, Tons: 1.2, Precision: 2, CalculatedAt: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)}
	older := emissions.Result{Category: emissions.CategoryCar, Tons: 9, Precision: 2, CalculatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, repo.SaveResult(ctx, "user-5", newer, nil))
	require.NoError(t, repo.SaveResult(ctx, "user-5", older, nil))

	results, err := repo.LoadResults(ctx, "user-5")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, 1.2, results[0].Tons)
}

func TestDeliveryLog(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Start(t, ctx)
	log := NewDeliveryLog(pool)

	done, err := log.Delivered(ctx, "goal-1")
	require.NoError(t, err)
	require.False(t, done)

	require.NoError(t, log.Record(ctx, "goal-1", "a@example.com", "Eat Less Meat by 5"))
	require.NoError(t, log.Record(ctx, "goal-1", "a@example.com", "Eat Less Meat by 5"))

	done, err = log.Delivered(ctx, "goal-1")
	require.NoError(t, err)
	require.True(t, done)
}
