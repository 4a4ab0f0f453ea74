// Package postgres provides Postgres-backed persistence for goals, footprints and
// outbox events.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"example.com/ecosangam/internal/domain"
	"example.com/ecosangam/internal/emissions"
	"example.com/ecosangam/internal/events"
	"example.com/ecosangam/internal/observability"
	"example.com/ecosangam/internal/persistence"
)

// Repository stores goal documents and footprint results, recording outbox events in
// the same transaction as the change that produced them.
type Repository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool, logger zerolog.Logger) *Repository {
	return &Repository{pool: pool, logger: logger}
}

// Load implements domain.GoalRepository.
func (r *Repository) Load(ctx context.Context, userID string) ([]domain.Goal, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT goals FROM user_goals WHERE user_id=$1`, userID).Scan(&raw)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return persistence.DecodeGoals(raw, userID, r.logger), nil
}

// Update implements domain.GoalRepository. The user's row is locked for the duration
// of fn so concurrent updates for one user are serialised.
func (r *Repository) Update(ctx context.Context, userID string, fn func([]domain.Goal) ([]domain.Goal, []domain.Event, error)) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `INSERT INTO user_goals (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return err
	}

	var raw []byte
	if err = tx.QueryRow(ctx, `SELECT goals FROM user_goals WHERE user_id=$1 FOR UPDATE`, userID).Scan(&raw); err != nil {
		return err
	}

	goals, pending, err := fn(persistence.DecodeGoals(raw, userID, r.logger))
	if err != nil {
		return err
	}

	body, err := persistence.EncodeGoals(goals)
	if err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `UPDATE user_goals SET goals=$2, version=version+1, updated_at=NOW() WHERE user_id=$1`, userID, body); err != nil {
		return err
	}

	for _, event := range pending {
		if err = insertOutbox(ctx, tx, "goal", event); err != nil {
			return err
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return err
	}
	recordEvents(pending)
	return nil
}

// LoadResults implements domain.FootprintRepository.
func (r *Repository) LoadResults(ctx context.Context, userID string) ([]emissions.Result, error) {
	rows, err := r.pool.Query(ctx, `SELECT category, tons, precision, calculated_at
        FROM footprint_results WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []emissions.Result
	for rows.Next() {
		var (
			res      emissions.Result
			category string
		)
		if err := rows.Scan(&category, &res.Tons, &res.Precision, &res.CalculatedAt); err != nil {
			return nil, err
		}
		c, ok := emissions.ParseCategory(category)
		if !ok {
			r.logger.Warn().Str("user_id", userID).Str("category", category).Msg("skipping unknown footprint category")
			continue
		}
		res.Category = c
		results = append(results, res)
	}
	return results, rows.Err()
}

// SaveResult implements domain.FootprintRepository. A stored result is replaced only
// by one calculated at the same time or later.
func (r *Repository) SaveResult(ctx context.Context, userID string, result emissions.Result, pending []domain.Event) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const upsert = `INSERT INTO footprint_results (user_id, category, tons, precision, calculated_at)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (user_id, category) DO UPDATE
        SET tons=EXCLUDED.tons, precision=EXCLUDED.precision, calculated_at=EXCLUDED.calculated_at
        WHERE footprint_results.calculated_at <= EXCLUDED.calculated_at`

	tons := result.Tons
	if tons < 0 {
		tons = 0
	}
	if _, err = tx.Exec(ctx, upsert, userID, string(result.Category), tons, result.Precision, result.CalculatedAt); err != nil {
		return err
	}
	for _, event := range pending {
		if err = insertOutbox(ctx, tx, "footprint", event); err != nil {
			return err
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return err
	}
	recordEvents(pending)
	return nil
}

func insertOutbox(ctx context.Context, tx pgx.Tx, aggregateType string, event domain.Event) error {
	body, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	route, ok := events.Lookup(event.Type)
	if !ok {
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	const stmt = `INSERT INTO outbox (user_id, aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (dedupe_key) DO NOTHING`

	_, err = tx.Exec(ctx, stmt,
		event.UserID,
		aggregateType,
		event.AggregateID,
		event.Type,
		route.Topic,
		route.SchemaSubject,
		partitionKey(event),
		body,
		fmt.Sprintf("%s:%s", event.ID, event.Type),
	)
	return err
}

func recordEvents(pending []domain.Event) {
	for _, event := range pending {
		observability.RecordEventRecorded(event.Type)
	}
}

// partitionKey keeps every event for one user on one partition so consumers see a
// user's goal history in order.
func partitionKey(event domain.Event) string {
	return event.UserID
}
