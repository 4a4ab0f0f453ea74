// Package sqlite stores goals and footprints in a local SQLite database for the
// command line client.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/rs/zerolog"

	"example.com/ecosangam/internal/domain"
	"example.com/ecosangam/internal/emissions"
	"example.com/ecosangam/internal/persistence"
)

// Repository implements domain.GoalRepository and domain.FootprintRepository. Events
// are appended to a local log since the CLI has no broker to publish to.
type Repository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string, logger zerolog.Logger) (*Repository, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serialises read-modify-write cycles per process.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &Repository{db: db, logger: logger}
	if err := r.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Load implements domain.GoalRepository.
func (r *Repository) Load(ctx context.Context, userID string) ([]domain.Goal, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT goals FROM user_goals WHERE user_id = ?`, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []domain.Goal{}, nil
	}
	if err != nil {
		return nil, err
	}
	return persistence.DecodeGoals([]byte(raw), userID, r.logger), nil
}

// Update implements domain.GoalRepository.
func (r *Repository) Update(ctx context.Context, userID string, fn func([]domain.Goal) ([]domain.Goal, []domain.Event, error)) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT goals FROM user_goals WHERE user_id = ?`, userID).Scan(&raw)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	current := persistence.DecodeGoals([]byte(raw), userID, r.logger)

	goals, events, err := fn(current)
	if err != nil {
		return err
	}
	encoded, err := persistence.EncodeGoals(goals)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO user_goals (user_id, goals, version, updated_at)
        VALUES (?, ?, 1, ?)
        ON CONFLICT (user_id) DO UPDATE SET goals = excluded.goals, version = user_goals.version + 1, updated_at = excluded.updated_at`,
		userID, string(encoded), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to save goals: %w", err)
	}
	if err = insertEvents(ctx, tx, events); err != nil {
		return err
	}
	return commit(tx)
}

// LoadResults implements domain.FootprintRepository.
func (r *Repository) LoadResults(ctx context.Context, userID string) ([]emissions.Result, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, tons, precision, calculated_at
        FROM footprint_results WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []emissions.Result
	for rows.Next() {
		var (
			category string
			res      emissions.Result
			at       string
		)
		if err := rows.Scan(&category, &res.Tons, &res.Precision, &at); err != nil {
			return nil, err
		}
		c, ok := emissions.ParseCategory(category)
		if !ok {
			r.logger.Warn().Str("user_id", userID).Str("category", category).Msg("skipping unknown footprint category")
			continue
		}
		res.Category = c
		if res.CalculatedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			r.logger.Warn().Err(err).Str("user_id", userID).Msg("skipping footprint result with bad timestamp")
			continue
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// SaveResult implements domain.FootprintRepository. Older results never replace newer
// ones.
func (r *Repository) SaveResult(ctx context.Context, userID string, result emissions.Result, events []domain.Event) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	tons := result.Tons
	if tons < 0 {
		tons = 0
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO footprint_results (user_id, category, tons, precision, calculated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (user_id, category) DO UPDATE SET tons = excluded.tons, precision = excluded.precision,
            calculated_at = excluded.calculated_at
        WHERE footprint_results.calculated_at <= excluded.calculated_at`,
		userID, string(result.Category), tons, result.Precision, formatTime(result.CalculatedAt))
	if err != nil {
		return fmt.Errorf("failed to save footprint result: %w", err)
	}
	if err = insertEvents(ctx, tx, events); err != nil {
		return err
	}
	return commit(tx)
}

// EventRecord is an entry of the local event log.
type EventRecord struct {
	ID          string          `json:"id" yaml:"id"`
	Type        string          `json:"type" yaml:"type"`
	UserID      string          `json:"userId" yaml:"userId"`
	AggregateID string          `json:"aggregateId" yaml:"aggregateId"`
	Payload     json.RawMessage `json:"payload" yaml:"-"`
	OccurredAt  time.Time       `json:"occurredAt" yaml:"occurredAt"`
}

// Events lists the user's logged events, oldest first.
func (r *Repository) Events(ctx context.Context, userID string) ([]EventRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT event_id, event_type, user_id, aggregate_id, payload, occurred_at
        FROM events WHERE user_id = ? ORDER BY occurred_at, rowid`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EventRecord
	for rows.Next() {
		var (
			rec     EventRecord
			payload string
			at      string
		)
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.UserID, &rec.AggregateID, &payload, &at); err != nil {
			return nil, err
		}
		rec.Payload = json.RawMessage(payload)
		rec.OccurredAt, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func insertEvents(ctx context.Context, tx *sql.Tx, events []domain.Event) error {
	for _, e := range events {
		payload, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", e.Type, err)
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO events (event_id, event_type, user_id, aggregate_id, payload, occurred_at)
            VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT (event_id) DO NOTHING`,
			e.ID, e.Type, e.UserID, e.AggregateID, string(payload), formatTime(e.OccurredAt))
		if err != nil {
			return fmt.Errorf("failed to record %s event: %w", e.Type, err)
		}
	}
	return nil
}

// formatTime renders t in a fixed-width UTC form so that text comparison orders it.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}
