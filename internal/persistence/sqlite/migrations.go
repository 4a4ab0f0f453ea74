package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the schema version this package expects after Migrate.
const SchemaVersion = 1

type migration struct {
	version     int
	description string
	statements  []string
}

var migrations = []migration{
	{
		version:     1,
		description: "goals, footprint results and local event log",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS user_goals (
				user_id TEXT PRIMARY KEY,
				goals TEXT NOT NULL DEFAULT '[]',
				version INTEGER NOT NULL DEFAULT 0,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS footprint_results (
				user_id TEXT NOT NULL,
				category TEXT NOT NULL,
				tons REAL NOT NULL CHECK (tons >= 0),
				precision INTEGER NOT NULL,
				calculated_at TEXT NOT NULL,
				PRIMARY KEY (user_id, category)
			)`,
			`CREATE TABLE IF NOT EXISTS events (
				event_id TEXT PRIMARY KEY,
				event_type TEXT NOT NULL,
				user_id TEXT NOT NULL,
				aggregate_id TEXT NOT NULL,
				payload TEXT NOT NULL,
				occurred_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_events_user ON events(user_id, occurred_at)`,
		},
	},
}

// Migrate brings the schema up to SchemaVersion, tracked in PRAGMA user_version.
func (r *Repository) Migrate(ctx context.Context) error {
	var current int
	if err := r.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := r.apply(ctx, m); err != nil {
			return err
		}
		r.logger.Debug().Int("version", m.version).Str("description", m.description).Msg("applied migration")
	}

	var final int
	if err := r.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&final); err != nil {
		return fmt.Errorf("failed to verify schema version: %w", err)
	}
	if final != SchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", SchemaVersion, final)
	}
	return nil
}

func (r *Repository) apply(ctx context.Context, m migration) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range m.statements {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}
	return commit(tx)
}

func commit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
