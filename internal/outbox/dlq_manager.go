package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const quarantineReason = "retry limit reached"

// DLQManager handles retrying failed outbox messages and quarantining exhausted entries.
type DLQManager struct {
	pool       *pgxpool.Pool
	maxRetries int
	baseDelay  time.Duration
	logger     zerolog.Logger
}

// NewDLQManager constructs a DLQManager with the provided pool and retry configuration.
func NewDLQManager(pool *pgxpool.Pool, maxRetries int, baseDelay time.Duration, logger zerolog.Logger) *DLQManager {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	if baseDelay <= 0 {
		baseDelay = time.Minute
	}
	return &DLQManager{pool: pool, maxRetries: maxRetries, baseDelay: baseDelay, logger: logger}
}

// Run calls RunOnce every interval until ctx is cancelled.
func (m *DLQManager) Run(ctx context.Context, interval time.Duration, batchSize int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		processed, err := m.RunOnce(ctx, batchSize)
		if err != nil && !errors.Is(err, context.Canceled) {
			m.logger.Error().Err(err).Msg("dlq manager iteration failed")
		} else if processed > 0 {
			m.logger.Info().Int("count", processed).Msg("dlq entries handled")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce processes a batch of due DLQ entries and returns how many were handled.
func (m *DLQManager) RunOnce(ctx context.Context, batchSize int) (int, error) {
	const query = `SELECT dlq_id, user_id, event_id, event_type, topic, payload, reason, aggregate_type, aggregate_id, schema_subject, partition_key, retry_count
        FROM outbox_dlq
        WHERE quarantined_at IS NULL AND (next_retry_at IS NULL OR next_retry_at <= NOW())
        ORDER BY created_at
        LIMIT $1`

	rows, err := m.pool.Query(ctx, query, batchSize)
	if err != nil {
		return 0, err
	}
	var entries []dlqEntry
	for rows.Next() {
		entry, scanErr := scanDLQEntry(rows)
		if scanErr != nil {
			err = errors.Join(err, scanErr)
			continue
		}
		entries = append(entries, entry)
	}
	rows.Close()
	if rowsErr := rows.Err(); rowsErr != nil {
		err = errors.Join(err, rowsErr)
	}

	processed := 0
	for _, entry := range entries {
		if procErr := m.handleEntry(ctx, entry); procErr != nil {
			err = errors.Join(err, procErr)
			continue
		}
		processed++
		recordDLQProcessed(entry)
	}
	updateBacklogGauge(ctx, m.pool)
	return processed, err
}

// handleEntry applies retry or quarantine logic for a single DLQ entry.
func (m *DLQManager) handleEntry(ctx context.Context, entry dlqEntry) error {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if entry.RetryCount >= m.maxRetries {
		if _, err := tx.Exec(ctx, `UPDATE outbox_dlq SET quarantined_at = NOW(), quarantine_reason = $1 WHERE dlq_id = $2`, quarantineReason, entry.ID); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return err
		}
		recordDLQQuarantined(entry)
		m.logger.Warn().Int64("dlq_id", entry.ID).Str("event_type", entry.EventType).Msg("dlq entry quarantined")
		return nil
	}

	if insertErr := requeueOutbox(ctx, tx, entry); insertErr != nil {
		// The failed insert aborted tx; the retry bookkeeping needs a fresh one.
		_ = tx.Rollback(ctx)
		delay := m.backoffDelay(entry.RetryCount + 1)
		if _, err := m.pool.Exec(ctx,
			`UPDATE outbox_dlq
               SET retry_count = retry_count + 1,
                   last_attempt_at = NOW(),
                   next_retry_at = NOW() + $1::interval,
                   reason = $2
             WHERE dlq_id = $3`,
			delay, insertErr.Error(), entry.ID,
		); err != nil {
			return err
		}
		recordDLQRetry(entry)
		return nil
	}

	if _, err := tx.Exec(ctx, `DELETE FROM outbox_dlq WHERE dlq_id = $1`, entry.ID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	recordDLQRequeued(entry)
	return nil
}

// backoffDelay calculates exponential backoff capped at one hour.
func (m *DLQManager) backoffDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 31 {
		return time.Hour
	}
	delay := time.Duration(1<<uint(attempt-1)) * m.baseDelay
	if delay > time.Hour || delay <= 0 {
		delay = time.Hour
	}
	return delay
}

// requeueOutbox reinserts the payload into the primary outbox table for replay.
func requeueOutbox(ctx context.Context, tx pgx.Tx, entry dlqEntry) error {
	if entry.SchemaSubject == "" {
		return fmt.Errorf("missing schema_subject for dlq entry %d", entry.ID)
	}

	const stmt = `INSERT INTO outbox (user_id, aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err := tx.Exec(ctx, stmt,
		entry.UserID,
		entry.AggregateType,
		entry.AggregateID,
		entry.EventType,
		entry.Topic,
		entry.SchemaSubject,
		entry.PartitionKey,
		entry.Payload,
	)
	return err
}

// dlqEntry represents an outbox_dlq row selected for processing.
type dlqEntry struct {
	ID            int64
	UserID        string
	EventID       int64
	EventType     string
	Topic         string
	Payload       []byte
	Reason        string
	AggregateType string
	AggregateID   string
	SchemaSubject string
	PartitionKey  string
	RetryCount    int
}

func scanDLQEntry(rows pgx.Rows) (dlqEntry, error) {
	var entry dlqEntry
	if err := rows.Scan(&entry.ID, &entry.UserID, &entry.EventID, &entry.EventType, &entry.Topic, &entry.Payload, &entry.Reason, &entry.AggregateType, &entry.AggregateID, &entry.SchemaSubject, &entry.PartitionKey, &entry.RetryCount); err != nil {
		return dlqEntry{}, err
	}
	return entry, nil
}
