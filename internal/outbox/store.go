package outbox

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// claimTimeout is how long a claimed but unpublished row stays invisible to other
// dispatchers.
const claimTimeout = 5 * time.Minute

// PostgresStore reads and updates the outbox tables.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Claim locks up to limit unpublished rows and stamps them as claimed.
func (s *PostgresStore) Claim(ctx context.Context, limit int) (messages []Message, err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const query = `SELECT event_id, user_id, aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload
        FROM outbox
        WHERE published_at IS NULL AND (claimed_at IS NULL OR claimed_at < NOW() - $2::interval)
        ORDER BY event_id
        LIMIT $1
        FOR UPDATE SKIP LOCKED`

	rows, err := tx.Query(ctx, query, limit, claimTimeout)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, limit)
	for rows.Next() {
		var msg Message
		if err = rows.Scan(&msg.EventID, &msg.UserID, &msg.AggregateType, &msg.AggregateID, &msg.EventType, &msg.Topic, &msg.SchemaSubject, &msg.PartitionKey, &msg.Payload); err != nil {
			rows.Close()
			return nil, err
		}
		messages = append(messages, msg)
		ids = append(ids, msg.EventID)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		_ = tx.Rollback(ctx)
		return nil, nil
	}
	if _, err = tx.Exec(ctx, `UPDATE outbox SET claimed_at = NOW() WHERE event_id = ANY($1)`, ids); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkPublished stamps rows as published.
func (s *PostgresStore) MarkPublished(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `UPDATE outbox SET published_at = NOW() WHERE event_id = ANY($1)`, ids)
	return err
}

// WriteDLQ records a failed outbox message in the DLQ alongside the supplied reason.
func (s *PostgresStore) WriteDLQ(ctx context.Context, msg Message, reason string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO outbox_dlq (user_id, event_id, event_type, topic, payload, reason, aggregate_type, aggregate_id, schema_subject, partition_key, next_retry_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, NOW())`,
		msg.UserID, msg.EventID, msg.EventType, msg.Topic, msg.Payload, reason, msg.AggregateType, msg.AggregateID, msg.SchemaSubject, msg.PartitionKey,
	)
	return err
}
