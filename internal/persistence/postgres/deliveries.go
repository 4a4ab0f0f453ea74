package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DeliveryLog remembers which completion certificates have been sent so that
// redelivered events do not email the same certificate twice.
type DeliveryLog struct {
	pool *pgxpool.Pool
}

// NewDeliveryLog constructs a DeliveryLog.
func NewDeliveryLog(pool *pgxpool.Pool) *DeliveryLog {
	return &DeliveryLog{pool: pool}
}

// Delivered reports whether key has already been recorded.
func (l *DeliveryLog) Delivered(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := l.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM certificate_deliveries WHERE event_key=$1)`, key).Scan(&exists)
	return exists, err
}

// Record marks key as delivered.
func (l *DeliveryLog) Record(ctx context.Context, key, email, goalTitle string) error {
	_, err := l.pool.Exec(ctx, `INSERT INTO certificate_deliveries (event_key, email, goal_title)
        VALUES ($1,$2,$3) ON CONFLICT (event_key) DO NOTHING`, key, email, goalTitle)
	return err
}
