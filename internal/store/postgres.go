package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS diagnosis_snapshots (
	slot       TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS diagnosis_snapshots_updated_at_idx
	ON diagnosis_snapshots (updated_at);`

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema creates the snapshot table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, slot string) ([]byte, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM diagnosis_snapshots WHERE slot = $1`, slot,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *PostgresStore) Save(ctx context.Context, slot string, payload []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO diagnosis_snapshots (slot, payload, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (slot) DO UPDATE
			SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		slot, string(payload),
	)
	return err
}

func (s *PostgresStore) Clear(ctx context.Context, slot string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM diagnosis_snapshots WHERE slot = $1`, slot)
	return err
}

func (s *PostgresStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM diagnosis_snapshots WHERE updated_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) Stats(ctx context.Context) (*SnapshotStats, error) {
	stats := &SnapshotStats{}
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*), MIN(updated_at), MAX(updated_at)
		FROM diagnosis_snapshots`,
	).Scan(&stats.Total, &stats.Oldest, &stats.Newest)
	return stats, err
}
