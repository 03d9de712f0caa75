//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	require.NoError(t, err)
	require.NoError(t, s.EnsureSchema(ctx))

	t.Cleanup(func() {
		_, _ = s.pool.Exec(ctx, "TRUNCATE diagnosis_snapshots")
		s.Close()
	})

	return s
}

func TestPostgresSaveLoadClear(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	data, err := s.Load(ctx, "oshichecker_diagnosis_state:it")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, s.Save(ctx, "oshichecker_diagnosis_state:it", []byte(`{"currentQuestionIndex":1}`)))
	require.NoError(t, s.Save(ctx, "oshichecker_diagnosis_state:it", []byte(`{"currentQuestionIndex":2}`)))

	data, err = s.Load(ctx, "oshichecker_diagnosis_state:it")
	require.NoError(t, err)
	assert.JSONEq(t, `{"currentQuestionIndex":2}`, string(data))

	require.NoError(t, s.Clear(ctx, "oshichecker_diagnosis_state:it"))
	data, err = s.Load(ctx, "oshichecker_diagnosis_state:it")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestPostgresDeleteExpired(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "a", []byte(`{}`)))
	require.NoError(t, s.Save(ctx, "b", []byte(`{}`)))
	_, err := s.pool.Exec(ctx, `UPDATE diagnosis_snapshots SET updated_at = now() - interval '2 hours' WHERE slot = 'a'`)
	require.NoError(t, err)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)

	n, err := s.DeleteExpired(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
}
