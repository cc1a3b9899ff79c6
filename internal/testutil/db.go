// Package testutil connects integration tests to a real Postgres. Tests
// using it are skipped unless TEST_DATABASE_URL is set.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/webdiner/internal/repositories/postgres"
	"github.com/chrisdamba/webdiner/migrations"
)

const envDatabaseURL = "TEST_DATABASE_URL"

// NewTestPool returns a migrated, empty database. The pool is closed when
// the test ends.
func NewTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv(envDatabaseURL)
	if url == "" {
		t.Skipf("%s not set, skipping postgres integration test", envDatabaseURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, url, 4)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = migrations.Apply(ctx, pool)
	require.NoError(t, err)
	TruncateAll(t, pool)
	return pool
}

func TruncateAll(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`TRUNCATE TABLE orders, special_days, menu_items, vendors, users, departments CASCADE`)
	require.NoError(t, err)
}
