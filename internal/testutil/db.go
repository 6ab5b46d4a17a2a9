package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kjannette/tokenboard-backend/internal/db"
)

// SetupPool returns a pool backed by a throwaway Postgres container with the
// schema synced. Set TEST_DATABASE_URL to reuse an existing database instead.
func SetupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	_ = godotenv.Load("../../.env")
	ctx := context.Background()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
			tcpostgres.WithDatabase("tokenboard_test"),
			tcpostgres.WithUsername("test"),
			tcpostgres.WithPassword("test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		require.NoError(t, err, "start postgres container")
		t.Cleanup(func() {
			if err := container.Terminate(ctx); err != nil {
				t.Logf("terminate container: %v", err)
			}
		})

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err, "container connection string")
	}

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err, "connect")
	t.Cleanup(pool.Close)

	require.NoError(t, db.Sync(ctx, pool), "schema sync")
	return pool
}
