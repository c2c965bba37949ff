// Package dbtest starts a throwaway PostgreSQL container for tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Postgres starts a container, applies the schema and returns a pool.
// Everything is torn down with t.Cleanup. Skipped under -short.
func Postgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, _ := start(t)
	return pool
}

// ConnString is like Postgres but also returns the connection string.
func ConnString(t *testing.T) (*pgxpool.Pool, string) {
	t.Helper()

	return start(t)
}

func start(t *testing.T) (*pgxpool.Pool, string) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()
	pool, err := database.Open(ctx, connStr, config.DatabaseConfig{MaxConnections: 10, MinConnections: 1}, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return pool, connStr
}

// Truncate empties every table between subtests.
func Truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `TRUNCATE order_items, orders, products, documents`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}
