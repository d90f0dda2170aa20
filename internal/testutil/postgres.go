// Package testutil starts throwaway infrastructure for integration tests.
package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abgdnv/catalog/migrations"
	"github.com/abgdnv/catalog/pkg/bootstrap"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SkipIntegrationTests names the env var that, set to "1", skips container based tests.
const SkipIntegrationTests = "CATALOG_SKIP_INTEGRATION_TESTS"

// Postgres is a migrated PostgreSQL container with an open pool.
type Postgres struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	URL       string
}

// StartPostgres runs postgres:17.5-alpine, applies the catalog migrations and opens a pool.
func StartPostgres(ctx context.Context, logger *slog.Logger) (*Postgres, error) {
	container, err := postgres.Run(ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("catalog"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to run PostgreSQL container: %w", err)
	}
	pg := &Postgres{Container: container}

	pg.URL, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		pg.Terminate(ctx, logger)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	for i := range 10 {
		logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		pg.Pool, err = bootstrap.NewDbPool(ctx, pg.URL, 5*time.Second)
		if err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		pg.Terminate(ctx, logger)
		return nil, fmt.Errorf("failed to connect to PostgreSQL after retries: %w", err)
	}

	if err := bootstrap.Migrate(migrations.FS, ".", pg.URL, logger); err != nil {
		pg.Terminate(ctx, logger)
		return nil, err
	}
	return pg, nil
}

// Truncate empties the products table and restarts its identity.
func (p *Postgres) Truncate(ctx context.Context) error {
	_, err := p.Pool.Exec(ctx, "TRUNCATE TABLE products RESTART IDENTITY CASCADE")
	return err
}

func (p *Postgres) Terminate(ctx context.Context, logger *slog.Logger) {
	if p.Pool != nil {
		p.Pool.Close()
	}
	if p.Container != nil {
		if err := p.Container.Terminate(ctx); err != nil {
			logger.Warn("failed to terminate PostgreSQL container", "error", err)
		}
	}
}
