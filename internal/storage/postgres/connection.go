// Package postgres is the optional graph store on PostgreSQL via pgx.
// Uniqueness of tickers and sector keys is enforced by primary keys, and each
// ingest batch runs in one transaction.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/advisor/internal/common"
)

// NewPool opens and pings a pgx connection pool.
func NewPool(ctx context.Context, logger arbor.ILogger, config *common.PostgresConfig) (*pgxpool.Pool, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("postgres url not set")
	}

	poolConfig, err := pgxpool.ParseConfig(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if config.MaxConns > 0 {
		poolConfig.MaxConns = config.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	logger.Debug().
		Str("host", poolConfig.ConnConfig.Host).
		Str("database", poolConfig.ConnConfig.Database).
		Int32("max_conns", poolConfig.MaxConns).
		Msg("Postgres pool initialized")

	return pool, nil
}
