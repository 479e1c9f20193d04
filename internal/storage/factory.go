package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/advisor/internal/common"
	"github.com/ternarybob/advisor/internal/interfaces"
	"github.com/ternarybob/advisor/internal/storage/badger"
	"github.com/ternarybob/advisor/internal/storage/postgres"
)

// NewGraphStorage opens the graph store selected by [storage] type and ensures its constraints.
func NewGraphStorage(ctx context.Context, logger arbor.ILogger, config *common.Config) (interfaces.GraphStorage, error) {
	var (
		graph interfaces.GraphStorage
		err   error
	)

	switch strings.ToLower(config.Storage.Type) {
	case "", "badger":
		graph, err = badger.NewManager(logger, &config.Storage.Badger)
	case "postgres":
		pool, perr := postgres.NewPool(ctx, logger, &config.Storage.Postgres)
		if perr != nil {
			return nil, perr
		}
		graph = postgres.NewGraphStorage(pool, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s (expected 'badger' or 'postgres')", config.Storage.Type)
	}
	if err != nil {
		return nil, err
	}

	if err := graph.EnsureConstraints(ctx); err != nil {
		graph.Close()
		return nil, fmt.Errorf("failed to ensure graph constraints: %w", err)
	}
	return graph, nil
}
