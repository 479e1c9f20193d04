package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/advisor/internal/common"
	"github.com/ternarybob/advisor/internal/interfaces"
)

// NewManager opens the Badger database and returns the graph storage backed by it.
// Closing the returned storage closes the database.
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.GraphStorage, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	graph := NewGraphStorage(db, logger)

	logger.Info().Str("path", config.Path).Msg("Badger graph storage initialized")

	return graph, nil
}
