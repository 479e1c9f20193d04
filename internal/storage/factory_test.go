package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/advisor/internal/common"
	"github.com/ternarybob/advisor/internal/models"
)

func TestNewGraphStorage_Badger(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Badger.Path = t.TempDir()

	graph, err := NewGraphStorage(context.Background(), arbor.NewLogger(), cfg)
	require.NoError(t, err)
	defer graph.Close()

	report, err := graph.UpsertAssets(context.Background(), []models.AssetRow{{Ticker: "ko", Sector: "Beverages"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"KO"}, report.CreatedTickers)
}

func TestNewGraphStorage_InMemory(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Badger.InMemory = true

	graph, err := NewGraphStorage(context.Background(), arbor.NewLogger(), cfg)
	require.NoError(t, err)
	defer graph.Close()

	counts, err := graph.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.GraphCounts{}, counts)
}

func TestNewGraphStorage_UnknownType(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Type = "neo4j"

	_, err := NewGraphStorage(context.Background(), arbor.NewLogger(), cfg)
	assert.Error(t, err)
}

func TestNewGraphStorage_PostgresWithoutURL(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Type = "postgres"

	_, err := NewGraphStorage(context.Background(), arbor.NewLogger(), cfg)
	assert.Error(t, err)
}
