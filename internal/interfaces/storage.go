package interfaces

import (
	"context"

	"github.com/ternarybob/advisor/internal/models"
)

// GraphStorage persists Assets, Sectors and the Asset->Sector relation.
// Tickers and sector names are canonicalised before every read or write.
type GraphStorage interface {
	// EnsureConstraints creates the uniqueness guarantees on Asset.ticker and Sector.name.
	// Called once at startup. Idempotent.
	EnsureConstraints(ctx context.Context) error

	// UpsertAssets merges rows into the graph as one atomic unit.
	// Blank tickers are dropped. Store failures fail the whole batch.
	UpsertAssets(ctx context.Context, rows []models.AssetRow) (*models.IngestReport, error)

	// GetAsset returns models.ErrNotFound (kind) when the ticker is absent.
	GetAsset(ctx context.Context, ticker string) (*models.Asset, error)
	ListAssets(ctx context.Context) ([]*models.Asset, error)
	ListSectorMembers(ctx context.Context, sector string) ([]*models.Asset, error)
	Counts(ctx context.Context) (*models.GraphCounts, error)

	Close() error
}
