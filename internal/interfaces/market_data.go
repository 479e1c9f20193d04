package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/advisor/internal/models"
)

// MarketDataProvider is the read-only market-data source.
// Every call returns a typed result; implementations never panic on bad payloads.
type MarketDataProvider interface {
	CompanyProfile(ctx context.Context, symbol string) models.Result[models.CompanyProfile]

	// BasicFinancials returns the raw metric mapping for a symbol (provider field names).
	BasicFinancials(ctx context.Context, symbol string) models.Result[map[string]any]

	RecommendationTrends(ctx context.Context, symbol string) models.Result[[]models.RecommendationTrend]

	// CompanyNews returns articles published between from and to (inclusive dates).
	CompanyNews(ctx context.Context, symbol string, from, to time.Time) models.Result[[]models.NewsItem]
}
