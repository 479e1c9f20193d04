package advice

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ternarybob/advisor/internal/common"
	"github.com/ternarybob/advisor/internal/models"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) CompanyProfile(ctx context.Context, symbol string) models.Result[models.CompanyProfile] {
	args := m.Called(ctx, symbol)
	return args.Get(0).(models.Result[models.CompanyProfile])
}

func (m *mockProvider) BasicFinancials(ctx context.Context, symbol string) models.Result[map[string]any] {
	args := m.Called(ctx, symbol)
	return args.Get(0).(models.Result[map[string]any])
}

func (m *mockProvider) RecommendationTrends(ctx context.Context, symbol string) models.Result[[]models.RecommendationTrend] {
	args := m.Called(ctx, symbol)
	return args.Get(0).(models.Result[[]models.RecommendationTrend])
}

func (m *mockProvider) CompanyNews(ctx context.Context, symbol string, from, to time.Time) models.Result[[]models.NewsItem] {
	args := m.Called(ctx, symbol, from, to)
	return args.Get(0).(models.Result[[]models.NewsItem])
}

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(ctx context.Context, system string, prompt string) (string, error) {
	args := m.Called(ctx, system, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockRenderer) Provider() string {
	return "mock"
}

// fakeGraph serves GetAsset from a map; failing tickers return failErr.
type fakeGraph struct {
	assets  map[string]*models.Asset
	failErr error
	failOn  string
}

func (g *fakeGraph) EnsureConstraints(ctx context.Context) error { return nil }

func (g *fakeGraph) UpsertAssets(ctx context.Context, rows []models.AssetRow) (*models.IngestReport, error) {
	return &models.IngestReport{}, nil
}

func (g *fakeGraph) GetAsset(ctx context.Context, ticker string) (*models.Asset, error) {
	sym := common.NormalizeTicker(ticker)
	if sym == g.failOn && g.failErr != nil {
		return nil, g.failErr
	}
	if a, ok := g.assets[sym]; ok {
		return a, nil
	}
	return nil, models.NotFound("get_asset", sym)
}

func (g *fakeGraph) ListAssets(ctx context.Context) ([]*models.Asset, error) { return nil, nil }

func (g *fakeGraph) ListSectorMembers(ctx context.Context, sector string) ([]*models.Asset, error) {
	return nil, nil
}

func (g *fakeGraph) Counts(ctx context.Context) (*models.GraphCounts, error) {
	return &models.GraphCounts{Assets: len(g.assets)}, nil
}

func (g *fakeGraph) Close() error { return nil }
