package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

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

func profile(name, industry string) models.Result[models.CompanyProfile] {
	return models.OK(models.CompanyProfile{Ticker: "X", Name: name, FinnhubIndustry: industry, Country: "US"})
}

func TestFetch_DedupesAndKeepsOrder(t *testing.T) {
	provider := new(mockProvider)
	provider.On("CompanyProfile", mock.Anything, "MSFT").Return(profile("Microsoft Corp", "Technology"))
	provider.On("CompanyProfile", mock.Anything, "AAPL").Return(profile("Apple Inc", "Technology"))

	f := NewFetcher(provider, arbor.NewLogger(), 4)
	rows, stats, err := f.Fetch(context.Background(), []string{"msft", " AAPL ", "aapl", "MSFT", ""}, Include{})

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "MSFT", rows[0].Ticker)
	assert.Equal(t, "AAPL", rows[1].Ticker)
	assert.Equal(t, 2, stats.Requested)
	provider.AssertNumberOfCalls(t, "CompanyProfile", 2)
}

func TestFetch_PartialFailure(t *testing.T) {
	provider := new(mockProvider)
	for _, sym := range []string{"AAPL", "MSFT", "JNJ", "XOM"} {
		provider.On("CompanyProfile", mock.Anything, sym).Return(profile(sym+" Inc", "Energy"))
	}
	provider.On("CompanyProfile", mock.Anything, "BAD").Return(models.Failed[models.CompanyProfile](errors.New("connection reset")))

	f := NewFetcher(provider, arbor.NewLogger(), 2)
	rows, stats, err := f.Fetch(context.Background(), []string{"AAPL", "BAD", "MSFT", "JNJ", "XOM"}, Include{})

	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, 4, stats.Resolved)
	assert.Equal(t, []string{"BAD"}, stats.Skipped)
	for _, row := range rows {
		assert.NotEqual(t, "BAD", row.Ticker)
	}
}

func TestFetch_EmptyProfileSkipped(t *testing.T) {
	provider := new(mockProvider)
	provider.On("CompanyProfile", mock.Anything, "NOPE").Return(models.Empty[models.CompanyProfile]())

	f := NewFetcher(provider, arbor.NewLogger(), 1)
	rows, stats, err := f.Fetch(context.Background(), []string{"nope"}, Include{})

	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, []string{"NOPE"}, stats.Skipped)
}

func TestFetch_Defaults(t *testing.T) {
	provider := new(mockProvider)
	provider.On("CompanyProfile", mock.Anything, "ABC").Return(models.OK(models.CompanyProfile{Ticker: "ABC", Exchange: "NYSE"}))

	f := NewFetcher(provider, arbor.NewLogger(), 1)
	rows, _, err := f.Fetch(context.Background(), []string{"abc"}, Include{})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ABC", rows[0].Name, "name defaults to ticker")
	assert.Equal(t, "Unknown", rows[0].Sector)
	assert.Equal(t, map[string]any{"exchange": "NYSE"}, rows[0].Props)
}

func TestFetch_MetricsEnrichment(t *testing.T) {
	provider := new(mockProvider)
	provider.On("CompanyProfile", mock.Anything, "AAPL").Return(profile("Apple Inc", "Technology"))
	provider.On("CompanyProfile", mock.Anything, "MSFT").Return(profile("Microsoft Corp", "Technology"))
	provider.On("BasicFinancials", mock.Anything, "AAPL").Return(models.OK(map[string]any{"peTTM": 29.0, "dividendYieldTTM": 0.5}))
	provider.On("BasicFinancials", mock.Anything, "MSFT").Return(models.Failed[map[string]any](errors.New("502")))

	f := NewFetcher(provider, arbor.NewLogger(), 2)
	rows, stats, err := f.Fetch(context.Background(), []string{"AAPL", "MSFT"}, ParseInclude([]string{"Metrics"}))

	require.NoError(t, err)
	require.Len(t, rows, 2, "metrics failure does not drop the profile row")
	assert.Equal(t, 29.0, rows[0].Props["pe"])
	assert.Equal(t, 0.5, rows[0].Props["dividendYieldTTM"])
	assert.NotContains(t, rows[1].Props, "pe")
	assert.Equal(t, 1, stats.Enriched)
}

func TestFetch_InvalidInput(t *testing.T) {
	f := NewFetcher(new(mockProvider), arbor.NewLogger(), 1)

	_, _, err := f.Fetch(context.Background(), []string{" ", ""}, Include{})
	assert.True(t, errors.Is(err, models.ErrInvalidInput))

	many := make([]string, MaxTickers+1)
	for i := range many {
		many[i] = string(rune('A'+i%26)) + string(rune('A'+i/26))
	}
	_, _, err = f.Fetch(context.Background(), many, Include{})
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestBuildRow_CleansEmptyProps(t *testing.T) {
	row := BuildRow("AAPL", models.CompanyProfile{
		Name:                 " Apple Inc ",
		FinnhubIndustry:      "Technology",
		Exchange:             "NASDAQ",
		Currency:             "",
		MarketCapitalization: 0,
		ShareOutstanding:     15441.9,
		WebURL:               "https://www.apple.com/",
	})

	assert.Equal(t, "Apple Inc", row.Name)
	assert.Equal(t, map[string]any{
		"exchange":          "NASDAQ",
		"sharesOutstanding": 15441.9,
		"weburl":            "https://www.apple.com/",
	}, row.Props)
}

func TestParseInclude(t *testing.T) {
	assert.True(t, ParseInclude([]string{"news", " METRICS "}).Metrics)
	assert.False(t, ParseInclude(nil).Metrics)
}
