package metrics

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

func TestMap_FirstSynonymWins(t *testing.T) {
	raw := map[string]any{
		"peTTM":          30.0,
		"peInclExtraTTM": 25.0,
		"pbTTM":          4.0,
		"netMarginTTM":   11.0,
	}

	m := Map(raw)

	require.NotNil(t, m.PE)
	assert.Equal(t, 25.0, *m.PE, "peInclExtraTTM has priority over peTTM")
	require.NotNil(t, m.PB)
	assert.Equal(t, 4.0, *m.PB, "falls back to pbTTM when pbAnnual missing")
	require.NotNil(t, m.NetMarginTTM)
	assert.Equal(t, 11.0, *m.NetMarginTTM)
	assert.Equal(t, 3, m.Len())
}

func TestMap_PresenceDecidesBeforeNormalization(t *testing.T) {
	// peInclExtraTTM is present but unusable: the lower-priority peTTM must not be consulted.
	raw := map[string]any{
		"peInclExtraTTM": nil,
		"peTTM":          18.0,
		"pbAnnual":       "N/A",
		"pbTTM":          2.0,
	}

	m := Map(raw)

	assert.Nil(t, m.PE)
	assert.Nil(t, m.PB)
	assert.Equal(t, 0, m.Len())
}

func TestMap_DividendYieldNormalized(t *testing.T) {
	m := Map(map[string]any{"dividendYieldTTM": 2.5})
	require.NotNil(t, m.DividendYieldTTM)
	assert.InDelta(t, 0.025, *m.DividendYieldTTM, 1e-12)

	m = Map(map[string]any{"currentDividendYieldTTM": 0.6})
	require.NotNil(t, m.DividendYieldTTM)
	assert.InDelta(t, 0.6, *m.DividendYieldTTM, 1e-12)
}

func TestMap_AllCanonicalKeys(t *testing.T) {
	raw := map[string]any{
		"peBasicExclExtraTTM": 10.0,
		"pbAnnual":            1.0,
		"psTTM":               2.0,
		"roeTTM":              15.0,
		"roaTTM":              7.0,
		"grossMarginTTM":      55.0,
		"operatingMarginTTM":  21.0,
		"netProfitMarginTTM":  16.0,
		"debtToEquity":        0.4,
		"currentRatio":        1.5,
		"quickRatio":          1.1,
		"beta":                0.9,
		"dividendYieldTTM":    0.01,
		"revenueGrowthTTM":    8.0,
		"epsGrowthTTMYoy":     12.0,
	}

	m := Map(raw)

	assert.Equal(t, len(models.MetricKeys), m.Len())
	for _, key := range models.MetricKeys {
		_, ok := m.Get(key)
		assert.True(t, ok, key)
	}
}

func TestMap_IgnoresUnknownFields(t *testing.T) {
	m := Map(map[string]any{"52WeekHigh": 199.0, "marketCapitalization": 1e6})
	assert.Equal(t, 0, m.Len())
}

func TestMapBatch_OmitsFailuresAndEmpty(t *testing.T) {
	provider := new(mockProvider)
	provider.On("BasicFinancials", mock.Anything, "AAPL").Return(models.OK(map[string]any{"peTTM": 28.0}))
	provider.On("BasicFinancials", mock.Anything, "MSFT").Return(models.Failed[map[string]any](errors.New("timeout")))
	provider.On("BasicFinancials", mock.Anything, "JNJ").Return(models.Empty[map[string]any]())
	provider.On("BasicFinancials", mock.Anything, "XOM").Return(models.OK(map[string]any{"unrelated": 1.0}))

	mapper := NewMapper(provider, arbor.NewLogger(), 2)
	got := mapper.MapBatch(context.Background(), []string{"aapl", "MSFT", " jnj", "xom", "AAPL"})

	require.Len(t, got, 1)
	require.Contains(t, got, "AAPL")
	assert.Equal(t, 28.0, *got["AAPL"].PE)
	provider.AssertNumberOfCalls(t, "BasicFinancials", 4)
}
