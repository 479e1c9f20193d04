package models

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalesceRows(t *testing.T) {
	rows := []AssetRow{
		{Ticker: " aapl ", Name: "Apple", Sector: "Technology", Props: map[string]any{"pe": 20.0, "country": "US"}},
		{Ticker: "", Name: "blank"},
		{Ticker: "   ", Name: "whitespace"},
		{Ticker: "msft", Name: "Microsoft"},
		{Ticker: "AAPL", Name: "Apple Inc.", Sector: "Consumer Electronics", Props: map[string]any{"pe": 25.0}},
	}

	got := CoalesceRows(rows)
	require.Len(t, got, 2)

	assert.Equal(t, "AAPL", got[0].Ticker)
	assert.Equal(t, "Apple", got[0].Name, "first non-empty name kept")
	assert.Equal(t, "Consumer Electronics", got[0].Sector, "last sector wins")
	assert.Equal(t, 25.0, got[0].Props["pe"])
	assert.Equal(t, "US", got[0].Props["country"])

	assert.Equal(t, "MSFT", got[1].Ticker)
	assert.Empty(t, got[1].Sector)
}

func TestCoalesceRows_DoesNotAliasInputProps(t *testing.T) {
	props := map[string]any{"pe": 10.0}
	rows := []AssetRow{{Ticker: "a", Props: props}, {Ticker: "A", Props: map[string]any{"pe": 11.0}}}

	CoalesceRows(rows)

	assert.Equal(t, 10.0, props["pe"])
}

func TestCanonicalMetrics_GetSetLen(t *testing.T) {
	var m CanonicalMetrics
	assert.Equal(t, 0, m.Len())

	m.Set(MetricPE, 0)
	m.Set(MetricROE, 18)
	m.Set("unknown", 1)

	v, ok := m.Get(MetricPE)
	assert.True(t, ok, "zero is a known value")
	assert.Equal(t, 0.0, v)

	_, ok = m.Get(MetricPB)
	assert.False(t, ok)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, map[string]any{"pe": 0.0, "roe": 18.0}, m.ToProps())
}

func TestMetricsFromProps(t *testing.T) {
	props := map[string]any{
		"pe":           12.5,
		"roe":          int64(20),
		"beta":         "1.1",
		"debtToEquity": math.NaN(),
		"exchange":     "NASDAQ",
	}

	m := MetricsFromProps(props)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 12.5, *m.PE)
	assert.Equal(t, 20.0, *m.ROE)
	assert.Nil(t, m.Beta, "strings are not converted here")
	assert.Nil(t, m.DebtToEquity)
}

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("score: %w", NotFound("get_asset", "AAPL"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Contains(t, err.Error(), "AAPL")

	upstream := NewError(KindUpstreamUnavailable, "profile", errors.New("timeout"))
	assert.True(t, errors.Is(upstream, ErrUpstreamUnavailable))
	assert.Equal(t, "profile: upstream_unavailable: timeout", upstream.Error())

	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, "advise: invalid_input: risk must be 1..5", Invalid("advise", "risk must be %d..%d", 1, 5).Error())
}
