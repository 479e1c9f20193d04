package metrics

import (
	"context"
	"sync"

	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/advisor/internal/common"
	"github.com/ternarybob/advisor/internal/interfaces"
	"github.com/ternarybob/advisor/internal/models"
)

// Synonym lists the provider field names for one canonical key, highest priority first.
type Synonym struct {
	Key     string
	Fields  []string
	Percent bool // normalise a 0-100 value to a fraction
}

// Synonyms is the canonical key table, in canonical order.
var Synonyms = []Synonym{
	{Key: models.MetricPE, Fields: []string{"peInclExtraTTM", "peTTM", "peBasicExclExtraTTM"}},
	{Key: models.MetricPB, Fields: []string{"pbAnnual", "pbTTM"}},
	{Key: models.MetricPS, Fields: []string{"psTTM"}},
	{Key: models.MetricROE, Fields: []string{"roeTTM"}},
	{Key: models.MetricROA, Fields: []string{"roaTTM"}},
	{Key: models.MetricGrossMarginTTM, Fields: []string{"grossMarginTTM"}},
	{Key: models.MetricOperatingMarginTTM, Fields: []string{"operatingMarginTTM"}},
	{Key: models.MetricNetMarginTTM, Fields: []string{"netProfitMarginTTM", "netMarginTTM"}},
	{Key: models.MetricDebtToEquity, Fields: []string{"debtToEquity", "totalDebt/totalEquityAnnual", "totalDebt/totalEquityQuarterly"}},
	{Key: models.MetricCurrentRatio, Fields: []string{"currentRatio", "currentRatioAnnual", "currentRatioQuarterly"}},
	{Key: models.MetricQuickRatio, Fields: []string{"quickRatio", "quickRatioAnnual", "quickRatioQuarterly"}},
	{Key: models.MetricBeta, Fields: []string{"beta"}},
	{Key: models.MetricDividendYieldTTM, Fields: []string{"dividendYieldTTM", "currentDividendYieldTTM", "dividendYieldIndicatedAnnual"}, Percent: true},
	{Key: models.MetricRevenueGrowthTTM, Fields: []string{"revenueGrowthTTM", "revenueGrowthTTMYoy"}},
	{Key: models.MetricEPSGrowthTTM, Fields: []string{"epsGrowthTTM", "epsGrowthTTMYoy"}},
}

// Map resolves the canonical metrics from one raw provider metric mapping.
// The first synonym present in raw decides the value, even when it normalises to absent.
func Map(raw map[string]any) models.CanonicalMetrics {
	var m models.CanonicalMetrics
	for _, syn := range Synonyms {
		for _, field := range syn.Fields {
			v, present := raw[field]
			if !present {
				continue
			}
			var f float64
			var ok bool
			if syn.Percent {
				f, ok = NormalizePercent(v)
			} else {
				f, ok = Normalize(v)
			}
			if ok {
				m.Set(syn.Key, f)
			}
			break
		}
	}
	return m
}

// DefaultConcurrency bounds concurrent provider calls per batch.
const DefaultConcurrency = 5

// Mapper fetches and maps metrics for batches of tickers.
type Mapper struct {
	provider    interfaces.MarketDataProvider
	logger      arbor.ILogger
	concurrency int
}

// NewMapper creates a Mapper. concurrency <= 0 uses DefaultConcurrency.
func NewMapper(provider interfaces.MarketDataProvider, logger arbor.ILogger, concurrency int) *Mapper {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Mapper{provider: provider, logger: logger, concurrency: concurrency}
}

// MapBatch returns canonical metrics per canonical ticker.
// Tickers whose call fails or resolves no metrics are omitted. Never returns an error.
func (m *Mapper) MapBatch(ctx context.Context, tickers []string) map[string]models.CanonicalMetrics {
	symbols := common.NormalizeTickers(tickers)
	out := make(map[string]models.CanonicalMetrics, len(symbols))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for _, sym := range symbols {
		g.Go(func() error {
			res := m.provider.BasicFinancials(gctx, sym)
			switch res.Status {
			case models.StatusFailed:
				m.logger.Warn().Str("ticker", sym).Err(res.Err).Msg("Basic financials unavailable, skipping")
				return nil // non-fatal
			case models.StatusEmpty:
				m.logger.Debug().Str("ticker", sym).Msg("No basic financials")
				return nil
			}

			mapped := Map(res.Value)
			if mapped.Len() == 0 {
				return nil
			}

			mu.Lock()
			out[sym] = mapped
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	m.logger.Debug().Int("requested", len(symbols)).Int("resolved", len(out)).Msg("Metrics mapped")
	return out
}
