// Package profiles fetches company profiles and builds normalised asset rows.
package profiles

import (
	"context"
	"strings"

	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/advisor/internal/common"
	"github.com/ternarybob/advisor/internal/interfaces"
	"github.com/ternarybob/advisor/internal/models"
	"github.com/ternarybob/advisor/internal/services/metrics"
)

// MaxTickers bounds one fetch batch.
const MaxTickers = 50

// Include selects optional enrichment.
type Include struct {
	Metrics bool
}

// ParseInclude reads include flags such as ["metrics"]. Unknown flags are ignored.
func ParseInclude(flags []string) Include {
	var inc Include
	for _, f := range flags {
		if strings.EqualFold(strings.TrimSpace(f), "metrics") {
			inc.Metrics = true
		}
	}
	return inc
}

// FetchStats reports how a batch went.
type FetchStats struct {
	Requested int      `json:"requested"`
	Resolved  int      `json:"resolved"`
	Skipped   []string `json:"skipped,omitempty"`
	Enriched  int      `json:"enriched"`
}

// Fetcher builds asset rows from provider profiles.
type Fetcher struct {
	provider    interfaces.MarketDataProvider
	mapper      *metrics.Mapper
	logger      arbor.ILogger
	concurrency int
}

// NewFetcher creates a Fetcher. concurrency <= 0 uses metrics.DefaultConcurrency.
func NewFetcher(provider interfaces.MarketDataProvider, logger arbor.ILogger, concurrency int) *Fetcher {
	if concurrency <= 0 {
		concurrency = metrics.DefaultConcurrency
	}
	return &Fetcher{
		provider:    provider,
		mapper:      metrics.NewMapper(provider, logger, concurrency),
		logger:      logger,
		concurrency: concurrency,
	}
}

// Fetch resolves profiles for tickers. Input is trimmed, upper-cased and de-duplicated (first-seen
// order). Tickers whose lookup fails or returns nothing are skipped; partial success is normal.
// Returns InvalidInput when the de-duplicated list is empty or longer than MaxTickers.
func (f *Fetcher) Fetch(ctx context.Context, tickers []string, include Include) ([]models.AssetRow, *FetchStats, error) {
	symbols := common.NormalizeTickers(tickers)
	if len(symbols) == 0 {
		return nil, nil, models.Invalid("fetch_profiles", "no tickers supplied")
	}
	if len(symbols) > MaxTickers {
		return nil, nil, models.Invalid("fetch_profiles", "at most %d tickers per batch, got %d", MaxTickers, len(symbols))
	}

	slots := make([]*models.AssetRow, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, sym := range symbols {
		g.Go(func() error {
			res := f.provider.CompanyProfile(gctx, sym)
			switch res.Status {
			case models.StatusFailed:
				f.logger.Warn().Str("ticker", sym).Err(res.Err).Msg("Profile lookup failed, skipping ticker")
				return nil // non-fatal
			case models.StatusEmpty:
				f.logger.Warn().Str("ticker", sym).Msg("No profile for ticker, skipping")
				return nil
			}
			row := BuildRow(sym, res.Value)
			slots[i] = &row
			return nil
		})
	}
	_ = g.Wait()

	stats := &FetchStats{Requested: len(symbols)}
	rows := make([]models.AssetRow, 0, len(symbols))
	for i, row := range slots {
		if row == nil {
			stats.Skipped = append(stats.Skipped, symbols[i])
			continue
		}
		rows = append(rows, *row)
	}
	stats.Resolved = len(rows)

	if include.Metrics && len(rows) > 0 {
		resolved := make([]string, len(rows))
		for i, row := range rows {
			resolved[i] = row.Ticker
		}
		batch := f.mapper.MapBatch(ctx, resolved)
		for i := range rows {
			m, ok := batch[rows[i].Ticker]
			if !ok {
				continue
			}
			for k, v := range m.ToProps() {
				rows[i].Props[k] = v
			}
			stats.Enriched++
		}
	}

	f.logger.Info().
		Int("requested", stats.Requested).
		Int("resolved", stats.Resolved).
		Int("enriched", stats.Enriched).
		Strs("skipped", stats.Skipped).
		Msg("Profiles fetched")

	return rows, stats, nil
}

// BuildRow converts a provider profile into an asset row.
// Name defaults to the ticker and sector to "Unknown"; empty extra props are dropped.
func BuildRow(ticker string, p models.CompanyProfile) models.AssetRow {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = ticker
	}
	sector := strings.TrimSpace(p.FinnhubIndustry)
	if sector == "" {
		sector = common.DefaultSector
	}

	props := map[string]any{}
	setString(props, "exchange", p.Exchange)
	setString(props, "country", p.Country)
	setString(props, "currency", p.Currency)
	setString(props, "ipo", p.IPO)
	setString(props, "weburl", p.WebURL)
	setString(props, "logo", p.Logo)
	setString(props, "phone", p.Phone)
	setFloat(props, "marketCap", p.MarketCapitalization)
	setFloat(props, "sharesOutstanding", p.ShareOutstanding)

	return models.AssetRow{Ticker: ticker, Name: name, Sector: sector, Props: props}
}

func setString(props map[string]any, key, v string) {
	if v = strings.TrimSpace(v); v != "" {
		props[key] = v
	}
}

func setFloat(props map[string]any, key string, v float64) {
	if n, ok := metrics.Normalize(v); ok && n != 0 {
		props[key] = n
	}
}
