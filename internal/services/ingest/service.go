// Package ingest reconciles provider profiles into the asset graph.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/advisor/internal/common"
	"github.com/ternarybob/advisor/internal/interfaces"
	"github.com/ternarybob/advisor/internal/models"
	"github.com/ternarybob/advisor/internal/services/profiles"
	"github.com/ternarybob/advisor/internal/services/rating"
)

// Service runs fetch -> validate -> upsert and serves stored scores.
type Service struct {
	fetcher *profiles.Fetcher
	graph   interfaces.GraphStorage
	logger  arbor.ILogger
}

// NewService creates an ingest service. A nil fetcher limits the service to stored data and
// IngestRows; Ingest then returns ConfigurationMissing.
func NewService(fetcher *profiles.Fetcher, graph interfaces.GraphStorage, logger arbor.ILogger) *Service {
	return &Service{fetcher: fetcher, graph: graph, logger: logger}
}

// Ingest fetches profiles (and optionally fundamentals) for tickers and upserts them in one batch.
// Tickers that cannot be resolved are skipped; Received counts only the rows handed to the store.
func (s *Service) Ingest(ctx context.Context, tickers []string, includeMetrics bool) (*models.IngestReport, error) {
	if s.fetcher == nil {
		return nil, models.NewError(models.KindConfigurationMissing, "ingest", errors.New("market data provider not configured"))
	}

	rows, stats, err := s.fetcher.Fetch(ctx, tickers, profiles.Include{Metrics: includeMetrics})
	if err != nil {
		return nil, err
	}

	report, err := s.IngestRows(ctx, rows)
	if err != nil {
		return nil, err
	}

	if len(stats.Skipped) > 0 {
		s.logger.Warn().
			Str("run_id", report.RunID).
			Strs("skipped", stats.Skipped).
			Msg("Some tickers were not ingested")
	}
	return report, nil
}

// IngestRows validates rows and upserts the valid ones. Invalid rows are logged and dropped.
func (s *Service) IngestRows(ctx context.Context, rows []models.AssetRow) (*models.IngestReport, error) {
	valid := make([]models.AssetRow, 0, len(rows))
	for _, row := range rows {
		row.Ticker = common.NormalizeTicker(row.Ticker)
		if err := row.Validate(); err != nil {
			s.logger.Warn().Str("ticker", row.Ticker).Err(err).Msg("Dropping invalid asset row")
			continue
		}
		valid = append(valid, row)
	}

	report, err := s.graph.UpsertAssets(ctx, valid)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert %d assets: %w", len(valid), err)
	}
	return report, nil
}

// ScoreTicker scores the stored asset. Returns NotFound when the ticker was never ingested.
func (s *Service) ScoreTicker(ctx context.Context, ticker string) (*models.ScoreResult, error) {
	sym := common.NormalizeTicker(ticker)
	if sym == "" {
		return nil, models.Invalid("score_ticker", "ticker is required")
	}

	asset, err := s.graph.GetAsset(ctx, sym)
	if err != nil {
		return nil, err
	}

	result := rating.ScoreAsset(asset)
	s.logger.Debug().Str("ticker", sym).Int("score", result.Score).Msg("Scored asset")
	return &result, nil
}

// Counts returns the graph totals.
func (s *Service) Counts(ctx context.Context) (*models.GraphCounts, error) {
	return s.graph.Counts(ctx)
}

// GetAsset returns the stored asset for ticker.
func (s *Service) GetAsset(ctx context.Context, ticker string) (*models.Asset, error) {
	sym := common.NormalizeTicker(ticker)
	if sym == "" {
		return nil, models.Invalid("get_asset", "ticker is required")
	}
	return s.graph.GetAsset(ctx, sym)
}

// SectorMembers returns the assets currently linked to sector.
func (s *Service) SectorMembers(ctx context.Context, sector string) ([]*models.Asset, error) {
	if strings.TrimSpace(sector) == "" {
		return nil, models.Invalid("sector_members", "sector is required")
	}
	return s.graph.ListSectorMembers(ctx, sector)
}

// Tickers lists every stored ticker in order.
func (s *Service) Tickers(ctx context.Context) ([]string, error) {
	assets, err := s.graph.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.Ticker
	}
	return out, nil
}
