package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/advisor/internal/common"
	"github.com/ternarybob/advisor/internal/interfaces"
	"github.com/ternarybob/advisor/internal/models"
)

const (
	// DefaultMaxRetries bounds retries on serialization failures and deadlocks.
	DefaultMaxRetries = 5
	retryDelay        = 20 * time.Millisecond
)

// GraphStorage implements interfaces.GraphStorage on PostgreSQL.
type GraphStorage struct {
	pool       *pgxpool.Pool
	logger     arbor.ILogger
	maxRetries int
}

var _ interfaces.GraphStorage = (*GraphStorage)(nil)

// NewGraphStorage wraps an open pool. Closing the storage closes the pool.
func NewGraphStorage(pool *pgxpool.Pool, logger arbor.ILogger) *GraphStorage {
	return &GraphStorage{pool: pool, logger: logger, maxRetries: DefaultMaxRetries}
}

// EnsureConstraints creates the tables and their primary keys.
func (s *GraphStorage) EnsureConstraints(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	s.logger.Debug().Int("statements", len(schemaStatements)).Msg("Graph schema ensured")
	return nil
}

// UpsertAssets merges rows in a single transaction.
func (s *GraphStorage) UpsertAssets(ctx context.Context, rows []models.AssetRow) (*models.IngestReport, error) {
	merged := models.CoalesceRows(rows)
	runID := uuid.New().String()

	report := &models.IngestReport{
		RunID:          runID,
		Received:       len(merged),
		CreatedTickers: []string{},
		UpdatedTickers: []string{},
	}
	if len(merged) == 0 {
		return report, nil
	}

	// Lock rows in a stable order so overlapping batches cannot deadlock
	ordered := make([]models.AssetRow, len(merged))
	copy(ordered, merged)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Ticker < ordered[j].Ticker })

	var created map[string]bool
	for attempt := 0; ; attempt++ {
		var err error
		created, err = s.applyBatch(ctx, ordered, runID)
		if err == nil {
			break
		}
		if !isRetryable(err) || attempt >= s.maxRetries {
			return nil, fmt.Errorf("graph upsert failed: %w", err)
		}
		s.logger.Debug().Int("attempt", attempt+1).Str("run_id", runID).Err(err).Msg("Graph upsert aborted by database, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay * time.Duration(attempt+1)):
		}
	}

	for _, row := range merged {
		if created[row.Ticker] {
			report.CreatedTickers = append(report.CreatedTickers, row.Ticker)
		} else {
			report.UpdatedTickers = append(report.UpdatedTickers, row.Ticker)
		}
	}
	report.Created = len(report.CreatedTickers)
	report.Updated = len(report.UpdatedTickers)

	s.logger.Info().
		Str("run_id", runID).
		Int("received", report.Received).
		Int("created", report.Created).
		Int("updated", report.Updated).
		Msg("Graph upsert committed")

	return report, nil
}

func (s *GraphStorage) applyBatch(ctx context.Context, rows []models.AssetRow, runID string) (map[string]bool, error) {
	created := make(map[string]bool, len(rows))
	now := time.Now().UTC()

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, row := range rows {
			name := strings.TrimSpace(row.Name)
			if name == "" {
				name = row.Ticker
			}
			props := row.Props
			if props == nil {
				props = map[string]any{}
			}
			propsJSON, err := json.Marshal(props)
			if err != nil {
				return fmt.Errorf("failed to encode props for %s: %w", row.Ticker, err)
			}

			var inserted bool
			if err := tx.QueryRow(ctx, upsertAssetSQL, row.Ticker, name, string(propsJSON), runID, now).Scan(&inserted); err != nil {
				return fmt.Errorf("failed to write asset %s: %w", row.Ticker, err)
			}
			created[row.Ticker] = inserted

			key, display := common.NormalizeSector(row.Sector)
			if _, err := tx.Exec(ctx, upsertSectorSQL, key, display, now); err != nil {
				return fmt.Errorf("failed to merge sector %s: %w", display, err)
			}
			if _, err := tx.Exec(ctx, linkSectorSQL, row.Ticker, key, now); err != nil {
				return fmt.Errorf("failed to link %s to sector %s: %w", row.Ticker, display, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// isRetryable reports serialization failures and deadlocks.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// GetAsset returns a NotFound error when the ticker does not exist.
func (s *GraphStorage) GetAsset(ctx context.Context, ticker string) (*models.Asset, error) {
	sym := common.NormalizeTicker(ticker)
	if sym == "" {
		return nil, models.Invalid("get_asset", "ticker is required")
	}

	rows, err := s.pool.Query(ctx, selectAssetSQL+` WHERE a.ticker = $1`, sym)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset %s: %w", sym, err)
	}
	assets, err := scanAssets(rows)
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, models.NotFound("get_asset", sym)
	}
	return assets[0], nil
}

// ListAssets returns all assets ordered by ticker.
func (s *GraphStorage) ListAssets(ctx context.Context) ([]*models.Asset, error) {
	rows, err := s.pool.Query(ctx, selectAssetSQL+` ORDER BY a.ticker`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return scanAssets(rows)
}

// ListSectorMembers returns the assets currently related to a sector, ordered by ticker.
func (s *GraphStorage) ListSectorMembers(ctx context.Context, sector string) ([]*models.Asset, error) {
	key, _ := common.NormalizeSector(sector)

	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sectors WHERE key = $1)`, key).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to get sector %s: %w", key, err)
	}
	if !exists {
		return nil, models.NotFound("list_sector_members", key)
	}

	rows, err := s.pool.Query(ctx, selectAssetSQL+` WHERE m.sector_key = $1 ORDER BY a.ticker`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to find members of %s: %w", key, err)
	}
	return scanAssets(rows)
}

// Counts returns asset, sector and relation totals.
func (s *GraphStorage) Counts(ctx context.Context) (*models.GraphCounts, error) {
	var assets, sectors, relations int64
	if err := s.pool.QueryRow(ctx, countsSQL).Scan(&assets, &sectors, &relations); err != nil {
		return nil, fmt.Errorf("failed to count graph: %w", err)
	}
	return &models.GraphCounts{Assets: int(assets), Sectors: int(sectors), Relations: int(relations)}, nil
}

// Close closes the pool.
func (s *GraphStorage) Close() error {
	s.pool.Close()
	return nil
}

func scanAssets(rows pgx.Rows) ([]*models.Asset, error) {
	defer rows.Close()

	assets := []*models.Asset{}
	for rows.Next() {
		var (
			a         models.Asset
			propsJSON []byte
		)
		if err := rows.Scan(&a.Ticker, &a.Name, &propsJSON, &a.PropsSource, &a.CreatedAt, &a.UpdatedAt, &a.Sector); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		a.Props = map[string]any{}
		if len(propsJSON) > 0 {
			if err := json.Unmarshal(propsJSON, &a.Props); err != nil {
				return nil, fmt.Errorf("failed to decode props for %s: %w", a.Ticker, err)
			}
		}
		assets = append(assets, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read assets: %w", err)
	}
	return assets, nil
}
