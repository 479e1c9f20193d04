package badger

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/advisor/internal/common"
	"github.com/ternarybob/advisor/internal/interfaces"
	"github.com/ternarybob/advisor/internal/models"
)

const (
	// DefaultMaxRetries bounds transaction retries on write conflicts.
	DefaultMaxRetries = 16
	retryBaseDelay    = 2 * time.Millisecond
	retryMaxDelay     = 200 * time.Millisecond
)

// GraphStorage implements interfaces.GraphStorage on badgerhold.
// Each UpsertAssets call is one badger transaction. Badger's optimistic concurrency reports
// overlapping concurrent writers as ErrConflict; the losing transaction is retried from scratch
// so "created" is decided against committed state only.
type GraphStorage struct {
	db         *BadgerDB
	logger     arbor.ILogger
	maxRetries int
	now        func() time.Time
}

var _ interfaces.GraphStorage = (*GraphStorage)(nil)

// NewGraphStorage creates a GraphStorage over an open BadgerDB.
func NewGraphStorage(db *BadgerDB, logger arbor.ILogger) *GraphStorage {
	return &GraphStorage{
		db:         db,
		logger:     logger,
		maxRetries: DefaultMaxRetries,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// EnsureConstraints is structural for badger: Asset and Sector records are keyed by their
// canonical identity, so a second record for the same ticker or sector cannot exist.
func (s *GraphStorage) EnsureConstraints(ctx context.Context) error {
	s.logger.Debug().Msg("Graph constraints enforced by record keys (asset ticker, sector name)")
	return nil
}

// UpsertAssets merges rows into the graph in a single transaction.
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

	var outcome map[string]bool
	for attempt := 0; ; attempt++ {
		var err error
		outcome, err = s.applyBatch(ctx, merged, runID)
		if err == nil {
			break
		}
		if !errors.Is(err, badgerdb.ErrConflict) || attempt >= s.maxRetries {
			return nil, fmt.Errorf("graph upsert failed: %w", err)
		}

		delay := retryDelay(attempt)
		s.logger.Debug().
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Str("run_id", runID).
			Msg("Graph upsert conflicted with a concurrent batch, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	for _, row := range merged {
		if outcome[row.Ticker] {
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

// retryDelay is exponential with full jitter so colliding writers spread out.
func retryDelay(attempt int) time.Duration {
	d := retryMaxDelay
	if attempt < 10 {
		d = min(retryBaseDelay<<attempt, retryMaxDelay)
	}
	return d/2 + rand.N(d/2+1)
}

// applyBatch runs one transaction attempt. Returns ticker -> created.
func (s *GraphStorage) applyBatch(ctx context.Context, rows []models.AssetRow, runID string) (map[string]bool, error) {
	store := s.db.Store()
	now := s.now()
	created := make(map[string]bool, len(rows))

	err := store.Badger().Update(func(txn *badgerdb.Txn) error {
		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return err
			}

			isNew, err := s.upsertAsset(store, txn, row, runID, now)
			if err != nil {
				return err
			}
			created[row.Ticker] = isNew

			if err := s.linkSector(store, txn, row, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *GraphStorage) upsertAsset(store *badgerhold.Store, txn *badgerdb.Txn, row models.AssetRow, runID string, now time.Time) (bool, error) {
	name := strings.TrimSpace(row.Name)
	if name == "" {
		name = row.Ticker
	}

	var rec assetRecord
	err := store.TxGet(txn, row.Ticker, &rec)
	isNew := errors.Is(err, badgerhold.ErrNotFound)
	if err != nil && !isNew {
		return false, fmt.Errorf("failed to read asset %s: %w", row.Ticker, err)
	}

	if isNew {
		rec = assetRecord{Ticker: row.Ticker, Name: name, CreatedAt: now}
	} else if strings.TrimSpace(rec.Name) == "" {
		rec.Name = name
	}

	props, err := rec.props()
	if err != nil {
		return false, fmt.Errorf("failed to decode props for %s: %w", row.Ticker, err)
	}
	for k, v := range row.Props {
		props[k] = v
	}
	if err := rec.setProps(props); err != nil {
		return false, fmt.Errorf("failed to encode props for %s: %w", row.Ticker, err)
	}
	rec.PropsSource = runID
	rec.UpdatedAt = now

	if err := store.TxUpsert(txn, rec.Ticker, &rec); err != nil {
		return false, fmt.Errorf("failed to write asset %s: %w", row.Ticker, err)
	}
	return isNew, nil
}

// linkSector merges the sector node and points the asset's single relation at it,
// replacing any previous sector.
func (s *GraphStorage) linkSector(store *badgerhold.Store, txn *badgerdb.Txn, row models.AssetRow, now time.Time) error {
	key, display := common.NormalizeSector(row.Sector)

	var sec sectorRecord
	err := store.TxGet(txn, key, &sec)
	switch {
	case errors.Is(err, badgerhold.ErrNotFound):
		sec = sectorRecord{Key: key, Name: display, CreatedAt: now}
		if err := store.TxInsert(txn, key, &sec); err != nil {
			return fmt.Errorf("failed to create sector %s: %w", display, err)
		}
	case err != nil:
		return fmt.Errorf("failed to read sector %s: %w", display, err)
	}

	var mem membershipRecord
	err = store.TxGet(txn, row.Ticker, &mem)
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to read sector relation for %s: %w", row.Ticker, err)
	}
	if err == nil && mem.SectorKey == key {
		return nil
	}
	if err == nil {
		s.logger.Debug().
			Str("ticker", row.Ticker).
			Str("from", mem.SectorKey).
			Str("to", key).
			Msg("Replacing sector relation")
	}

	mem = membershipRecord{Ticker: row.Ticker, SectorKey: key, LinkedAt: now}
	if err := store.TxUpsert(txn, row.Ticker, &mem); err != nil {
		return fmt.Errorf("failed to link %s to sector %s: %w", row.Ticker, display, err)
	}
	return nil
}

// GetAsset returns a NotFound error when the ticker does not exist.
func (s *GraphStorage) GetAsset(ctx context.Context, ticker string) (*models.Asset, error) {
	sym := common.NormalizeTicker(ticker)
	if sym == "" {
		return nil, models.Invalid("get_asset", "ticker is required")
	}

	store := s.db.Store()
	var rec assetRecord
	if err := store.Get(sym, &rec); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, models.NotFound("get_asset", sym)
		}
		return nil, fmt.Errorf("failed to get asset %s: %w", sym, err)
	}

	sectorName, err := s.sectorOf(sym)
	if err != nil {
		return nil, err
	}
	return rec.toModel(sectorName)
}

// ListAssets returns all assets ordered by ticker.
func (s *GraphStorage) ListAssets(ctx context.Context) ([]*models.Asset, error) {
	store := s.db.Store()

	var recs []assetRecord
	if err := store.Find(&recs, nil); err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	names, err := s.sectorNames()
	if err != nil {
		return nil, err
	}
	var mems []membershipRecord
	if err := store.Find(&mems, nil); err != nil {
		return nil, fmt.Errorf("failed to list sector relations: %w", err)
	}
	sectorByTicker := make(map[string]string, len(mems))
	for _, m := range mems {
		sectorByTicker[m.Ticker] = names[m.SectorKey]
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].Ticker < recs[j].Ticker })

	assets := make([]*models.Asset, 0, len(recs))
	for i := range recs {
		a, err := recs[i].toModel(sectorByTicker[recs[i].Ticker])
		if err != nil {
			return nil, fmt.Errorf("failed to decode asset %s: %w", recs[i].Ticker, err)
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// ListSectorMembers returns the assets currently related to a sector, ordered by ticker.
func (s *GraphStorage) ListSectorMembers(ctx context.Context, sector string) ([]*models.Asset, error) {
	key, _ := common.NormalizeSector(sector)
	store := s.db.Store()

	var sec sectorRecord
	if err := store.Get(key, &sec); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, models.NotFound("list_sector_members", key)
		}
		return nil, fmt.Errorf("failed to get sector %s: %w", key, err)
	}

	var mems []membershipRecord
	if err := store.Find(&mems, badgerhold.Where("SectorKey").Eq(key)); err != nil {
		return nil, fmt.Errorf("failed to find members of %s: %w", key, err)
	}

	assets := make([]*models.Asset, 0, len(mems))
	for _, m := range mems {
		var rec assetRecord
		if err := store.Get(m.Ticker, &rec); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to get asset %s: %w", m.Ticker, err)
		}
		a, err := rec.toModel(sec.Name)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Ticker < assets[j].Ticker })
	return assets, nil
}

// Counts returns asset, sector and relation totals.
func (s *GraphStorage) Counts(ctx context.Context) (*models.GraphCounts, error) {
	store := s.db.Store()

	assets, err := store.Count(&assetRecord{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count assets: %w", err)
	}
	sectors, err := store.Count(&sectorRecord{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count sectors: %w", err)
	}
	relations, err := store.Count(&membershipRecord{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count relations: %w", err)
	}

	return &models.GraphCounts{Assets: int(assets), Sectors: int(sectors), Relations: int(relations)}, nil
}

// Close closes the underlying database.
func (s *GraphStorage) Close() error {
	return s.db.Close()
}

func (s *GraphStorage) sectorOf(ticker string) (string, error) {
	store := s.db.Store()

	var mem membershipRecord
	if err := store.Get(ticker, &mem); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get sector relation for %s: %w", ticker, err)
	}

	var sec sectorRecord
	if err := store.Get(mem.SectorKey, &sec); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get sector %s: %w", mem.SectorKey, err)
	}
	return sec.Name, nil
}

func (s *GraphStorage) sectorNames() (map[string]string, error) {
	var secs []sectorRecord
	if err := s.db.Store().Find(&secs, nil); err != nil {
		return nil, fmt.Errorf("failed to list sectors: %w", err)
	}
	names := make(map[string]string, len(secs))
	for _, sec := range secs {
		names[sec.Key] = sec.Name
	}
	return names, nil
}
