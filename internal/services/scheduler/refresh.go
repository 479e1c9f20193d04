// Package scheduler re-ingests the tracked universe on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/advisor/internal/common"
	"github.com/ternarybob/advisor/internal/models"
	"github.com/ternarybob/advisor/internal/services/profiles"
)

// Ingester is the part of the ingest service the refresh job drives.
type Ingester interface {
	Tickers(ctx context.Context) ([]string, error)
	Ingest(ctx context.Context, tickers []string, includeMetrics bool) (*models.IngestReport, error)
}

// RefreshResult summarises one refresh cycle.
type RefreshResult struct {
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
	Tickers   int       `json:"tickers"`
	Batches   int       `json:"batches"`
	Failed    int       `json:"failed_batches"`
	Created   int       `json:"created"`
	Updated   int       `json:"updated"`
	Skipped   bool      `json:"skipped,omitempty"` // previous cycle still running
}

// Service runs the refresh job.
type Service struct {
	ingester       Ingester
	logger         arbor.ILogger
	cron           *cron.Cron
	schedule       string
	includeMetrics bool
	batchSize      int

	mu           sync.Mutex // Protects isProcessing, running, lastResult and ctx
	isProcessing bool
	running      bool
	lastResult   *RefreshResult
	ctx          context.Context // cancelled by Stop
	cancel       context.CancelFunc
}

// NewService creates a refresh scheduler. The schedule is validated by Start.
func NewService(ingester Ingester, config *common.SchedulerConfig, logger arbor.ILogger) *Service {
	return &Service{
		ingester:       ingester,
		logger:         logger,
		cron:           cron.New(),
		schedule:       config.Schedule,
		includeMetrics: config.IncludeMetrics,
		batchSize:      profiles.MaxTickers,
		ctx:            context.Background(),
		cancel:         func() {},
	}
}

// Start registers the refresh job and starts the cron runner.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	if err := common.ValidateSchedule(s.schedule); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runScheduledTask); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("schedule", s.schedule).
		Bool("include_metrics", s.includeMetrics).
		Msg("Refresh scheduler started")
	return nil
}

// Stop cancels a cycle in progress, halts the cron runner and waits for the job to return.
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Refresh scheduler stopped")
	return nil
}

// IsRunning reports whether the cron runner is active.
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// LastResult returns the most recent completed cycle, or nil.
func (s *Service) LastResult() *RefreshResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

func (s *Service) runScheduledTask() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	done := make(chan struct{})
	common.SafeGo(s.logger, "refresh", func() {
		defer close(done)
		if _, err := s.RunNow(ctx); err != nil {
			if ctx.Err() != nil {
				s.logger.Info().Msg("Scheduled refresh cancelled")
				return
			}
			s.logger.Error().Err(err).Msg("Scheduled refresh failed")
		}
	})
	<-done
}

// RunNow re-ingests every stored ticker in batches. A cycle already in progress makes this a
// no-op with Skipped set. Batch failures are logged and counted, not returned.
func (s *Service) RunNow(ctx context.Context) (*RefreshResult, error) {
	result := &RefreshResult{StartedAt: time.Now().UTC()}

	s.mu.Lock()
	if s.isProcessing {
		s.mu.Unlock()
		s.logger.Debug().Msg("Refresh already in progress, skipping this cycle")
		result.Skipped = true
		return result, nil
	}
	s.isProcessing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isProcessing = false
		s.mu.Unlock()
	}()

	tickers, err := s.ingester.Tickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked tickers: %w", err)
	}
	result.Tickers = len(tickers)

	for _, batch := range chunk(tickers, s.batchSize) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		result.Batches++

		report, err := s.ingester.Ingest(ctx, batch, s.includeMetrics)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			result.Failed++
			s.logger.Warn().Strs("tickers", batch).Err(err).Msg("Refresh batch failed")
			continue // non-fatal
		}
		result.Created += report.Created
		result.Updated += report.Updated
	}

	result.Duration = time.Since(result.StartedAt).String()

	s.mu.Lock()
	s.lastResult = result
	s.mu.Unlock()

	s.logger.Info().
		Int("tickers", result.Tickers).
		Int("batches", result.Batches).
		Int("failed_batches", result.Failed).
		Int("updated", result.Updated).
		Str("duration", result.Duration).
		Msg("Refresh cycle completed")

	return result, nil
}

func chunk(items []string, size int) [][]string {
	if size <= 0 {
		size = len(items)
	}
	var out [][]string
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}
