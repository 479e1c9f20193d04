// Package advice aggregates fundamentals, analyst consensus and news into an
// educational, non-binding advisory payload.
package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/advisor/internal/common"
	"github.com/ternarybob/advisor/internal/interfaces"
	"github.com/ternarybob/advisor/internal/models"
	"github.com/ternarybob/advisor/internal/services/rating"
)

// Request bounds
const (
	MaxTickers = 10
	MinRisk    = 1
	MaxRisk    = 5
)

// Defaults applied when no option overrides them
const (
	DefaultNewsDays    = 30
	DefaultNewsLimit   = 10
	DefaultLLMTimeout  = 25 * time.Second
	DefaultConcurrency = 5
)

// LLMNotConfigured prefixes the baseline rationale when no renderer is wired.
const LLMNotConfigured = "LLM not configured."

// Aggregator builds AggregatedAdvice. Each ticker is gathered independently;
// a failing signal is recorded on that ticker and never fails the request.
type Aggregator struct {
	graph       interfaces.GraphStorage
	provider    interfaces.MarketDataProvider
	renderer    interfaces.NarrativeRenderer
	logger      arbor.ILogger
	newsDays    int
	newsLimit   int
	llmTimeout  time.Duration
	concurrency int
	now         func() time.Time
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithNewsWindow sets the lookback days and article limit (both clamped)
func WithNewsWindow(days, limit int) Option {
	return func(a *Aggregator) {
		a.newsDays, a.newsLimit = ClampNewsWindow(days, limit)
	}
}

// WithLLMTimeout bounds each narrative render
func WithLLMTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.llmTimeout = d
		}
	}
}

// WithConcurrency sets how many tickers are gathered at once
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// NewAggregator creates an Aggregator. renderer may be nil.
func NewAggregator(graph interfaces.GraphStorage, provider interfaces.MarketDataProvider, renderer interfaces.NarrativeRenderer, logger arbor.ILogger, opts ...Option) *Aggregator {
	a := &Aggregator{
		graph:       graph,
		provider:    provider,
		renderer:    renderer,
		logger:      logger,
		newsDays:    DefaultNewsDays,
		newsLimit:   DefaultNewsLimit,
		llmTimeout:  DefaultLLMTimeout,
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ValidateRequest canonicalises tickers and checks the request bounds.
func ValidateRequest(tickers []string, risk int) ([]string, error) {
	symbols := common.NormalizeTickers(tickers)
	if len(symbols) == 0 {
		return nil, models.Invalid("advise", "at least one ticker is required")
	}
	if len(symbols) > MaxTickers {
		return nil, models.Invalid("advise", "at most %d tickers allowed, got %d", MaxTickers, len(symbols))
	}
	if risk < MinRisk || risk > MaxRisk {
		return nil, models.Invalid("advise", "risk must be between %d and %d, got %d", MinRisk, MaxRisk, risk)
	}
	return symbols, nil
}

// Advise gathers score, consensus and news per ticker and adds a rationale.
// Only invalid input returns an error.
func (a *Aggregator) Advise(ctx context.Context, tickers []string, risk int) (*models.AggregatedAdvice, error) {
	symbols, err := ValidateRequest(tickers, risk)
	if err != nil {
		return nil, err
	}

	start := a.now()
	results := make([]models.TickerAdvice, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, sym := range symbols {
		g.Go(func() error {
			results[i] = a.gather(gctx, sym)
			return nil // non-fatal
		})
	}
	_ = g.Wait()

	allocation := EqualWeight(symbols)
	rationale, source := a.rationale(ctx, risk, results, allocation)

	a.logger.Info().
		Strs("tickers", symbols).
		Int("risk", risk).
		Str("rationale_source", source).
		Dur("elapsed", a.now().Sub(start)).
		Msg("Advice aggregated")

	return &models.AggregatedAdvice{
		Notice:          models.Disclaimer,
		Risk:            risk,
		Tickers:         results,
		Allocation:      allocation,
		Rationale:       rationale,
		RationaleSource: source,
		GeneratedAt:     a.now().UTC(),
	}, nil
}

// gather collects the three signals for one ticker concurrently.
func (a *Aggregator) gather(ctx context.Context, symbol string) models.TickerAdvice {
	var (
		mu     sync.Mutex
		result = models.TickerAdvice{
			Consensus: models.Consensus{Stance: models.StanceMixed},
			News:      []models.NewsItem{},
		}
	)
	record := func(signal string, err error) {
		mu.Lock()
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", signal, err))
		mu.Unlock()
		a.logger.Warn().Str("ticker", symbol).Str("signal", signal).Err(err).Msg("Signal unavailable, continuing")
	}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		score, err := a.score(ctx, symbol)
		if err != nil {
			record("score", err)
		}
		mu.Lock()
		result.Score = score
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		res := a.provider.RecommendationTrends(ctx, symbol)
		if res.Status == models.StatusFailed {
			record("consensus", res.Err)
			return
		}
		c := BuildConsensus(res.Value)
		mu.Lock()
		result.Consensus = c
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		from, to := NewsRange(a.now(), a.newsDays)
		res := a.provider.CompanyNews(ctx, symbol, from, to)
		if res.Status == models.StatusFailed {
			record("news", res.Err)
			return
		}
		news := PrepareNews(res.Value, a.newsLimit)
		mu.Lock()
		result.News = news
		mu.Unlock()
	}()

	wg.Wait()
	return result
}

// score reads the persisted asset. A missing asset yields the neutral score without error.
func (a *Aggregator) score(ctx context.Context, symbol string) (models.ScoreResult, error) {
	asset, err := a.graph.GetAsset(ctx, symbol)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return rating.Neutral(symbol), nil
		}
		return rating.Neutral(symbol), err
	}
	return rating.ScoreAsset(asset), nil
}

// rationale asks the renderer for a narrative and falls back to the baseline on any problem.
func (a *Aggregator) rationale(ctx context.Context, risk int, tickers []models.TickerAdvice, allocation []models.Allocation) (string, string) {
	baseline := BaselineRationale(risk, tickers)
	if a.renderer == nil {
		return LLMNotConfigured + " " + baseline, models.RationaleBaseline
	}

	rctx, cancel := context.WithTimeout(ctx, a.llmTimeout)
	defer cancel()

	text, err := a.renderer.Render(rctx, SystemPrompt, BuildPrompt(risk, tickers, allocation))
	if err != nil {
		a.logger.Warn().Str("provider", a.renderer.Provider()).Err(err).Msg("Narrative render failed, using baseline rationale")
		return baseline, models.RationaleBaseline
	}
	text = strings.TrimSpace(text)
	if text == "" {
		a.logger.Warn().Str("provider", a.renderer.Provider()).Msg("Narrative render returned no text, using baseline rationale")
		return baseline, models.RationaleBaseline
	}
	return text, models.RationaleLLM
}
