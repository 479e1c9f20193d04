package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/advisor/internal/common"
	"github.com/ternarybob/advisor/internal/finnhub"
	"github.com/ternarybob/advisor/internal/handlers"
	"github.com/ternarybob/advisor/internal/interfaces"
	"github.com/ternarybob/advisor/internal/models"
	"github.com/ternarybob/advisor/internal/services/advice"
	"github.com/ternarybob/advisor/internal/services/ingest"
	"github.com/ternarybob/advisor/internal/services/llm"
	"github.com/ternarybob/advisor/internal/services/profiles"
	"github.com/ternarybob/advisor/internal/services/scheduler"
	"github.com/ternarybob/advisor/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config    *common.Config
	Logger    arbor.ILogger
	ctx       context.Context
	cancelCtx context.CancelFunc

	// Long-lived handles
	Graph    interfaces.GraphStorage
	Provider interfaces.MarketDataProvider
	Renderer interfaces.NarrativeRenderer // nil when narrative rendering is disabled

	// Services
	IngestService    *ingest.Service
	Aggregator       *advice.Aggregator
	SchedulerService *scheduler.Service // nil unless [scheduler] enabled

	// HTTP handlers
	IngestHandler *handlers.IngestHandler
	AdviceHandler *handlers.AdviceHandler
	GraphHandler  *handlers.GraphHandler
}

// New initializes the application with all dependencies.
// A missing Finnhub API key is a ConfigurationMissing error.
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	if strings.TrimSpace(cfg.Finnhub.APIKey) == "" {
		return nil, models.NewError(models.KindConfigurationMissing, "startup",
			errors.New("finnhub api key is required (set FINNHUB_API_KEY or [finnhub] api_key)"))
	}

	app, err := newApp(cfg, logger)
	if err != nil {
		return nil, err
	}

	app.Provider = finnhub.NewClient(cfg.Finnhub.APIKey,
		finnhub.WithBaseURL(cfg.Finnhub.BaseURL),
		finnhub.WithTimeout(common.Duration(cfg.Finnhub.Timeout, 20*time.Second)),
		finnhub.WithRateLimit(cfg.Finnhub.RateLimit, cfg.Finnhub.Burst),
		finnhub.WithLogger(logger),
	)

	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	if cfg.Scheduler.Enabled {
		app.SchedulerService = scheduler.NewService(app.IngestService, &cfg.Scheduler, logger)
	}

	logger.Info().
		Str("storage", cfg.Storage.Type).
		Bool("narrative_renderer", app.Renderer != nil).
		Bool("scheduler_enabled", cfg.Scheduler.Enabled).
		Msg("Application initialization complete")

	return app, nil
}

// NewOffline opens only the graph store. Ingest from the provider is unavailable;
// stored-data operations and IngestRows work.
func NewOffline(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app, err := newApp(cfg, logger)
	if err != nil {
		return nil, err
	}
	app.IngestService = ingest.NewService(nil, app.Graph, logger)
	app.GraphHandler = handlers.NewGraphHandler(app.IngestService, logger)
	return app, nil
}

func newApp(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, models.Invalid("startup", "%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config:    cfg,
		Logger:    logger,
		ctx:       ctx,
		cancelCtx: cancel,
	}

	graph, err := storage.NewGraphStorage(ctx, logger, cfg)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize graph storage: %w", err)
	}
	app.Graph = graph

	return app, nil
}

// initServices initializes services in dependency order: fetcher -> ingest -> renderer -> aggregator.
func (a *App) initServices() error {
	fetcher := profiles.NewFetcher(a.Provider, a.Logger, a.Config.Finnhub.Concurrency)
	a.IngestService = ingest.NewService(fetcher, a.Graph, a.Logger)

	renderer, err := llm.NewRenderer(a.ctx, a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create narrative renderer: %w", err)
	}
	a.Renderer = renderer

	a.Aggregator = advice.NewAggregator(a.Graph, a.Provider, a.Renderer, a.Logger,
		advice.WithNewsWindow(a.Config.Advice.NewsDays, a.Config.Advice.NewsLimit),
		advice.WithLLMTimeout(common.Duration(a.Config.Advice.LLMTimeout, advice.DefaultLLMTimeout)),
		advice.WithConcurrency(a.Config.Finnhub.Concurrency),
	)
	return nil
}

func (a *App) initHandlers() {
	a.IngestHandler = handlers.NewIngestHandler(a.IngestService, a.Logger)
	a.AdviceHandler = handlers.NewAdviceHandler(a.Aggregator, a.Logger)
	a.GraphHandler = handlers.NewGraphHandler(a.IngestService, a.Logger)
}

// StartBackground starts the refresh scheduler when enabled.
func (a *App) StartBackground() error {
	if a.SchedulerService == nil {
		return nil
	}
	return a.SchedulerService.Start()
}

// Close stops background work and releases the graph store.
func (a *App) Close() error {
	if a.cancelCtx != nil {
		a.cancelCtx()
	}

	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler service")
		}
	}

	if a.Graph != nil {
		if err := a.Graph.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close graph storage")
			return err
		}
		a.Logger.Info().Msg("Graph storage closed")
	}
	return nil
}
