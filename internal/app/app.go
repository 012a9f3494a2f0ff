package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"RoboticsDaily/internal/api"
	"RoboticsDaily/internal/config"
	"RoboticsDaily/internal/domain"
	"RoboticsDaily/internal/infrastructure/cache"
	"RoboticsDaily/internal/infrastructure/httpfetch"
	"RoboticsDaily/internal/infrastructure/llm"
	"RoboticsDaily/internal/infrastructure/notify"
	"RoboticsDaily/internal/infrastructure/parser"
	"RoboticsDaily/internal/infrastructure/scheduler"
	"RoboticsDaily/internal/infrastructure/snapshot"
	"RoboticsDaily/internal/infrastructure/storage"
	"RoboticsDaily/internal/logging"
	"RoboticsDaily/internal/ports"
	"RoboticsDaily/internal/scanner"
	"RoboticsDaily/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger

	pool       *pgxpool.Pool
	repository *storage.PostgresRepository
	cache      *cache.RedisCache
	pipeline   *usecase.Pipeline
	reenricher *usecase.Reenricher
	exporter   *snapshot.Exporter
	notifier   *notify.Telegram
	sources    []domain.Source
}

// New connects to the store and builds every component. Close releases what it opened.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	registry := newRegistry(httpfetch.New(nil, ""))
	for _, src := range cfg.Sources {
		if _, err := registry.Resolve(src.Scanner); err != nil {
			return nil, fmt.Errorf("source %q: %w", src.Name, err)
		}
	}

	if cfg.Database.AutoMigrate {
		if err := Migrate(ctx, cfg, baseLogger); err != nil {
			return nil, err
		}
	}

	pool, err := storage.NewPool(ctx, storage.PoolConfig{DSN: cfg.Database.DSN, MaxConns: cfg.Database.MaxConns})
	if err != nil {
		return nil, err
	}
	repository := storage.NewPostgresRepository(pool)

	a := &Application{cfg: cfg, logger: baseLogger, pool: pool, repository: repository}

	source := parser.NewStrategySource(registry, cfg.Sources, cfg.Pipeline, baseLogger.With("component", "source"))

	var aiClient ports.AIClient
	if cfg.DeepSeek.APIKey != "" {
		client, err := llm.NewDeepSeekClient(cfg.DeepSeek, nil)
		if err != nil {
			a.Close()
			return nil, err
		}
		aiClient = client
	} else {
		baseLogger.Warn("DEEPSEEK_API_KEY not set, articles will be stored without summaries")
	}

	var enrichmentCache ports.EnrichmentCache
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err != nil {
			baseLogger.Warn("enrichment cache disabled", "error", err)
		} else {
			a.cache = rc
			enrichmentCache = rc
		}
	}

	enricher := usecase.NewEnricher(aiClient, enrichmentCache, usecase.EnricherConfig{
		CallDelay: cfg.DeepSeek.CallDelay,
	}, baseLogger.With("component", "enricher"))

	trending := usecase.NewTrendingExtractor(repository, cfg.Trending.WindowDays, cfg.Trending.Keywords,
		baseLogger.With("component", "trending"))

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Repository: repository,
		Normalizer: usecase.NewNormalizer(cfg.Pipeline.ExcerptLength),
		Enricher:   enricher,
		Trending:   trending,
		Logger:     baseLogger,
	})
	a.reenricher = usecase.NewReenricher(repository, enricher, baseLogger)

	a.sources = make([]domain.Source, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		a.sources = append(a.sources, domain.Source{Name: s.Name, URL: s.URL, Strategy: s.Scanner})
	}
	a.exporter = snapshot.NewExporter(repository, a.sources, cfg.Trending.Limit)
	a.notifier = notify.NewTelegram(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID)

	return a, nil
}

func newRegistry(fetcher *httpfetch.Fetcher) *scanner.Registry {
	registry := scanner.NewRegistry()
	registry.Register(parser.NewFeedScanner(fetcher))
	registry.Register(parser.NewNvidiaScanner(fetcher))
	registry.Register(parser.NewTechCrunchScanner(fetcher))
	registry.Register(parser.NewRobotReportScanner(fetcher))
	return registry
}

// Migrate applies the schema and seeds categories.
func Migrate(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if err := storage.Migrate(ctx, cfg.Database.DSN); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("database migrated")
	return nil
}

// Serve runs the HTTP API and the interval scheduler until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler)
	sched := usecase.NewScheduler(driver, a.pipeline, a.logger, a.exportSnapshot, a.publishDigest)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "interval", a.cfg.Scheduler.Interval, "run_on_start", a.cfg.Scheduler.RunOnStart)

	server := api.NewServer(a.cfg.Server, a.logger)
	api.NewHandler(a.repository, a.pipeline, a.sources, a.cfg.Server.AdminAPIKey).Register(server.Echo)
	serveErr := server.Run(ctx)

	stopCtx, cancel := context.WithTimeout(context.Background(), api.GracefulShutdownTimeout)
	defer cancel()
	return errors.Join(serveErr, sched.Stop(stopCtx))
}

func (a *Application) exportSnapshot(ctx context.Context, _ domain.RunSummary) {
	if a.cfg.Snapshot.Path == "" {
		return
	}
	if err := a.exporter.Export(ctx, a.cfg.Snapshot.Path); err != nil {
		a.logger.Error("snapshot export failed", "path", a.cfg.Snapshot.Path, "error", err)
	}
}

func (a *Application) publishDigest(ctx context.Context, summary domain.RunSummary) {
	if !a.notifier.Configured() {
		return
	}
	if err := a.notifier.PublishRun(ctx, summary); err != nil {
		a.logger.Warn("run digest not delivered", "run_id", summary.RunID, "error", err)
	}
}

// Scrape runs the pipeline once.
func (a *Application) Scrape(ctx context.Context, trigger domain.Trigger) (domain.RunSummary, error) {
	return a.pipeline.Run(ctx, trigger)
}

// Reenrich retries enrichment for up to limit stored articles without a summary.
func (a *Application) Reenrich(ctx context.Context, limit int) (usecase.ReenrichResult, error) {
	return a.reenricher.Run(ctx, limit)
}

// Snapshot writes data.json to path, or to the configured path when empty.
func (a *Application) Snapshot(ctx context.Context, path string) (string, error) {
	if path == "" {
		path = a.cfg.Snapshot.Path
	}
	if path == "" {
		return "", errors.New("snapshot path is not configured")
	}
	return path, a.exporter.Export(ctx, path)
}

// Prune deletes articles older than the given number of days.
func (a *Application) Prune(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, fmt.Errorf("days must be positive, got %d", days)
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	removed, err := a.repository.PruneOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	a.logger.Info("pruned articles", "removed", removed, "cutoff", cutoff)
	return removed, nil
}

// Close releases the pool and cache connections.
func (a *Application) Close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("close cache", "error", err)
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
