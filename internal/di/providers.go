package di

import (
	"fmt"

	"SwingPull/internal/domain/repository"
	"SwingPull/internal/handler/api"
	"SwingPull/internal/scheduler"
	"SwingPull/internal/service/events"
	"SwingPull/internal/service/export"
	"SwingPull/internal/service/mailer"
	"SwingPull/internal/service/quoteapi"
	macrosvc "SwingPull/internal/services/macro"
	"SwingPull/internal/services/scoring"
	"SwingPull/internal/usecase"
	pkgcache "SwingPull/pkg/cache"
	"SwingPull/pkg/config"
	"SwingPull/pkg/logger"
	"SwingPull/pkg/metrics"
	"SwingPull/pkg/server"
)

// ProvideLogger builds the app logger with the in-memory collector that
// backs GET /api/logs.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	l.AddCollector(&logger.CollectionConfig{Capacity: 200})
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideQuoteCache picks the quote cache backend: layered (memory over
// Redis) when Redis is configured, plain memory otherwise.
func ProvideQuoteCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}

	redis, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
		pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(redis), nil
}

// ProvideQuoteProvider creates the upstream quote API client.
func ProvideQuoteProvider(cfg *config.Config, quoteCache pkgcache.Service) repository.QuoteProvider {
	return quoteapi.New(
		cfg.Provider.BaseURL,
		cfg.Provider.APIKey,
		cfg.Provider.Timeout,
		quoteapi.WithCache(quoteCache, cfg.Provider.QuoteTTL),
		quoteapi.WithRate(cfg.Provider.RatePerSec, cfg.Provider.Burst),
	)
}

// ProvideScoringEngine creates the swing score engine.
func ProvideScoringEngine() *scoring.Engine {
	return scoring.NewEngine()
}

// ProvideMacroService creates the macro context builder.
func ProvideMacroService(cfg *config.Config, provider repository.QuoteProvider, log *logger.Logger) *macrosvc.Service {
	return macrosvc.New(cfg, provider, log)
}

// ProvideSnapshotCache creates the published-snapshot holder.
func ProvideSnapshotCache() *usecase.SnapshotCache {
	return usecase.NewSnapshotCache()
}

// ProvideWSHub creates the websocket fan-out hub.
func ProvideWSHub(log *logger.Logger) *api.WSHub {
	return api.NewWSHub(log)
}

// ProvideSnapshotPublisher fans snapshots out to websocket sessions and,
// when enabled, the Kafka event bus.
func ProvideSnapshotPublisher(cfg *config.Config, hub *api.WSHub, log *logger.Logger) (repository.SnapshotPublisher, error) {
	if !cfg.Events.Enabled {
		return events.Multi(hub), nil
	}
	kp, err := events.NewKafka(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("kafka publisher: %w", err)
	}
	return events.Multi(kp, hub), nil
}

// ProvideRefresher creates the refresh coordinator.
func ProvideRefresher(
	cfg *config.Config,
	provider repository.QuoteProvider,
	engine *scoring.Engine,
	macroService *macrosvc.Service,
	snapCache *usecase.SnapshotCache,
	publisher repository.SnapshotPublisher,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.Refresher {
	return usecase.NewRefresher(cfg, provider, engine, macroService, snapCache, publisher, m, log)
}

// ProvideExporter creates the xlsx exporter.
func ProvideExporter(cfg *config.Config, log *logger.Logger) *export.XLSXExporter {
	return export.NewXLSX(cfg, log)
}

// ProvideMailer creates the SMTP mailer, or nil when email is disabled.
func ProvideMailer(cfg *config.Config, log *logger.Logger) repository.Mailer {
	if !cfg.Email.Enabled {
		return nil
	}
	return mailer.NewSMTP(cfg, log)
}

// ProvideDashboardJob creates the refresh-export-email unit of work.
func ProvideDashboardJob(
	refresher *usecase.Refresher,
	exporter *export.XLSXExporter,
	m repository.Mailer,
	rec repository.Metrics,
	log *logger.Logger,
) *usecase.DashboardJob {
	return usecase.NewDashboardJob(refresher, exporter, m, rec, log)
}

// ProvideDashboardHandler creates the HTTP handler.
func ProvideDashboardHandler(
	log *logger.Logger,
	job *usecase.DashboardJob,
	snapCache *usecase.SnapshotCache,
	hub *api.WSHub,
	exporter *export.XLSXExporter,
) *api.DashboardHandler {
	return api.NewDashboardHandler(log, job, snapCache, hub, exporter.LatestPath)
}

// ProvideScheduler creates the cron scheduler pinned to the market timezone.
func ProvideScheduler(cfg *config.Config, log *logger.Logger) *scheduler.Scheduler {
	return scheduler.New(cfg.Location(), log)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	job *usecase.DashboardJob,
	handler *api.DashboardHandler,
	sched *scheduler.Scheduler,
	publisher repository.SnapshotPublisher,
) *server.App {
	return server.New(cfg, log, job, handler, sched, publisher)
}
