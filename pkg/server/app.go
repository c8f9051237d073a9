package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	drepo "SwingPull/internal/domain/repository"
	"SwingPull/internal/handler/api"
	"SwingPull/internal/scheduler"
	"SwingPull/internal/usecase"
	"SwingPull/pkg/config"
	xhttp "SwingPull/pkg/http"
	applogger "SwingPull/pkg/logger"
)

// startup refresh gets a generous bound; it runs detached from Run
const initialRefreshTimeout = 2 * time.Minute

// Options select the run mode from CLI flags.
type Options struct {
	RunOnce bool // one cycle (with email unless disabled), then exit
	WebOnly bool // serve the dashboard without registering cron triggers
	NoEmail bool // scheduled cycles skip delivery
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	job        *usecase.DashboardJob
	handler    *api.DashboardHandler
	sched      *scheduler.Scheduler
	publisher  drepo.SnapshotPublisher
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	job *usecase.DashboardJob,
	handler *api.DashboardHandler,
	sched *scheduler.Scheduler,
	publisher drepo.SnapshotPublisher,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		job:       job,
		handler:   handler,
		sched:     sched,
		publisher: publisher,
	}
}

// Run starts the application and blocks until interrupted. In run-once mode
// it executes a single cycle and returns its error instead.
func (a *App) Run(opts Options) error {
	if opts.RunOnce {
		ctx, cancel := context.WithTimeout(context.Background(), initialRefreshTimeout)
		defer cancel()
		a.log.Info("running single cycle")
		return a.job.Run(ctx, !opts.NoEmail)
	}

	if !opts.WebOnly {
		job := scheduler.NewRefreshJob(a.job, a.cfg.Email.Enabled && !opts.NoEmail)
		for _, trigger := range a.cfg.Schedule.Triggers {
			if err := a.sched.AddJob(trigger, job); err != nil {
				return err
			}
		}
		a.sched.Start()
	}

	// Warm the dashboard in the background; an empty cache just means the
	// page waits for the first scheduled or manual cycle.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), initialRefreshTimeout)
		defer cancel()
		if err := a.job.Run(ctx, false); err != nil {
			a.log.Warn("initial refresh failed", applogger.Error(err))
		}
	}()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithRequestMetrics(a.log, time.Second),
	)
	if err := a.httpServer.Start(); err != nil {
		return err
	}
	a.log.Info("dashboard serving",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Strings("symbols", a.cfg.Watchlist.Symbols))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
