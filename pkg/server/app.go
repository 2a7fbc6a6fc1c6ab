package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	internalrepo "StockSight/internal/repository"
	"StockSight/internal/service/ratelimit"
	"StockSight/pkg/config"
	xhttp "StockSight/pkg/http"
	pkgkafka "StockSight/pkg/kafka"
	applogger "StockSight/pkg/logger"

	"github.com/robfig/cron/v3"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	httpServer *xhttp.Server
	snapshot   *internalrepo.SnapshotSeries // nil unless data.reload is startup
	journal    *internalrepo.MultiJournal
	producer   *pkgkafka.Producer // nil without kafka brokers
	limiter    *ratelimit.Limiter
	cron       *cron.Cron
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	snapshot *internalrepo.SnapshotSeries,
	journal *internalrepo.MultiJournal,
	producer *pkgkafka.Producer,
	limiter *ratelimit.Limiter,
) *App {
	return &App{
		cfg:        cfg,
		l:          l,
		httpServer: srv,
		snapshot:   snapshot,
		journal:    journal,
		producer:   producer,
		limiter:    limiter,
		cron:       cron.New(),
	}
}

// Run starts background jobs and the HTTP server, then blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.schedule(ctx); err != nil {
		return err
	}
	a.cron.Start()

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("stocksight started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("feature", a.cfg.Model.Feature),
		applogger.String("reload", a.cfg.Data.Reload),
		applogger.Strings("journal", a.journal.Backends()),
		applogger.Bool("metrics", a.cfg.Metrics.Enabled),
		applogger.Bool("scheduled_refresh", a.snapshot != nil && a.cfg.Data.RefreshCron != ""),
	)

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) schedule(ctx context.Context) error {
	if a.snapshot != nil && a.cfg.Data.RefreshCron != "" {
		_, err := a.cron.AddFunc(a.cfg.Data.RefreshCron, func() {
			rctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			a.snapshot.Refresh(rctx)
		})
		if err != nil {
			return fmt.Errorf("register series refresh: %w", err)
		}
		a.l.Info("series refresh scheduled", applogger.String("spec", a.cfg.Data.RefreshCron))
	}
	if a.limiter != nil {
		if _, err := a.cron.AddFunc("@every 5m", func() {
			if n := a.limiter.Sweep(); n > 0 {
				a.l.Debug("rate limiter swept", applogger.Int("keys", n))
			}
		}); err != nil {
			return fmt.Errorf("register limiter sweep: %w", err)
		}
	}
	return nil
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.l.Info("shutting down...")

	cronCtx := a.cron.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()
	if err := a.httpServer.Stop(ctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	select {
	case <-cronCtx.Done():
	case <-ctx.Done():
		a.l.Warn("scheduled jobs still running at shutdown")
	}

	if err := a.journal.Close(); err != nil {
		a.l.Warn("journal close error", applogger.Error(err))
	}

	// flush pending error digests before the producer goes away
	a.l.RemoveCollector()
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.l.Warn("kafka producer close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
