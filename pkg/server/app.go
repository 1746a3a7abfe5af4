package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/usecase"
	pkgch "StockPulse/pkg/clickhouse"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"
)

// App encapsulates the application lifecycle: the ops HTTP server, the
// optional background refresh loop and graceful shutdown of infrastructure
// clients.
type App struct {
	cfg       *config.Config
	l         *applogger.Logger
	predictor *usecase.Predictor
	opsServer *xhttp.Server

	health    map[string]xhttp.HealthFunc
	chClient  *pkgch.Client
	publisher domrepo.PredictionPublisher
}

// New creates an App instance.
func New(cfg *config.Config, l *applogger.Logger, predictor *usecase.Predictor) *App {
	return &App{
		cfg:       cfg,
		l:         l,
		predictor: predictor,
		health:    make(map[string]xhttp.HealthFunc),
	}
}

// AddHealthCheck registers a named readiness check.
func (a *App) AddHealthCheck(name string, fn xhttp.HealthFunc) { a.health[name] = fn }

// SetClickHouseClient hands the app a client to close on shutdown.
func (a *App) SetClickHouseClient(c *pkgch.Client) { a.chClient = c }

// SetPublisher hands the app a publisher to close on shutdown.
func (a *App) SetPublisher(p domrepo.PredictionPublisher) { a.publisher = p }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.opsServer = xhttp.NewServer(a.l, a.health,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.opsServer.Start(); err != nil {
		a.l.Error("ops server start error", applogger.Error(err))
		return err
	}
	a.l.Info("ops server started", applogger.Int("port", a.cfg.Server.Port))

	if a.cfg.Prediction.RefreshInterval > 0 && len(a.cfg.Prediction.Symbols) > 0 {
		go a.refreshLoop(ctx)
		a.l.Info("refresh loop started",
			applogger.Strings("symbols", a.cfg.Prediction.Symbols),
			applogger.Duration("interval", a.cfg.Prediction.RefreshInterval))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// refreshLoop keeps predictions for the configured watchlist warm so
// requests after an expiry rarely pay the recompute latency.
func (a *App) refreshLoop(ctx context.Context) {
	level := models.AccessLevel(a.cfg.Prediction.AccessLevel)

	a.refreshAll(ctx, level)

	ticker := time.NewTicker(a.cfg.Prediction.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.refreshAll(ctx, level)
		}
	}
}

func (a *App) refreshAll(ctx context.Context, level models.AccessLevel) {
	for _, symbol := range a.cfg.Prediction.Symbols {
		if ctx.Err() != nil {
			return
		}
		if _, err := a.predictor.GetOrGenerate(ctx, symbol, level); err != nil {
			a.l.Warn("refresh failed",
				applogger.String("symbol", symbol),
				applogger.Error(err))
		}
	}
}

// shutdown gracefully stops the server and closes infrastructure clients.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.opsServer != nil {
		if err := a.opsServer.Stop(shutdownCtx); err != nil {
			a.l.Error("ops server shutdown error", applogger.Error(err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.l.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
