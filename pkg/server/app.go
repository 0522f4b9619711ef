package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ConfluenceBoard/internal/domain/repository"
	"ConfluenceBoard/internal/handler/ws"
	"ConfluenceBoard/internal/usecase"
	"ConfluenceBoard/pkg/cache"
	"ConfluenceBoard/pkg/config"
	xhttp "ConfluenceBoard/pkg/http"
	applogger "ConfluenceBoard/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg       *config.Config
	logger    *applogger.Logger
	handler   xhttp.Handler
	hub       *ws.Hub
	refresher *usecase.Refresher
	publisher repository.Publisher
	cache     cache.Service

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	hub *ws.Hub,
	refresher *usecase.Refresher,
	publisher repository.Publisher,
	cacheSvc cache.Service,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		handler:   handler,
		hub:       hub,
		refresher: refresher,
		publisher: publisher,
		cache:     cacheSvc,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	go a.hub.Run()

	if err := a.refresher.Register(); err != nil {
		return err
	}
	a.refresher.Start()
	// warm the cache so the first request is served from it
	go a.refresher.RunNow()

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(a.logger),
	)
	a.hub.RegisterRoutes(a.httpServer.Echo())

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("serving",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Int("pairs", len(a.cfg.Pairs)),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	// stop accepting connections before tearing down the hub, so no
	// upgrade can land on a stopped hub
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	a.refresher.Stop()
	a.hub.Stop()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
