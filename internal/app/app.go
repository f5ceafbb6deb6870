// Package app provides the top-level application lifecycle management for the
// wallet service. It wires together all dependencies (stores, caches, the
// market data provider, and services) and runs the HTTP server alongside the
// background price syncer until the context is cancelled.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/franciscaquadros/crypto-wallet/internal/config"
	"github.com/franciscaquadros/crypto-wallet/internal/server"
	"github.com/franciscaquadros/crypto-wallet/internal/server/handler"
)

// shutdownTimeout bounds how long in-flight HTTP requests may run after the
// application receives a stop signal.
const shutdownTimeout = 15 * time.Second

// App is the root application object. It owns the configuration, logger, and a
// list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run is the main entry point. It wires all dependencies, starts the HTTP
// server and the price syncer, and blocks until the context is cancelled or
// one of them fails. On return the caller should invoke Close.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	handlers := server.Handlers{
		Health:  handler.NewHealthHandler(),
		Wallets: handler.NewWalletHandler(deps.Wallets, deps.Assets, a.logger),
	}
	if deps.QuoteCache != nil {
		handlers.Prices = handler.NewPriceHandler(deps.QuoteCache, a.logger)
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
	}, handlers, a.logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Start()
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		if err := deps.Syncer.Run(gctx); err != nil && !isCanceled(err) {
			return fmt.Errorf("app: price syncer: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !isCanceled(err) {
		return err
	}
	return nil
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// isCanceled reports whether err is a context cancellation, which counts as a
// clean shutdown rather than a failure.
func isCanceled(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}
