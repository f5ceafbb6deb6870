package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/franciscaquadros/crypto-wallet/internal/domain"
	"github.com/franciscaquadros/crypto-wallet/internal/symbol"
)

// PriceSyncerConfig holds tuning parameters for the background price sync.
type PriceSyncerConfig struct {
	// Interval between refresh passes.
	Interval time.Duration
	// Workers bounds how many symbols are fetched concurrently.
	Workers int
	// FetchTimeout bounds each provider call.
	FetchTimeout time.Duration
	// DrainGrace is how long shutdown waits for in-flight tasks before
	// abandoning them.
	DrainGrace time.Duration
}

// PriceSyncer periodically refreshes the stored price of every symbol held in
// any wallet. Each symbol is fetched by an independent task on a bounded
// worker pool; a task failure is logged and never affects sibling tasks or
// the ticker loop.
type PriceSyncer struct {
	holdings domain.HoldingStore
	resolver *symbol.Resolver
	provider domain.MarketDataProvider
	assets   *AssetService
	quotes   domain.QuoteCache
	cfg      PriceSyncerConfig
	logger   *slog.Logger
}

// NewPriceSyncer creates a PriceSyncer. quotes may be nil when no cache is
// wired; the syncer then only persists through the asset service.
func NewPriceSyncer(
	holdings domain.HoldingStore,
	resolver *symbol.Resolver,
	provider domain.MarketDataProvider,
	assets *AssetService,
	quotes domain.QuoteCache,
	cfg PriceSyncerConfig,
	logger *slog.Logger,
) *PriceSyncer {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	if cfg.DrainGrace <= 0 {
		cfg.DrainGrace = 30 * time.Second
	}
	return &PriceSyncer{
		holdings: holdings,
		resolver: resolver,
		provider: provider,
		assets:   assets,
		quotes:   quotes,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "price_syncer")),
	}
}

// Run drives refresh passes at the configured interval until ctx is
// cancelled, starting with an immediate pass. On cancellation it stops
// ticking and waits up to the drain grace period for in-flight tasks; tasks
// still running after that are cancelled best-effort and abandoned.
func (s *PriceSyncer) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "price syncer starting",
		slog.Duration("interval", s.cfg.Interval),
		slog.Int("workers", s.cfg.Workers),
	)

	// Tasks outlive ctx during the drain window, hence the detached work
	// context with its own cancel.
	workCtx, cancelWork := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelWork()

	pool := new(errgroup.Group)
	pool.SetLimit(s.cfg.Workers)

	s.refresh(workCtx, pool)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.drain(pool, cancelWork)
			return ctx.Err()
		case <-ticker.C:
			s.refresh(workCtx, pool)
		}
	}
}

// refresh dispatches one fetch-and-update task per distinct held symbol.
// Dispatch blocks when all workers are busy, bounding concurrency. Tasks
// always return nil to the group: their errors are handled locally.
func (s *PriceSyncer) refresh(ctx context.Context, pool *errgroup.Group) {
	symbols, err := s.holdings.DistinctSymbols(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "price sync: list held symbols failed",
			slog.String("error", err.Error()),
		)
		return
	}

	for _, sym := range symbols {
		pool.Go(func() error {
			s.syncSymbol(ctx, sym)
			return nil
		})
	}
}

// syncSymbol refreshes one symbol: resolve, fetch the current snapshot, and
// persist the price under the write guard. Any failure is logged and ends
// only this task.
func (s *PriceSyncer) syncSymbol(ctx context.Context, sym string) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	providerID, err := s.resolver.Resolve(sym)
	if err != nil {
		s.logger.WarnContext(ctx, "price sync: resolve failed",
			slog.String("symbol", sym),
			slog.String("error", err.Error()),
		)
		return
	}

	detail, err := s.provider.GetAssetDetail(fetchCtx, providerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "price sync: fetch failed",
			slog.String("symbol", sym),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.assets.UpdateAssetPrice(ctx, sym, detail.PriceUSD); err != nil {
		s.logger.ErrorContext(ctx, "price sync: persist failed",
			slog.String("symbol", sym),
			slog.String("error", err.Error()),
		)
		return
	}

	if s.quotes != nil {
		if err := s.quotes.SetQuote(ctx, sym, detail.PriceUSD, detail.Timestamp); err != nil {
			s.logger.WarnContext(ctx, "price sync: quote cache write failed",
				slog.String("symbol", sym),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "price updated",
		slog.String("symbol", sym),
		slog.String("price_usd", detail.PriceUSD.String()),
	)
}

// drain waits for in-flight tasks up to the grace period, then cancels the
// work context so stragglers abort on their next provider call.
func (s *PriceSyncer) drain(pool *errgroup.Group, cancelWork context.CancelFunc) {
	done := make(chan struct{})
	go func() {
		_ = pool.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("price syncer drained")
	case <-time.After(s.cfg.DrainGrace):
		cancelWork()
		s.logger.Warn("price syncer drain grace elapsed, abandoning in-flight tasks",
			slog.Duration("grace", s.cfg.DrainGrace),
		)
	}
}
