package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/franciscaquadros/crypto-wallet/internal/cache/redis"
	"github.com/franciscaquadros/crypto-wallet/internal/config"
	"github.com/franciscaquadros/crypto-wallet/internal/domain"
	"github.com/franciscaquadros/crypto-wallet/internal/lockmgr"
	"github.com/franciscaquadros/crypto-wallet/internal/platform/coincap"
	"github.com/franciscaquadros/crypto-wallet/internal/service"
	"github.com/franciscaquadros/crypto-wallet/internal/store/postgres"
	"github.com/franciscaquadros/crypto-wallet/internal/symbol"
)

// Dependencies bundles every domain-level dependency the application needs
// to operate. It is constructed by Wire and torn down by the returned cleanup
// function.
type Dependencies struct {
	// Stores
	AssetStore   domain.AssetStore
	WalletStore  domain.WalletStore
	HoldingStore domain.HoldingStore

	// Cache (nil when Redis is not configured)
	QuoteCache domain.QuoteCache

	// Market data
	Provider domain.MarketDataProvider
	Resolver *symbol.Resolver

	// Concurrency guard shared by wallet reads and writes.
	Guard *lockmgr.Manager

	// Services
	Wallets *service.WalletService
	Assets  *service.AssetService
	Syncer  *service.PriceSyncer
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Postgres.DSN,
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		Database: cfg.Postgres.Database,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.PoolMaxConns,
		MinConns: cfg.Postgres.PoolMinConns,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)

	if cfg.Postgres.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
	}

	pool := pgClient.Pool()
	deps.AssetStore = postgres.NewAssetStore(pool)
	deps.WalletStore = postgres.NewWalletStore(pool)
	deps.HoldingStore = postgres.NewHoldingStore(pool)

	// --- Redis (optional; an empty addr disables the quote cache) ---
	if cfg.Redis.Addr != "" {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.QuoteCache = redis.NewQuoteCache(redisClient)
	}

	// --- CoinCap market data provider ---
	deps.Provider = coincap.NewClient(
		cfg.CoinCap.BaseURL,
		cfg.CoinCap.APIKey,
		cfg.CoinCap.RequestTimeout.Duration,
	)

	// --- Symbol resolver ---
	deps.Resolver = symbol.NewResolver(deps.Provider, logger)
	if err := deps.Resolver.Init(ctx); err != nil {
		// A failed catalog load leaves the mapping empty; resolution fails
		// for every symbol until a restart, but the server still comes up.
		logger.WarnContext(ctx, "symbol catalog load failed",
			slog.String("error", err.Error()),
		)
	}

	// --- Services ---
	deps.Guard = lockmgr.New()
	deps.Wallets = service.NewWalletService(
		deps.WalletStore,
		deps.HoldingStore,
		deps.AssetStore,
		deps.Provider,
		deps.Resolver,
		deps.Guard,
		logger,
	)
	deps.Assets = service.NewAssetService(
		deps.AssetStore,
		deps.WalletStore,
		deps.HoldingStore,
		deps.Provider,
		deps.Resolver,
		deps.Guard,
		logger,
	)
	deps.Syncer = service.NewPriceSyncer(
		deps.HoldingStore,
		deps.Resolver,
		deps.Provider,
		deps.Assets,
		deps.QuoteCache,
		service.PriceSyncerConfig{
			Interval:     cfg.Sync.Interval.Duration,
			Workers:      cfg.Sync.Workers,
			FetchTimeout: cfg.Sync.FetchTimeout.Duration,
			DrainGrace:   cfg.Sync.DrainGrace.Duration,
		},
		logger,
	)

	return deps, cleanup, nil
}
