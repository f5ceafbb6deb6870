// Package service implements the application core: wallet lifecycle and
// valuation, asset registration, and the background price synchronization.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/franciscaquadros/crypto-wallet/internal/domain"
	"github.com/franciscaquadros/crypto-wallet/internal/lockmgr"
	"github.com/franciscaquadros/crypto-wallet/internal/symbol"
)

// AssetService owns every write path of asset price state. All mutations run
// under the write side of the shared price guard.
type AssetService struct {
	assets   domain.AssetStore
	wallets  domain.WalletStore
	holdings domain.HoldingStore
	provider domain.MarketDataProvider
	resolver *symbol.Resolver
	guard    *lockmgr.Manager
	logger   *slog.Logger
}

// NewAssetService creates an AssetService with all required dependencies.
func NewAssetService(
	assets domain.AssetStore,
	wallets domain.WalletStore,
	holdings domain.HoldingStore,
	provider domain.MarketDataProvider,
	resolver *symbol.Resolver,
	guard *lockmgr.Manager,
	logger *slog.Logger,
) *AssetService {
	return &AssetService{
		assets:   assets,
		wallets:  wallets,
		holdings: holdings,
		provider: provider,
		resolver: resolver,
		guard:    guard,
		logger:   logger.With(slog.String("component", "asset_service")),
	}
}

// AddAsset registers quantity of an asset in the wallet identified by email.
// The current price is fetched from the provider and persisted; adding a
// symbol the wallet already holds adds to the existing quantity.
func (s *AssetService) AddAsset(ctx context.Context, email, sym string, quantity decimal.Decimal) error {
	if quantity.Sign() <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	release := s.guard.Write()
	defer release()

	wallet, err := s.wallets.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("asset_service: add asset: %w", err)
	}

	providerID, err := s.resolver.Resolve(sym)
	if err != nil {
		return fmt.Errorf("asset_service: add asset: %w", err)
	}

	detail, err := s.provider.GetAssetDetail(ctx, providerID)
	if err != nil {
		return fmt.Errorf("asset_service: add asset %s: %w", sym, err)
	}

	upper := strings.ToUpper(sym)
	if err := s.assets.Upsert(ctx, domain.Asset{Symbol: upper, PriceUSD: detail.PriceUSD}); err != nil {
		return fmt.Errorf("asset_service: add asset %s: %w", upper, err)
	}

	holding := domain.Holding{WalletID: wallet.ID, Symbol: upper, Quantity: quantity}
	existing, err := s.holdings.Get(ctx, wallet.ID, upper)
	switch {
	case err == nil:
		holding.Quantity = existing.Quantity.Add(quantity)
	case !errors.Is(err, domain.ErrAssetNotFound):
		// Only a confirmed miss may fall through to a fresh holding; a
		// failed read must not overwrite the stored quantity.
		return fmt.Errorf("asset_service: add asset %s: %w", upper, err)
	}
	if err := s.holdings.Upsert(ctx, holding); err != nil {
		return fmt.Errorf("asset_service: add asset %s: %w", upper, err)
	}

	s.logger.InfoContext(ctx, "asset added to wallet",
		slog.String("email", email),
		slog.String("symbol", upper),
		slog.String("quantity", holding.Quantity.String()),
	)
	return nil
}

// UpdateAssetPrice persists a fresh price for an existing asset under the
// write side of the price guard. Used by the price syncer.
func (s *AssetService) UpdateAssetPrice(ctx context.Context, sym string, price decimal.Decimal) error {
	release := s.guard.Write()
	defer release()

	if err := s.assets.UpdatePrice(ctx, sym, price); err != nil {
		return fmt.Errorf("asset_service: update price %s: %w", sym, err)
	}
	return nil
}
