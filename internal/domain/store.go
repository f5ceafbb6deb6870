package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetStore persists asset price records. Symbol lookups are
// case-insensitive.
type AssetStore interface {
	GetBySymbol(ctx context.Context, symbol string) (Asset, error)
	Upsert(ctx context.Context, asset Asset) error
	// UpdatePrice sets the price of an existing asset. Returns
	// ErrAssetNotFound when no row matches the symbol.
	UpdatePrice(ctx context.Context, symbol string, price decimal.Decimal) error
}

// WalletStore persists wallets. Email lookups are case-insensitive.
type WalletStore interface {
	Create(ctx context.Context, wallet Wallet) error
	GetByEmail(ctx context.Context, email string) (Wallet, error)
}

// HoldingStore persists per-wallet asset holdings.
type HoldingStore interface {
	Get(ctx context.Context, walletID uuid.UUID, symbol string) (Holding, error)
	Upsert(ctx context.Context, holding Holding) error
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]Holding, error)
	// DistinctSymbols returns every symbol currently held in any wallet.
	DistinctSymbols(ctx context.Context) ([]string, error)
}

// QuoteCache holds the most recently synced price per symbol for cheap point
// reads outside the guarded store path.
type QuoteCache interface {
	SetQuote(ctx context.Context, symbol string, price decimal.Decimal, ts time.Time) error
	// GetQuote returns ErrPriceNotFound when no quote has been cached yet.
	GetQuote(ctx context.Context, symbol string) (decimal.Decimal, time.Time, error)
}
