package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CatalogAsset is one entry of the provider's full asset catalog.
type CatalogAsset struct {
	ID       string
	Symbol   string
	PriceUSD decimal.Decimal
}

// AssetDetail is the provider's current snapshot for a single asset.
type AssetDetail struct {
	ID        string
	Symbol    string
	PriceUSD  decimal.Decimal
	Timestamp time.Time
}

// PricePoint is one historical price sample. Date is in UTC.
type PricePoint struct {
	PriceUSD decimal.Decimal
	Date     time.Time
}

// MarketDataProvider is the external price source. Transport errors and
// non-success responses both surface as ErrProvider.
type MarketDataProvider interface {
	// ListAssets returns the full asset catalog. Used once at startup to
	// seed the symbol resolver.
	ListAssets(ctx context.Context) ([]CatalogAsset, error)

	// GetAssetDetail returns the current snapshot for one provider id.
	GetAssetDetail(ctx context.Context, providerID string) (AssetDetail, error)

	// GetPriceHistory returns samples at the given interval (e.g. "h12")
	// between the inclusive millisecond UTC epoch bounds.
	GetPriceHistory(ctx context.Context, providerID, interval string, startMs, endMs int64) ([]PricePoint, error)
}
