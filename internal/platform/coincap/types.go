package coincap

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/franciscaquadros/crypto-wallet/internal/domain"
)

// --------------------------------------------------------------------------
// CoinCap REST API DTOs. Numeric fields come over the wire as strings.
// --------------------------------------------------------------------------

// APIAsset represents one asset as returned by /assets and /assets/{id}.
type APIAsset struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	PriceUSD string `json:"priceUsd"`
}

// APIAssetsResponse is the envelope of GET /assets.
type APIAssetsResponse struct {
	Data []APIAsset `json:"data"`
}

// APIAssetDetailResponse is the envelope of GET /assets/{id}.
type APIAssetDetailResponse struct {
	Data      APIAsset `json:"data"`
	Timestamp int64    `json:"timestamp"` // epoch milliseconds
}

// APIPricePoint is one sample of GET /assets/{id}/history.
type APIPricePoint struct {
	PriceUSD string `json:"priceUsd"`
	Time     int64  `json:"time"` // epoch milliseconds
}

// APIHistoryResponse is the envelope of GET /assets/{id}/history.
type APIHistoryResponse struct {
	Data []APIPricePoint `json:"data"`
}

// ToCatalogAsset converts an APIAsset to a domain.CatalogAsset.
func (a APIAsset) ToCatalogAsset() (domain.CatalogAsset, error) {
	price, err := decimal.NewFromString(a.PriceUSD)
	if err != nil {
		return domain.CatalogAsset{}, fmt.Errorf("parse priceUsd %q for %s: %w", a.PriceUSD, a.ID, err)
	}
	return domain.CatalogAsset{
		ID:       a.ID,
		Symbol:   a.Symbol,
		PriceUSD: price,
	}, nil
}

// ToAssetDetail converts a detail response to a domain.AssetDetail.
func (r APIAssetDetailResponse) ToAssetDetail() (domain.AssetDetail, error) {
	price, err := decimal.NewFromString(r.Data.PriceUSD)
	if err != nil {
		return domain.AssetDetail{}, fmt.Errorf("parse priceUsd %q for %s: %w", r.Data.PriceUSD, r.Data.ID, err)
	}
	return domain.AssetDetail{
		ID:        r.Data.ID,
		Symbol:    r.Data.Symbol,
		PriceUSD:  price,
		Timestamp: time.UnixMilli(r.Timestamp).UTC(),
	}, nil
}

// ToPricePoint converts a history sample to a domain.PricePoint.
func (p APIPricePoint) ToPricePoint() (domain.PricePoint, error) {
	price, err := decimal.NewFromString(p.PriceUSD)
	if err != nil {
		return domain.PricePoint{}, fmt.Errorf("parse priceUsd %q: %w", p.PriceUSD, err)
	}
	return domain.PricePoint{
		PriceUSD: price,
		Date:     time.UnixMilli(p.Time).UTC(),
	}, nil
}
