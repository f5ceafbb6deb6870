package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/franciscaquadros/crypto-wallet/internal/domain"
)

// AssetStore implements domain.AssetStore using PostgreSQL.
type AssetStore struct {
	pool *pgxpool.Pool
}

// NewAssetStore creates a new AssetStore backed by the given connection pool.
func NewAssetStore(pool *pgxpool.Pool) *AssetStore {
	return &AssetStore{pool: pool}
}

// GetBySymbol retrieves an asset by symbol, matching case-insensitively.
func (s *AssetStore) GetBySymbol(ctx context.Context, symbol string) (domain.Asset, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT symbol, price_usd, updated_at FROM assets WHERE UPPER(symbol) = UPPER($1)`, symbol)

	var a domain.Asset
	if err := row.Scan(&a.Symbol, &a.PriceUSD, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Asset{}, fmt.Errorf("%w: %s", domain.ErrAssetNotFound, symbol)
		}
		return domain.Asset{}, fmt.Errorf("postgres: get asset %s: %w", symbol, err)
	}
	return a, nil
}

// Upsert inserts or updates an asset record.
func (s *AssetStore) Upsert(ctx context.Context, asset domain.Asset) error {
	const query = `
		INSERT INTO assets (symbol, price_usd, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (symbol) DO UPDATE SET
			price_usd  = EXCLUDED.price_usd,
			updated_at = NOW()`

	if _, err := s.pool.Exec(ctx, query, asset.Symbol, asset.PriceUSD); err != nil {
		return fmt.Errorf("postgres: upsert asset %s: %w", asset.Symbol, err)
	}
	return nil
}

// UpdatePrice sets the price of an existing asset.
func (s *AssetStore) UpdatePrice(ctx context.Context, symbol string, price decimal.Decimal) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE assets SET price_usd = $2, updated_at = NOW() WHERE UPPER(symbol) = UPPER($1)`,
		symbol, price)
	if err != nil {
		return fmt.Errorf("postgres: update asset price %s: %w", symbol, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAssetNotFound, symbol)
	}
	return nil
}

// Compile-time interface check.
var _ domain.AssetStore = (*AssetStore)(nil)
