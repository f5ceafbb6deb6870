package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/franciscaquadros/crypto-wallet/internal/domain"
)

// HoldingStore implements domain.HoldingStore using PostgreSQL.
type HoldingStore struct {
	pool *pgxpool.Pool
}

// NewHoldingStore creates a new HoldingStore backed by the given connection pool.
func NewHoldingStore(pool *pgxpool.Pool) *HoldingStore {
	return &HoldingStore{pool: pool}
}

// Get retrieves one holding by wallet and symbol.
func (s *HoldingStore) Get(ctx context.Context, walletID uuid.UUID, symbol string) (domain.Holding, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT wallet_id, symbol, quantity FROM holdings
		 WHERE wallet_id = $1 AND UPPER(symbol) = UPPER($2)`,
		walletID, symbol)

	var h domain.Holding
	if err := row.Scan(&h.WalletID, &h.Symbol, &h.Quantity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Holding{}, fmt.Errorf("%w: holding %s", domain.ErrAssetNotFound, symbol)
		}
		return domain.Holding{}, fmt.Errorf("postgres: get holding %s/%s: %w", walletID, symbol, err)
	}
	return h, nil
}

// Upsert inserts or replaces a holding row. Quantity merging is the service
// layer's responsibility; the store writes the row as given.
func (s *HoldingStore) Upsert(ctx context.Context, holding domain.Holding) error {
	const query = `
		INSERT INTO holdings (wallet_id, symbol, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (wallet_id, symbol) DO UPDATE SET
			quantity = EXCLUDED.quantity`

	if _, err := s.pool.Exec(ctx, query, holding.WalletID, holding.Symbol, holding.Quantity); err != nil {
		return fmt.Errorf("postgres: upsert holding %s/%s: %w", holding.WalletID, holding.Symbol, err)
	}
	return nil
}

// ListByWallet returns every holding of one wallet, ordered by symbol.
func (s *HoldingStore) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Holding, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT wallet_id, symbol, quantity FROM holdings WHERE wallet_id = $1 ORDER BY symbol`,
		walletID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list holdings %s: %w", walletID, err)
	}
	defer rows.Close()

	var holdings []domain.Holding
	for rows.Next() {
		var h domain.Holding
		if err := rows.Scan(&h.WalletID, &h.Symbol, &h.Quantity); err != nil {
			return nil, fmt.Errorf("postgres: scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list holdings rows: %w", err)
	}
	return holdings, nil
}

// DistinctSymbols returns every symbol currently held in any wallet.
func (s *HoldingStore) DistinctSymbols(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT symbol FROM holdings ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("postgres: distinct holding symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("postgres: scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: distinct holding symbols rows: %w", err)
	}
	return symbols, nil
}

// Compile-time interface check.
var _ domain.HoldingStore = (*HoldingStore)(nil)
