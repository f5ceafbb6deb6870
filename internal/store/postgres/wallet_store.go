package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/franciscaquadros/crypto-wallet/internal/domain"
)

// WalletStore implements domain.WalletStore using PostgreSQL.
type WalletStore struct {
	pool *pgxpool.Pool
}

// NewWalletStore creates a new WalletStore backed by the given connection pool.
func NewWalletStore(pool *pgxpool.Pool) *WalletStore {
	return &WalletStore{pool: pool}
}

// Create inserts a new wallet. A unique-violation on the email index surfaces
// as domain.ErrWalletExists.
func (s *WalletStore) Create(ctx context.Context, wallet domain.Wallet) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO wallets (id, email, created_at) VALUES ($1, $2, NOW())`,
		wallet.ID, wallet.Email)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s", domain.ErrWalletExists, wallet.Email)
		}
		return fmt.Errorf("postgres: create wallet %s: %w", wallet.Email, err)
	}
	return nil
}

// GetByEmail retrieves a wallet by the owner's email, matching
// case-insensitively.
func (s *WalletStore) GetByEmail(ctx context.Context, email string) (domain.Wallet, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, email, created_at FROM wallets WHERE LOWER(email) = LOWER($1)`, email)

	var w domain.Wallet
	if err := row.Scan(&w.ID, &w.Email, &w.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Wallet{}, fmt.Errorf("%w: %s", domain.ErrWalletNotFound, email)
		}
		return domain.Wallet{}, fmt.Errorf("postgres: get wallet %s: %w", email, err)
	}
	return w, nil
}

// Compile-time interface check.
var _ domain.WalletStore = (*WalletStore)(nil)
