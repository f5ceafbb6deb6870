// Package domain defines the core entities of the crypto wallet service and
// the interfaces its collaborators (stores, caches, market data provider)
// must satisfy.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Asset is a persisted crypto asset and its latest known USD price. Symbol is
// unique; PriceUSD is only read or written while holding the corresponding
// side of the price guard.
type Asset struct {
	Symbol    string          `json:"symbol"`
	PriceUSD  decimal.Decimal `json:"price_usd"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Wallet is a customer's wallet, identified by the customer's email address.
type Wallet struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Holding is the quantity of one asset held in one wallet. Quantity is the
// running sum of every addition for the (wallet, symbol) pair.
type Holding struct {
	WalletID uuid.UUID       `json:"wallet_id"`
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
}
