package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldingValuation is one wallet position priced at the stored current price.
// Price and Value are presented at 2 decimal places.
type HoldingValuation struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Value    decimal.Decimal `json:"value"`
}

// WalletValuation is the current value of a whole wallet.
type WalletValuation struct {
	ID     uuid.UUID          `json:"id"`
	Total  decimal.Decimal    `json:"total"`
	Assets []HoldingValuation `json:"assets"`
}

// EvaluationEntry is one caller-supplied position to evaluate: a quantity and
// the total cost basis paid for it.
type EvaluationEntry struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
}

// WalletEvaluation compares historical prices against the cost basis of every
// entry: the revalued total plus the best and worst performing symbols with
// their percentage change.
type WalletEvaluation struct {
	Total            decimal.Decimal `json:"total"`
	BestAsset        string          `json:"best_asset"`
	BestPerformance  decimal.Decimal `json:"best_performance"`
	WorstAsset       string          `json:"worst_asset"`
	WorstPerformance decimal.Decimal `json:"worst_performance"`
}
