package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/franciscaquadros/crypto-wallet/internal/domain"
	"github.com/franciscaquadros/crypto-wallet/internal/lockmgr"
	"github.com/franciscaquadros/crypto-wallet/internal/symbol"
)

const (
	// historyInterval is the provider sampling granularity used when
	// reconstructing a price for one calendar day.
	historyInterval = "h12"

	// entryPriceScale is the fixed intermediate scale for the implied entry
	// price (cost basis divided by quantity) before it enters the
	// percentage-change division.
	entryPriceScale = 16

	// changeScale is the scale of the raw percentage-change ratio before the
	// multiplication by 100.
	changeScale = 4

	// moneyScale is the presentation scale for USD amounts.
	moneyScale = 2
)

var oneHundred = decimal.NewFromInt(100)

// WalletService owns wallet lifecycle and the two valuation paths: current
// valuation against stored prices, and historical evaluation against provider
// history.
type WalletService struct {
	wallets  domain.WalletStore
	holdings domain.HoldingStore
	assets   domain.AssetStore
	provider domain.MarketDataProvider
	resolver *symbol.Resolver
	guard    *lockmgr.Manager
	logger   *slog.Logger
}

// NewWalletService creates a WalletService with all required dependencies.
func NewWalletService(
	wallets domain.WalletStore,
	holdings domain.HoldingStore,
	assets domain.AssetStore,
	provider domain.MarketDataProvider,
	resolver *symbol.Resolver,
	guard *lockmgr.Manager,
	logger *slog.Logger,
) *WalletService {
	return &WalletService{
		wallets:  wallets,
		holdings: holdings,
		assets:   assets,
		provider: provider,
		resolver: resolver,
		guard:    guard,
		logger:   logger.With(slog.String("component", "wallet_service")),
	}
}

// CreateWallet creates a wallet for the given email. One wallet per customer;
// a second create for the same email fails with ErrWalletExists.
func (s *WalletService) CreateWallet(ctx context.Context, email string) (domain.Wallet, error) {
	if email == "" {
		return domain.Wallet{}, fmt.Errorf("%w: email must not be empty", domain.ErrInvalidInput)
	}

	wallet := domain.Wallet{ID: uuid.New(), Email: email}
	if err := s.wallets.Create(ctx, wallet); err != nil {
		return domain.Wallet{}, fmt.Errorf("wallet_service: create wallet: %w", err)
	}

	s.logger.InfoContext(ctx, "wallet created",
		slog.String("wallet_id", wallet.ID.String()),
		slog.String("email", email),
	)
	return wallet, nil
}

// GetWallet values every holding of the wallet at its stored current price.
// The whole traversal runs under one read-guard scope, so the returned
// snapshot is internally consistent even while the syncer is updating prices
// for other symbols.
func (s *WalletService) GetWallet(ctx context.Context, email string) (domain.WalletValuation, error) {
	release := s.guard.Read()
	defer release()

	wallet, err := s.wallets.GetByEmail(ctx, email)
	if err != nil {
		return domain.WalletValuation{}, fmt.Errorf("wallet_service: get wallet: %w", err)
	}

	holdings, err := s.holdings.ListByWallet(ctx, wallet.ID)
	if err != nil {
		return domain.WalletValuation{}, fmt.Errorf("wallet_service: get wallet: %w", err)
	}

	valuation := domain.WalletValuation{
		ID:     wallet.ID,
		Assets: make([]domain.HoldingValuation, 0, len(holdings)),
	}
	total := decimal.Zero
	for _, h := range holdings {
		asset, err := s.assets.GetBySymbol(ctx, h.Symbol)
		if err != nil {
			return domain.WalletValuation{}, fmt.Errorf("wallet_service: get wallet: %w", err)
		}

		value := asset.PriceUSD.Mul(h.Quantity)
		valuation.Assets = append(valuation.Assets, domain.HoldingValuation{
			Symbol:   h.Symbol,
			Quantity: h.Quantity,
			Price:    asset.PriceUSD.Round(moneyScale),
			Value:    value.Round(moneyScale),
		})
		total = total.Add(value)
	}

	valuation.Total = total.Round(moneyScale)
	return valuation, nil
}

// EvaluateWallet compares each entry's implied entry price (cost basis over
// quantity) with the provider price on the target calendar date and reports
// the revalued total plus the best and worst performers. A zero date means
// today (UTC). This path touches no shared price state and therefore takes no
// guard.
func (s *WalletService) EvaluateWallet(ctx context.Context, entries []domain.EvaluationEntry, date time.Time) (domain.WalletEvaluation, error) {
	if len(entries) == 0 {
		return domain.WalletEvaluation{}, fmt.Errorf("%w: no assets to evaluate", domain.ErrInvalidInput)
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}
	day := date.UTC().Truncate(24 * time.Hour)

	var eval domain.WalletEvaluation
	total := decimal.Zero
	first := true
	for _, entry := range entries {
		if entry.Quantity.IsZero() || entry.Quantity.IsNegative() {
			return domain.WalletEvaluation{}, fmt.Errorf("%w: quantity must be positive for %s", domain.ErrInvalidInput, entry.Symbol)
		}
		entryPrice := entry.Value.DivRound(entry.Quantity, entryPriceScale)

		currentPrice, err := s.priceOnDate(ctx, entry.Symbol, day)
		if err != nil {
			return domain.WalletEvaluation{}, err
		}

		change, err := percentageChange(entryPrice, currentPrice)
		if err != nil {
			return domain.WalletEvaluation{}, fmt.Errorf("wallet_service: evaluate %s: %w", entry.Symbol, err)
		}

		if first || change.GreaterThan(eval.BestPerformance) {
			eval.BestPerformance = change
			eval.BestAsset = entry.Symbol
		}
		if first || change.LessThan(eval.WorstPerformance) {
			eval.WorstPerformance = change
			eval.WorstAsset = entry.Symbol
		}
		first = false

		total = total.Add(entry.Quantity.Mul(currentPrice))
	}

	eval.Total = total.Round(moneyScale)
	return eval, nil
}

// priceOnDate reconstructs the price of one symbol on one calendar day: it
// fetches the provider history covering the full UTC day and picks the latest
// point dated that day.
func (s *WalletService) priceOnDate(ctx context.Context, sym string, day time.Time) (decimal.Decimal, error) {
	providerID, err := s.resolver.Resolve(sym)
	if err != nil {
		return decimal.Zero, fmt.Errorf("wallet_service: evaluate: %w", err)
	}

	startMs := day.UnixMilli()
	endMs := startMs + 24*time.Hour.Milliseconds() - 1

	points, err := s.provider.GetPriceHistory(ctx, providerID, historyInterval, startMs, endMs)
	if err != nil {
		return decimal.Zero, fmt.Errorf("wallet_service: history %s: %w", sym, err)
	}

	var (
		found  bool
		latest time.Time
		price  decimal.Decimal
	)
	for _, p := range points {
		if !sameUTCDate(p.Date, day) {
			continue
		}
		if !found || p.Date.After(latest) {
			found = true
			latest = p.Date
			price = p.PriceUSD
		}
	}
	if !found {
		return decimal.Zero, fmt.Errorf("%w: %s on %s", domain.ErrPriceNotFound, sym, day.Format(time.DateOnly))
	}
	return price, nil
}

// percentageChange returns ((current - entry) / entry) * 100 at 2 decimal
// places. A zero entry price cannot be compared against and is rejected.
func percentageChange(entryPrice, currentPrice decimal.Decimal) (decimal.Decimal, error) {
	if entryPrice.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: entry price is zero", domain.ErrInvalidInput)
	}
	return currentPrice.Sub(entryPrice).
		DivRound(entryPrice, changeScale).
		Mul(oneHundred).
		Round(moneyScale), nil
}

func sameUTCDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
