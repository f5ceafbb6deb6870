package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/franciscaquadros/crypto-wallet/internal/domain"
	"github.com/franciscaquadros/crypto-wallet/internal/symbol"
)

// MockAssetStore is a mock implementation of AssetStore for testing
type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) GetBySymbol(ctx context.Context, symbol string) (domain.Asset, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(domain.Asset), args.Error(1)
}

func (m *MockAssetStore) Upsert(ctx context.Context, asset domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetStore) UpdatePrice(ctx context.Context, symbol string, price decimal.Decimal) error {
	args := m.Called(ctx, symbol, price)
	return args.Error(0)
}

// MockWalletStore is a mock implementation of WalletStore for testing
type MockWalletStore struct {
	mock.Mock
}

func (m *MockWalletStore) Create(ctx context.Context, wallet domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletStore) GetByEmail(ctx context.Context, email string) (domain.Wallet, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.Wallet), args.Error(1)
}

// MockHoldingStore is a mock implementation of HoldingStore for testing
type MockHoldingStore struct {
	mock.Mock
}

func (m *MockHoldingStore) Get(ctx context.Context, walletID uuid.UUID, symbol string) (domain.Holding, error) {
	args := m.Called(ctx, walletID, symbol)
	return args.Get(0).(domain.Holding), args.Error(1)
}

func (m *MockHoldingStore) Upsert(ctx context.Context, holding domain.Holding) error {
	args := m.Called(ctx, holding)
	return args.Error(0)
}

func (m *MockHoldingStore) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Holding, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Holding), args.Error(1)
}

func (m *MockHoldingStore) DistinctSymbols(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockProvider is a mock implementation of MarketDataProvider for testing
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) ListAssets(ctx context.Context) ([]domain.CatalogAsset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CatalogAsset), args.Error(1)
}

func (m *MockProvider) GetAssetDetail(ctx context.Context, providerID string) (domain.AssetDetail, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(domain.AssetDetail), args.Error(1)
}

func (m *MockProvider) GetPriceHistory(ctx context.Context, providerID, interval string, startMs, endMs int64) ([]domain.PricePoint, error) {
	args := m.Called(ctx, providerID, interval, startMs, endMs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PricePoint), args.Error(1)
}

// MockQuoteCache is a mock implementation of QuoteCache for testing
type MockQuoteCache struct {
	mock.Mock
}

func (m *MockQuoteCache) SetQuote(ctx context.Context, symbol string, price decimal.Decimal, ts time.Time) error {
	args := m.Called(ctx, symbol, price, ts)
	return args.Error(0)
}

func (m *MockQuoteCache) GetQuote(ctx context.Context, symbol string) (decimal.Decimal, time.Time, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(decimal.Decimal), args.Get(1).(time.Time), args.Error(2)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seededResolver builds a resolver whose catalog maps the given symbols to
// provider ids of the form "<symbol>-id".
func seededResolver(t *testing.T, symbols ...string) *symbol.Resolver {
	t.Helper()
	catalog := make([]domain.CatalogAsset, 0, len(symbols))
	for _, s := range symbols {
		catalog = append(catalog, domain.CatalogAsset{ID: s + "-id", Symbol: s})
	}
	provider := new(MockProvider)
	provider.On("ListAssets", mock.Anything).Return(catalog, nil)

	r := symbol.NewResolver(provider, testLogger())
	require.NoError(t, r.Init(context.Background()))
	return r
}
