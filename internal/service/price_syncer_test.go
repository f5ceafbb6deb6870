package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/franciscaquadros/crypto-wallet/internal/domain"
	"github.com/franciscaquadros/crypto-wallet/internal/lockmgr"
)

func newPriceSyncer(
	holdings *MockHoldingStore,
	assets *MockAssetStore,
	provider *MockProvider,
	quotes domain.QuoteCache,
	t *testing.T,
	symbols ...string,
) *PriceSyncer {
	resolver := seededResolver(t, symbols...)
	assetSvc := NewAssetService(
		assets,
		new(MockWalletStore),
		holdings,
		provider,
		resolver,
		lockmgr.New(),
		testLogger(),
	)
	return NewPriceSyncer(
		holdings,
		resolver,
		provider,
		assetSvc,
		quotes,
		PriceSyncerConfig{Workers: 2, FetchTimeout: time.Second, DrainGrace: time.Second},
		testLogger(),
	)
}

func TestRefresh_UpdatesEveryHeldSymbol(t *testing.T) {
	ctx := context.Background()

	holdings := new(MockHoldingStore)
	holdings.On("DistinctSymbols", ctx).Return([]string{"BTC", "ETH"}, nil)

	provider := new(MockProvider)
	provider.On("GetAssetDetail", mock.Anything, "BTC-id").Return(domain.AssetDetail{
		PriceUSD:  decimal.NewFromInt(70000),
		Timestamp: time.Now().UTC(),
	}, nil)
	provider.On("GetAssetDetail", mock.Anything, "ETH-id").Return(domain.AssetDetail{
		PriceUSD:  decimal.NewFromInt(3500),
		Timestamp: time.Now().UTC(),
	}, nil)

	assets := new(MockAssetStore)
	assets.On("UpdatePrice", mock.Anything, "BTC", decimal.NewFromInt(70000)).Return(nil)
	assets.On("UpdatePrice", mock.Anything, "ETH", decimal.NewFromInt(3500)).Return(nil)

	quotes := new(MockQuoteCache)
	quotes.On("SetQuote", mock.Anything, "BTC", decimal.NewFromInt(70000), mock.Anything).Return(nil)
	quotes.On("SetQuote", mock.Anything, "ETH", decimal.NewFromInt(3500), mock.Anything).Return(nil)

	s := newPriceSyncer(holdings, assets, provider, quotes, t, "BTC", "ETH")

	pool := new(errgroup.Group)
	pool.SetLimit(2)
	s.refresh(ctx, pool)
	require.NoError(t, pool.Wait())

	assets.AssertExpectations(t)
	quotes.AssertExpectations(t)
}

func TestRefresh_FailedSymbolDoesNotBlockSiblings(t *testing.T) {
	ctx := context.Background()

	holdings := new(MockHoldingStore)
	holdings.On("DistinctSymbols", ctx).Return([]string{"BTC", "ETH"}, nil)

	provider := new(MockProvider)
	provider.On("GetAssetDetail", mock.Anything, "BTC-id").Return(domain.AssetDetail{},
		errors.New("upstream timeout"))
	provider.On("GetAssetDetail", mock.Anything, "ETH-id").Return(domain.AssetDetail{
		PriceUSD: decimal.NewFromInt(3500),
	}, nil)

	assets := new(MockAssetStore)
	assets.On("UpdatePrice", mock.Anything, "ETH", decimal.NewFromInt(3500)).Return(nil)

	s := newPriceSyncer(holdings, assets, provider, nil, t, "BTC", "ETH")

	pool := new(errgroup.Group)
	pool.SetLimit(2)
	s.refresh(ctx, pool)
	require.NoError(t, pool.Wait())

	// ETH still got its price persisted; BTC never reached the store.
	assets.AssertExpectations(t)
	assets.AssertNotCalled(t, "UpdatePrice", mock.Anything, "BTC", mock.Anything)
}

func TestRefresh_UnresolvableSymbolSkipped(t *testing.T) {
	ctx := context.Background()

	holdings := new(MockHoldingStore)
	holdings.On("DistinctSymbols", ctx).Return([]string{"DOGE"}, nil)

	provider := new(MockProvider)
	assets := new(MockAssetStore)

	s := newPriceSyncer(holdings, assets, provider, nil, t, "BTC")

	pool := new(errgroup.Group)
	pool.SetLimit(2)
	s.refresh(ctx, pool)
	require.NoError(t, pool.Wait())

	provider.AssertNotCalled(t, "GetAssetDetail", mock.Anything, mock.Anything)
	assets.AssertNotCalled(t, "UpdatePrice", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefresh_QuoteCacheFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()

	holdings := new(MockHoldingStore)
	holdings.On("DistinctSymbols", ctx).Return([]string{"BTC"}, nil)

	provider := new(MockProvider)
	provider.On("GetAssetDetail", mock.Anything, "BTC-id").Return(domain.AssetDetail{
		PriceUSD: decimal.NewFromInt(70000),
	}, nil)

	assets := new(MockAssetStore)
	assets.On("UpdatePrice", mock.Anything, "BTC", decimal.NewFromInt(70000)).Return(nil)

	quotes := new(MockQuoteCache)
	quotes.On("SetQuote", mock.Anything, "BTC", mock.Anything, mock.Anything).
		Return(errors.New("redis down"))

	s := newPriceSyncer(holdings, assets, provider, quotes, t, "BTC")

	pool := new(errgroup.Group)
	pool.SetLimit(2)
	s.refresh(ctx, pool)
	require.NoError(t, pool.Wait())

	assets.AssertExpectations(t)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	holdings := new(MockHoldingStore)
	holdings.On("DistinctSymbols", mock.Anything).Return([]string{}, nil)

	s := newPriceSyncer(holdings, new(MockAssetStore), new(MockProvider), nil, t)
	s.cfg.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	// Let at least one refresh pass happen, then stop.
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("syncer did not stop after cancellation")
	}
	holdings.AssertExpectations(t)
}
