package coincap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franciscaquadros/crypto-wallet/internal/domain"
)

func TestListAssets_SkipsUnparsableEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assets", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[
			{"id":"bitcoin","symbol":"BTC","priceUsd":"70000.12"},
			{"id":"broken","symbol":"BRK","priceUsd":"not-a-number"},
			{"id":"ethereum","symbol":"ETH","priceUsd":"3500"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", time.Second)

	assets, err := c.ListAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "bitcoin", assets[0].ID)
	assert.Equal(t, "70000.12", assets[0].PriceUSD.String())
	assert.Equal(t, "ethereum", assets[1].ID)
}

func TestGetAssetDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assets/bitcoin", r.URL.Path)
		w.Write([]byte(`{"data":{"id":"bitcoin","symbol":"BTC","priceUsd":"70000"},"timestamp":1736251200000}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)

	detail, err := c.GetAssetDetail(context.Background(), "bitcoin")
	require.NoError(t, err)
	assert.Equal(t, "BTC", detail.Symbol)
	assert.Equal(t, "70000", detail.PriceUSD.String())
	assert.Equal(t, time.UnixMilli(1736251200000).UTC(), detail.Timestamp)
}

func TestGetAssetDetail_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)

	_, err := c.GetAssetDetail(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrAssetNotFound)
}

func TestGetPriceHistory_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assets/bitcoin/history", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "h12", q.Get("interval"))
		assert.Equal(t, "1736208000000", q.Get("start"))
		assert.Equal(t, "1736294399999", q.Get("end"))
		w.Write([]byte(`{"data":[
			{"priceUsd":"98000.10","time":1736211600000},
			{"priceUsd":"100872.33","time":1736254800000}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)

	points, err := c.GetPriceHistory(context.Background(), "bitcoin", "h12", 1736208000000, 1736294399999)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "100872.33", points[1].PriceUSD.String())
	assert.Equal(t, time.UnixMilli(1736254800000).UTC(), points[1].Date)
}

func TestDoGet_ServerErrorIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)

	_, err := c.ListAssets(context.Background())
	assert.ErrorIs(t, err, domain.ErrProvider)
}

func TestDoGet_TransportErrorIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, "", time.Second)

	_, err := c.ListAssets(context.Background())
	assert.ErrorIs(t, err, domain.ErrProvider)
}
