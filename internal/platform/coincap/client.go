// Package coincap is the REST client for the CoinCap market data API, which
// provides the asset catalog, current price snapshots, and price history.
package coincap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/franciscaquadros/crypto-wallet/internal/domain"
)

// Client talks to the CoinCap REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a CoinCap client.
//
// baseURL is the API root, e.g. "https://rest.coincap.io/v3". The apiKey is
// attached to every request as a bearer token. timeout bounds each request;
// zero means 30 seconds.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListAssets returns the full asset catalog. Entries whose price cannot be
// parsed are skipped.
func (c *Client) ListAssets(ctx context.Context) ([]domain.CatalogAsset, error) {
	body, err := c.doGet(ctx, "/assets")
	if err != nil {
		return nil, fmt.Errorf("coincap: list assets: %w", err)
	}

	var resp APIAssetsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("coincap: decode assets: %w", err)
	}

	assets := make([]domain.CatalogAsset, 0, len(resp.Data))
	for i := range resp.Data {
		a, err := resp.Data[i].ToCatalogAsset()
		if err != nil {
			continue
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// GetAssetDetail returns the current snapshot for one asset.
func (c *Client) GetAssetDetail(ctx context.Context, providerID string) (domain.AssetDetail, error) {
	path := fmt.Sprintf("/assets/%s", url.PathEscape(providerID))

	body, err := c.doGet(ctx, path)
	if err != nil {
		return domain.AssetDetail{}, fmt.Errorf("coincap: get asset %s: %w", providerID, err)
	}

	var resp APIAssetDetailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.AssetDetail{}, fmt.Errorf("coincap: decode asset %s: %w", providerID, err)
	}

	detail, err := resp.ToAssetDetail()
	if err != nil {
		return domain.AssetDetail{}, fmt.Errorf("coincap: asset %s: %w", providerID, err)
	}
	return detail, nil
}

// GetPriceHistory returns historical samples for one asset. interval selects
// the sampling granularity (e.g. "h12"); startMs and endMs are inclusive
// millisecond UTC epoch bounds.
func (c *Client) GetPriceHistory(ctx context.Context, providerID, interval string, startMs, endMs int64) ([]domain.PricePoint, error) {
	params := url.Values{}
	params.Set("interval", interval)
	params.Set("start", strconv.FormatInt(startMs, 10))
	params.Set("end", strconv.FormatInt(endMs, 10))

	path := fmt.Sprintf("/assets/%s/history?%s", url.PathEscape(providerID), params.Encode())

	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("coincap: get history %s: %w", providerID, err)
	}

	var resp APIHistoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("coincap: decode history %s: %w", providerID, err)
	}

	points := make([]domain.PricePoint, 0, len(resp.Data))
	for i := range resp.Data {
		p, err := resp.Data[i].ToPricePoint()
		if err != nil {
			continue
		}
		points = append(points, p)
	}
	return points, nil
}

// doGet sends an authenticated GET request to the CoinCap API.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrProvider, err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}

// checkHTTPStatus maps non-2xx status codes to domain errors.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	if statusCode == http.StatusNotFound {
		return fmt.Errorf("%w: HTTP 404: %s", domain.ErrAssetNotFound, string(body))
	}
	return fmt.Errorf("%w: HTTP %d: %s", domain.ErrProvider, statusCode, string(body))
}

// Compile-time interface check.
var _ domain.MarketDataProvider = (*Client)(nil)
