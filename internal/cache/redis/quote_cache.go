package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/franciscaquadros/crypto-wallet/internal/domain"
)

// QuoteCache implements domain.QuoteCache using Redis hashes.
// Each symbol's latest synced quote is stored as a hash at key
// "quote:{SYMBOL}" with fields "price" and "ts" (Unix nanosecond timestamp).
type QuoteCache struct {
	rdb *redis.Client
}

// NewQuoteCache creates a QuoteCache backed by the given Client.
func NewQuoteCache(c *Client) *QuoteCache {
	return &QuoteCache{rdb: c.Underlying()}
}

func quoteKey(symbol string) string {
	return "quote:" + strings.ToUpper(symbol)
}

// SetQuote stores the latest price and sync timestamp for a symbol.
func (qc *QuoteCache) SetQuote(ctx context.Context, symbol string, price decimal.Decimal, ts time.Time) error {
	key := quoteKey(symbol)
	fields := map[string]interface{}{
		"price": price.String(),
		"ts":    strconv.FormatInt(ts.UnixNano(), 10),
	}
	if err := qc.rdb.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("redis: set quote %s: %w", symbol, err)
	}
	return nil
}

// GetQuote retrieves the latest price and sync timestamp for a symbol.
// It returns domain.ErrPriceNotFound when no quote has been cached.
func (qc *QuoteCache) GetQuote(ctx context.Context, symbol string) (decimal.Decimal, time.Time, error) {
	key := quoteKey(symbol)
	vals, err := qc.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("redis: get quote %s: %w", symbol, err)
	}
	if len(vals) == 0 {
		return decimal.Zero, time.Time{}, fmt.Errorf("%w: %s", domain.ErrPriceNotFound, symbol)
	}

	priceStr, ok := vals["price"]
	if !ok {
		return decimal.Zero, time.Time{}, fmt.Errorf("%w: %s", domain.ErrPriceNotFound, symbol)
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("redis: parse quote price %s: %w", symbol, err)
	}

	tsStr, ok := vals["ts"]
	if !ok {
		return decimal.Zero, time.Time{}, fmt.Errorf("%w: %s", domain.ErrPriceNotFound, symbol)
	}
	tsNano, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("redis: parse quote ts %s: %w", symbol, err)
	}

	return price, time.Unix(0, tsNano).UTC(), nil
}

// Compile-time interface check.
var _ domain.QuoteCache = (*QuoteCache)(nil)
