// Package symbol caches the mapping from asset symbols to the market data
// provider's canonical asset ids.
package symbol

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/franciscaquadros/crypto-wallet/internal/domain"
)

// Resolver maps uppercase symbols to provider ids. The mapping is built once
// by Init from the provider's asset catalog and then swapped in atomically,
// so lookups need no locking.
type Resolver struct {
	provider domain.MarketDataProvider
	mapping  atomic.Pointer[map[string]string]
	logger   *slog.Logger
}

// NewResolver creates an empty Resolver. Call Init before resolving.
func NewResolver(provider domain.MarketDataProvider, logger *slog.Logger) *Resolver {
	r := &Resolver{
		provider: provider,
		logger:   logger.With(slog.String("component", "symbol_resolver")),
	}
	empty := map[string]string{}
	r.mapping.Store(&empty)
	return r
}

// Init fetches the full asset catalog and builds the symbol mapping. When the
// catalog contains the same symbol twice the first occurrence wins. A catalog
// fetch failure leaves the resolver empty, so every subsequent Resolve fails
// with ErrUnknownSymbol; the error is returned so the caller can log it
// without aborting startup.
func (r *Resolver) Init(ctx context.Context) error {
	assets, err := r.provider.ListAssets(ctx)
	if err != nil {
		return fmt.Errorf("symbol: load catalog: %w", err)
	}

	mapping := make(map[string]string, len(assets))
	for _, a := range assets {
		sym := strings.ToUpper(a.Symbol)
		if _, ok := mapping[sym]; ok {
			continue
		}
		mapping[sym] = a.ID
	}
	r.mapping.Store(&mapping)

	r.logger.InfoContext(ctx, "symbol catalog loaded", slog.Int("symbols", len(mapping)))
	return nil
}

// Resolve returns the provider id for a symbol, matching case-insensitively.
func (r *Resolver) Resolve(symbol string) (string, error) {
	m := *r.mapping.Load()
	id, ok := m[strings.ToUpper(symbol)]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownSymbol, symbol)
	}
	return id, nil
}

// Contains reports whether the symbol is present in the catalog.
func (r *Resolver) Contains(symbol string) bool {
	m := *r.mapping.Load()
	_, ok := m[strings.ToUpper(symbol)]
	return ok
}
