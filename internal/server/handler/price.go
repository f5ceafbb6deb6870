package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/franciscaquadros/crypto-wallet/internal/domain"
)

// QuoteReader exposes the latest synced quote for a symbol.
type QuoteReader interface {
	GetQuote(ctx context.Context, symbol string) (decimal.Decimal, time.Time, error)
}

// PriceHandler serves the latest synced price per symbol from the quote cache.
type PriceHandler struct {
	quotes QuoteReader
	logger *slog.Logger
}

// NewPriceHandler creates a PriceHandler backed by the given quote reader.
func NewPriceHandler(quotes QuoteReader, logger *slog.Logger) *PriceHandler {
	return &PriceHandler{
		quotes: quotes,
		logger: logger,
	}
}

type priceResponse struct {
	Symbol    string          `json:"symbol"`
	PriceUSD  decimal.Decimal `json:"price_usd"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// GetPrice returns the most recently synced price for a symbol.
// GET /api/prices/{symbol}
func (h *PriceHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	sym := pathParam(r, "symbol")
	if sym == "" {
		writeError(w, http.StatusBadRequest, "missing symbol")
		return
	}
	sym = strings.ToUpper(sym)

	price, ts, err := h.quotes.GetQuote(r.Context(), sym)
	if err != nil {
		if errors.Is(err, domain.ErrPriceNotFound) {
			writeError(w, http.StatusNotFound, "no quote for "+sym)
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get price failed",
			slog.String("symbol", sym),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get price")
		return
	}

	writeJSON(w, http.StatusOK, priceResponse{
		Symbol:    sym,
		PriceUSD:  price,
		UpdatedAt: ts,
	})
}
