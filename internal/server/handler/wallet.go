package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/franciscaquadros/crypto-wallet/internal/domain"
)

// WalletService defines the methods the wallet handler requires from the
// service layer. It is declared locally so the handler package does not depend
// on the concrete service implementation.
type WalletService interface {
	CreateWallet(ctx context.Context, email string) (domain.Wallet, error)
	GetWallet(ctx context.Context, email string) (domain.WalletValuation, error)
	EvaluateWallet(ctx context.Context, entries []domain.EvaluationEntry, date time.Time) (domain.WalletEvaluation, error)
}

// AssetService defines the asset operations the wallet handler requires.
type AssetService interface {
	AddAsset(ctx context.Context, email, symbol string, quantity decimal.Decimal) error
}

// WalletHandler serves wallet-related HTTP endpoints.
type WalletHandler struct {
	wallets WalletService
	assets  AssetService
	logger  *slog.Logger
}

// NewWalletHandler creates a WalletHandler with the given services and logger.
func NewWalletHandler(wallets WalletService, assets AssetService, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{
		wallets: wallets,
		assets:  assets,
		logger:  logger,
	}
}

type createWalletRequest struct {
	Email string `json:"email"`
}

// CreateWallet registers a new wallet for an email address.
// POST /api/wallets
func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var req createWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wallet, err := h.wallets.CreateWallet(r.Context(), req.Email)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: create wallet failed",
			slog.String("email", req.Email),
			slog.String("error", err.Error()),
		)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, wallet)
}

// GetWallet returns the wallet holdings valued at the latest synced prices.
// GET /api/wallets/{email}
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	email := pathParam(r, "email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing wallet email")
		return
	}

	valuation, err := h.wallets.GetWallet(r.Context(), email)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: get wallet failed",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, valuation)
}

type addAssetRequest struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
}

// AddAsset adds a quantity of a crypto asset to an existing wallet.
// POST /api/wallets/{email}/assets
func (h *WalletHandler) AddAsset(w http.ResponseWriter, r *http.Request) {
	email := pathParam(r, "email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing wallet email")
		return
	}

	var req addAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.assets.AddAsset(r.Context(), email, req.Symbol, req.Quantity); err != nil {
		h.logger.ErrorContext(r.Context(), "handler: add asset failed",
			slog.String("email", email),
			slog.String("symbol", req.Symbol),
			slog.String("error", err.Error()),
		)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

type evaluateWalletRequest struct {
	Date   string                   `json:"date"`
	Assets []domain.EvaluationEntry `json:"assets"`
}

// EvaluateWallet compares a hypothetical wallet against prices on a past day.
// POST /api/wallets/evaluate?date=2025-01-07
func (h *WalletHandler) EvaluateWallet(w http.ResponseWriter, r *http.Request) {
	var req evaluateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The reference date may arrive in the query string or the body.
	rawDate := r.URL.Query().Get("date")
	if rawDate == "" {
		rawDate = req.Date
	}

	var date time.Time
	if rawDate != "" {
		parsed, err := time.Parse("2006-01-02", rawDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	evaluation, err := h.wallets.EvaluateWallet(r.Context(), req.Assets, date)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: evaluate wallet failed",
			slog.String("error", err.Error()),
		)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, evaluation)
}
