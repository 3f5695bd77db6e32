package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/BagwellTbag/quantumsol-backend/internal/arbitrage"
	"github.com/BagwellTbag/quantumsol-backend/internal/config"
	"github.com/BagwellTbag/quantumsol-backend/internal/model"
	"github.com/BagwellTbag/quantumsol-backend/internal/solana"
	"github.com/BagwellTbag/quantumsol-backend/internal/store"
)

// PriceFetcher produces the complete source→price mapping for the fixed
// trading pair.
type PriceFetcher interface {
	FetchPrices(ctx context.Context) map[string]float64
}

// pricesPayload is the response body of GET /prices and the message pushed
// on the websocket price stream.
type pricesPayload struct {
	Prices        map[string]float64  `json:"prices"`
	Opportunities []model.Opportunity `json:"opportunities"`
}

// Handlers holds the dependencies shared by all endpoint handlers.
type Handlers struct {
	logger   *slog.Logger
	cfg      *config.Config
	store    store.Store
	fetcher  PriceFetcher
	detector *arbitrage.Detector
}

// NewHandlers creates the endpoint handler set.
func NewHandlers(logger *slog.Logger, cfg *config.Config, st store.Store, fetcher PriceFetcher, detector *arbitrage.Detector) *Handlers {
	return &Handlers{logger: logger, cfg: cfg, store: st, fetcher: fetcher, detector: detector}
}

// Prices fetches a quote per configured source and reports prices together
// with the detected opportunities. Upstream failures never fail the request:
// a failed source is reported with price 0.
func (h *Handlers) Prices(w http.ResponseWriter, r *http.Request) {
	prices := h.fetcher.FetchPrices(r.Context())
	h.logger.Info("Fetched prices", "prices", prices)

	respondJSON(w, http.StatusOK, pricesPayload{
		Prices:        prices,
		Opportunities: h.detector.Detect(prices),
	})
}

// Wallet returns the fixed administrative deposit address.
func (h *Handlers) Wallet(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"address": h.cfg.Admin.WalletAddress})
}

// GetProfits returns the user's profit balance, 0 when no record exists.
func (h *Handlers) GetProfits(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	rec, err := h.store.FindProfit(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	profits := 0.0
	if rec != nil {
		profits = rec.Profits
	}
	respondJSON(w, http.StatusOK, map[string]float64{"profits": profits})
}

// UpdateProfits replaces a user's profit balance after checking the admin
// password, then appends a ledger entry.
func (h *Handlers) UpdateProfits(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID   string  `json:"userId"`
		Profits  float64 `json:"profits"`
		Password string  `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if body.Password != h.cfg.Admin.Password {
		respondError(w, http.StatusUnauthorized, "Invalid admin password")
		return
	}

	ctx := r.Context()
	if err := h.store.UpsertProfit(ctx, model.ProfitRecord{UserID: body.UserID, Profits: body.Profits}); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.appendLedger(ctx, model.TransactionRecord{
		UserID: body.UserID,
		Type:   model.TxTypeProfit,
		Amount: body.Profits,
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": "Profits updated successfully"})
}

// Transactions returns the user's ledger entries, newest first.
func (h *Handlers) Transactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	recs, err := h.store.ListTransactions(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": recs})
}

// Withdraw accepts a withdrawal request after validating the destination
// address, then appends a ledger entry. A malformed address writes nothing.
func (h *Handlers) Withdraw(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID  string  `json:"userId"`
		Amount  float64 `json:"amount"`
		Address string  `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := solana.ValidateAddress(body.Address); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid Solana address")
		return
	}

	ctx := r.Context()
	rec := model.WithdrawalRecord{
		ID:        ulid.Make().String(),
		UserID:    body.UserID,
		Amount:    body.Amount,
		Address:   body.Address,
		Status:    model.WithdrawalStatusPending,
		Timestamp: model.Now(),
	}
	if err := h.store.InsertWithdrawal(ctx, rec); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.appendLedger(ctx, model.TransactionRecord{
		UserID:  body.UserID,
		Type:    model.TxTypeWithdrawalRequest,
		Amount:  body.Amount,
		Address: body.Address,
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": "Withdrawal request submitted"})
}

// LogDeposit records an admin-entered deposit after checking the admin
// password, then appends a ledger entry.
func (h *Handlers) LogDeposit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID   string  `json:"userId"`
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
		TxID     string  `json:"txId"`
		Password string  `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if body.Password != h.cfg.Admin.Password {
		respondError(w, http.StatusUnauthorized, "Invalid admin password")
		return
	}
	if body.TxID == "" {
		body.TxID = "N/A"
	}

	ctx := r.Context()
	rec := model.DepositRecord{
		ID:        ulid.Make().String(),
		UserID:    body.UserID,
		Amount:    body.Amount,
		Currency:  body.Currency,
		TxID:      body.TxID,
		Timestamp: model.Now(),
	}
	if err := h.store.InsertDeposit(ctx, rec); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.appendLedger(ctx, model.TransactionRecord{
		UserID:   body.UserID,
		Type:     model.TxTypeDeposit,
		Amount:   body.Amount,
		Currency: body.Currency,
		TxID:     body.TxID,
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": "Deposit logged successfully"})
}

// Deposits returns the user's deposits, newest first.
func (h *Handlers) Deposits(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	recs, err := h.store.ListDeposits(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"deposits": recs})
}

// Health is a liveness probe.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// appendLedger writes the transaction entry mirroring a completed primary
// write. The two writes are not atomic: a ledger failure is logged and the
// already-completed primary write stands.
func (h *Handlers) appendLedger(ctx context.Context, rec model.TransactionRecord) {
	rec.ID = ulid.Make().String()
	rec.Timestamp = model.Now()
	if err := h.store.InsertTransaction(ctx, rec); err != nil {
		h.logger.Error("Failed to append transaction ledger entry",
			"userId", rec.UserID, "type", rec.Type, "error", err)
	}
}
