// internal/api/handler/wallet.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"tradein-settlement/internal/api/types"
	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/service"
	"tradein-settlement/internal/util"
)

// WalletHandler handles HTTP requests related to wallet operations.
type WalletHandler struct {
	base
	service service.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(svc service.WalletService, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{base: base{logger: logger}, service: svc}
}

// GetWallet returns the caller's wallet, creating it on first access.
// GET /api/wallet
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	wallet, err := h.service.GetUserWallet(r.Context(), user)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, wallet)
}

// TransferRequest represents the request body for transfer.
type TransferRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Transfer moves funds from the caller's wallet to the wallet in the path.
// PUT /api/wallet/{walletID}/transfer
func (h *WalletHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	receiverWalletID, err := urlInt64(r, "walletID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	if !req.Amount.IsPositive() {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	wallet, err := h.service.Transfer(r.Context(), user, receiverWalletID, req.Amount)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Transfer successful",
		"wallet_id":   wallet.ID,
		"new_balance": wallet.Balance,
	})
}

// GetTransactionHistory returns a page of the caller's ledger entries, newest first.
// GET /api/wallet/transactions
func (h *WalletHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	limit, offset := pagination(r)

	entries, totalCount, err := h.service.GetTransactionHistory(r.Context(), user, limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[domain.WalletTransaction]{
		Data:       entries,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}
