// internal/api/handler/withdrawal.go
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"tradein-settlement/internal/service"
	"tradein-settlement/internal/util"
)

// WithdrawalHandler handles customer withdrawal requests and admin decisions.
type WithdrawalHandler struct {
	base
	service service.WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(svc service.WithdrawalService, logger *slog.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{base: base{logger: logger}, service: svc}
}

// Request handles POST /api/withdrawal/{amount}.
func (h *WithdrawalHandler) Request(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	amount, err := decimal.NewFromString(chi.URLParam(r, "amount"))
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	withdrawal, err := h.service.Request(r.Context(), user, amount)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, withdrawal)
}

// History handles GET /api/withdrawal.
func (h *WithdrawalHandler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	withdrawals, err := h.service.History(r.Context(), user)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, withdrawals)
}

// ListAll handles GET /api/admin/withdrawal.
func (h *WithdrawalHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.service.ListAll(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, withdrawals)
}

// Proceed handles PATCH /api/admin/withdrawal/{id}/proceed/{accept}.
func (h *WithdrawalHandler) Proceed(w http.ResponseWriter, r *http.Request) {
	withdrawalID, err := urlInt64(r, "id")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	accept, err := strconv.ParseBool(chi.URLParam(r, "accept"))
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	withdrawal, err := h.service.Decide(r.Context(), withdrawalID, accept)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, withdrawal)
}
