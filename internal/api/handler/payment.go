// internal/api/handler/payment.go
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/service"
	"tradein-settlement/internal/util"
)

// PaymentHandler handles deposits through a payment gateway.
type PaymentHandler struct {
	base
	service service.DepositService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc service.DepositService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{base: base{logger: logger}, service: svc}
}

// CreatePayment opens a deposit and returns the gateway's payment link.
// POST /api/payment/{method}/amount/{amount}
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	method, ok := domain.ParsePaymentMethod(chi.URLParam(r, "method"))
	if !ok {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	amount, err := decimal.NewFromString(chi.URLParam(r, "amount"))
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	order, link, err := h.service.CreatePaymentOrder(r.Context(), user, amount, method)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"payment_order": order,
		"payment_url":   link.URL,
		"token":         link.Token,
	})
}

// ConfirmDeposit credits a settled deposit to the caller's wallet.
// PUT /api/wallet/deposit?order_id=&payment_id=
func (h *PaymentHandler) ConfirmDeposit(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	orderID, err := strconv.ParseInt(r.URL.Query().Get("order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	wallet, err := h.service.ConfirmDeposit(r.Context(), user, orderID, r.URL.Query().Get("payment_id"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, wallet)
}
