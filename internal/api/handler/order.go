// internal/api/handler/order.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/service"
	"tradein-settlement/internal/util"
)

// IdempotencyKeyHeader lets clients retry an order without settling it twice.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderHandler handles HTTP requests related to trading orders.
type OrderHandler struct {
	base
	service service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{base: base{logger: logger}, service: svc}
}

// PayOrderRequest represents the request body for placing an order.
type PayOrderRequest struct {
	CoinID    string          `json:"coin_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	OrderType string          `json:"order_type"`
}

// PayOrder settles a BUY or SELL order at the current market price.
// POST /api/orders/pay
func (h *OrderHandler) PayOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req PayOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	order, err := h.service.ProcessOrder(r.Context(), user, service.OrderRequest{
		CoinID:         req.CoinID,
		Quantity:       req.Quantity,
		Side:           req.OrderType,
		IdempotencyKey: strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader)),
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, order)
}

// GetOrder returns one of the caller's orders.
// GET /api/orders/{orderID}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	orderID, err := urlInt64(r, "orderID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	order, err := h.service.GetOrder(r.Context(), user, orderID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, order)
}

// ListOrders returns the caller's orders, optionally filtered by order_type and coin_id.
// GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var filter domain.OrderFilter
	if side := r.URL.Query().Get("order_type"); side != "" {
		orderType, ok := domain.ParseOrderType(side)
		if !ok {
			h.respondWithError(w, util.ErrInvalidInput)
			return
		}
		filter.OrderType = orderType
	}
	filter.CoinID = strings.TrimSpace(r.URL.Query().Get("coin_id"))

	orders, err := h.service.ListOrders(r.Context(), user, filter)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, orders)
}
