// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"tradein-settlement/internal/api/types"
	"tradein-settlement/internal/util"
)

// DefaultTimeout bounds a single request, including oracle and gateway calls.
const DefaultTimeout = 30 * time.Second

// RespondWithJSON writes payload as a JSON response.
func RespondWithJSON(w http.ResponseWriter, logger *slog.Logger, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// RespondWithError maps err onto an HTTP status and writes an ErrorResponse.
func RespondWithError(w http.ResponseWriter, logger *slog.Logger, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrSameWalletTransfer):
		statusCode = http.StatusBadRequest
		message = "Cannot transfer to the same wallet"
	case util.IsError(err, util.ErrAlreadyProcessed):
		statusCode = http.StatusConflict
		message = err.Error()
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		message = "Unauthorized"
	case util.IsError(err, util.ErrForbidden):
		statusCode = http.StatusForbidden
		message = "Forbidden"
	case util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusPaymentRequired
		message = "Insufficient funds"
	case util.IsError(err, util.ErrInsufficientQuantity):
		statusCode = http.StatusPaymentRequired
		message = "Insufficient quantity"
	case util.IsError(err, util.ErrIdempotencyKeyReused):
		statusCode = http.StatusConflict
		message = "Idempotency key reused with a different request"
	case util.IsError(err, util.ErrDuplicateEntry):
		statusCode = http.StatusConflict
		message = "Already exists"
	case util.IsError(err, util.ErrPaymentPending):
		statusCode = http.StatusConflict
		message = "Payment not settled yet"
	case util.IsError(err, util.ErrUpstreamUnavailable):
		statusCode = http.StatusServiceUnavailable
		message = "Price or payment provider unavailable"
		logger.Warn("Upstream failure", "error", err)
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	RespondWithJSON(w, logger, statusCode, types.ErrorResponse{Error: message})
}

// base carries the logger and response helpers shared by every handler.
type base struct {
	logger *slog.Logger
}

func (b base) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	RespondWithJSON(w, b.logger, code, payload)
}

func (b base) respondWithError(w http.ResponseWriter, err error) {
	RespondWithError(w, b.logger, err)
}

func urlInt64(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || v <= 0 {
		return 0, util.ErrInvalidInput
	}
	return v, nil
}

// pagination reads limit and offset, falling back to 10 and 0.
func pagination(r *http.Request) (int, int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
