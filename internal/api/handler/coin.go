// internal/api/handler/coin.go
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/util"
)

// CoinReader serves market snapshots.
type CoinReader interface {
	GetCoin(ctx context.Context, coinID string) (*domain.Coin, error)
	ListCoins(ctx context.Context, limit, offset int) ([]domain.Coin, error)
}

// CoinHandler exposes market data.
type CoinHandler struct {
	base
	coins CoinReader
}

// NewCoinHandler creates a new CoinHandler.
func NewCoinHandler(coins CoinReader, logger *slog.Logger) *CoinHandler {
	return &CoinHandler{base: base{logger: logger}, coins: coins}
}

// GetCoin refreshes and returns one coin. GET /api/coins/{coinID}
func (h *CoinHandler) GetCoin(w http.ResponseWriter, r *http.Request) {
	coinID := chi.URLParam(r, "coinID")
	if coinID == "" {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	coin, err := h.coins.GetCoin(r.Context(), coinID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, coin)
}

// ListCoins pages through cached snapshots. GET /api/coins
func (h *CoinHandler) ListCoins(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	coins, err := h.coins.ListCoins(r.Context(), limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, coins)
}
