// internal/api/handler/asset.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tradein-settlement/internal/service"
	"tradein-settlement/internal/util"
)

// AssetHandler handles position lookups.
type AssetHandler struct {
	base
	service service.AssetService
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(svc service.AssetService, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{base: base{logger: logger}, service: svc}
}

// ListAssets handles GET /api/assets.
func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	assets, err := h.service.ListUserAssets(r.Context(), user)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, assets)
}

// GetAsset handles GET /api/assets/{assetID}.
func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	assetID, err := urlInt64(r, "assetID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	asset, err := h.service.GetAsset(r.Context(), user, assetID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, asset)
}

// GetAssetForCoin handles GET /api/assets/coin/{coinID}/user.
func (h *AssetHandler) GetAssetForCoin(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	coinID := chi.URLParam(r, "coinID")
	if coinID == "" {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	asset, err := h.service.GetUserAssetForCoin(r.Context(), user, coinID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, asset)
}
