package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/advisor/internal/services/ingest"
)

// GraphHandler exposes read-only graph queries.
type GraphHandler struct {
	service *ingest.Service
	logger  arbor.ILogger
}

// NewGraphHandler creates a new GraphHandler
func NewGraphHandler(service *ingest.Service, logger arbor.ILogger) *GraphHandler {
	return &GraphHandler{service: service, logger: logger}
}

// CountsHandler handles GET /api/graph/counts
func (h *GraphHandler) CountsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	counts, err := h.service.Counts(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, counts)
}

// AssetHandler handles GET /api/assets/{ticker}
func (h *GraphHandler) AssetHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	asset, err := h.service.GetAsset(r.Context(), r.PathValue("ticker"))
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, asset)
}

// SectorHandler handles GET /api/sectors/{name}/assets
func (h *GraphHandler) SectorHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	assets, err := h.service.SectorMembers(r.Context(), r.PathValue("name"))
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"sector": r.PathValue("name"),
		"count":  len(assets),
		"assets": assets,
	})
}

// HealthHandler handles GET /health
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
