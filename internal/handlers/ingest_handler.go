package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/advisor/internal/services/ingest"
	"github.com/ternarybob/advisor/internal/services/profiles"
)

// IngestRequest is the body of POST /api/ingest.
type IngestRequest struct {
	Tickers []string `json:"tickers" validate:"required,min=1,max=50,dive,required"`
	Include []string `json:"include"`
}

// IngestHandler serves ingest and score requests.
type IngestHandler struct {
	service *ingest.Service
	logger  arbor.ILogger
}

// NewIngestHandler creates a new IngestHandler
func NewIngestHandler(service *ingest.Service, logger arbor.ILogger) *IngestHandler {
	return &IngestHandler{service: service, logger: logger}
}

// IngestHandler handles POST /api/ingest
func (h *IngestHandler) IngestHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req IngestRequest
	if err := DecodeJSON(r, "ingest", &req); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	include := profiles.ParseInclude(req.Include)
	report, err := h.service.Ingest(r.Context(), req.Tickers, include.Metrics)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

// ScoreHandler handles GET /api/score/{ticker}
func (h *IngestHandler) ScoreHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	result, err := h.service.ScoreTicker(r.Context(), r.PathValue("ticker"))
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
