package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/advisor/internal/models"
	"github.com/ternarybob/advisor/internal/services/advice"
)

// AdviceRequest is the body of POST /api/advice. Universe and Tickers are merged.
// Constraints are accepted for forward compatibility and currently not applied.
type AdviceRequest struct {
	Risk        int            `json:"risk" validate:"min=1,max=5"`
	Universe    []string       `json:"universe" validate:"max=10"`
	Tickers     []string       `json:"tickers" validate:"max=10"`
	Constraints map[string]any `json:"constraints,omitempty"`
}

// AdviceResponse adds the HTML rendering of the rationale when format=html.
type AdviceResponse struct {
	*models.AggregatedAdvice
	RationaleHTML string `json:"rationale_html,omitempty"`
}

// AdviceHandler serves aggregated advice.
type AdviceHandler struct {
	aggregator *advice.Aggregator
	logger     arbor.ILogger
}

// NewAdviceHandler creates a new AdviceHandler
func NewAdviceHandler(aggregator *advice.Aggregator, logger arbor.ILogger) *AdviceHandler {
	return &AdviceHandler{aggregator: aggregator, logger: logger}
}

// AdviceHandler handles GET /api/advice?tickers=..&risk=..&format=html and POST /api/advice
func (h *AdviceHandler) AdviceHandler(w http.ResponseWriter, r *http.Request) {
	var (
		tickers []string
		risk    int
	)

	switch r.Method {
	case http.MethodGet:
		tickers = SplitList(r.URL.Query().Get("tickers"))
		riskStr := strings.TrimSpace(r.URL.Query().Get("risk"))
		if riskStr == "" {
			riskStr = "3"
		}
		n, err := strconv.Atoi(riskStr)
		if err != nil {
			WriteServiceError(w, h.logger, models.Invalid("advise", "risk must be an integer, got %q", riskStr))
			return
		}
		risk = n

	case http.MethodPost:
		var req AdviceRequest
		if err := DecodeJSON(r, "advise", &req); err != nil {
			WriteServiceError(w, h.logger, err)
			return
		}
		if len(req.Constraints) > 0 {
			h.logger.Debug().Int("constraints", len(req.Constraints)).Msg("Advice constraints supplied but not applied")
		}
		tickers = append(append([]string{}, req.Universe...), req.Tickers...)
		risk = req.Risk

	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	result, err := h.aggregator.Advise(r.Context(), tickers, risk)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	response := AdviceResponse{AggregatedAdvice: result}
	if strings.EqualFold(r.URL.Query().Get("format"), "html") {
		html, err := advice.RenderHTML(result.Rationale)
		if err != nil {
			h.logger.Warn().Err(err).Msg("Failed to render rationale HTML")
		} else {
			response.RationaleHTML = html
		}
	}

	WriteJSON(w, http.StatusOK, response)
}
