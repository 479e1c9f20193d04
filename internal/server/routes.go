package server

import (
	"net/http"

	"github.com/ternarybob/advisor/internal/handlers"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", handlers.HealthHandler)

	// API routes - Ingestion and scoring
	mux.HandleFunc("/api/ingest", s.app.IngestHandler.IngestHandler)        // POST
	mux.HandleFunc("/api/score/{ticker}", s.app.IngestHandler.ScoreHandler) // GET

	// API routes - Advice
	mux.HandleFunc("/api/advice", s.app.AdviceHandler.AdviceHandler) // GET (query) or POST (body)

	// API routes - Graph
	mux.HandleFunc("/api/graph/counts", s.app.GraphHandler.CountsHandler)          // GET
	mux.HandleFunc("/api/assets/{ticker}", s.app.GraphHandler.AssetHandler)        // GET
	mux.HandleFunc("/api/sectors/{name}/assets", s.app.GraphHandler.SectorHandler) // GET

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, "Not found")
	})

	return mux
}
