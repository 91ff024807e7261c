package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/services"
)

type Server struct {
	dashboard    *services.Dashboard
	mux          *http.ServeMux
	logger       *slog.Logger
	pageHandlers *handlers.PageHandlers
	apiHandlers  *handlers.APIHandlers
	sseHandlers  *handlers.SSEHandlers
}

func NewServer(dashboard *services.Dashboard, logger *slog.Logger) *Server {
	s := &Server{
		dashboard:    dashboard,
		mux:          http.NewServeMux(),
		logger:       logger,
		pageHandlers: handlers.NewPageHandlers(dashboard, logger),
		apiHandlers:  handlers.NewAPIHandlers(dashboard, logger),
		sseHandlers:  handlers.NewSSEHandlers(dashboard, logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Dashboard pages
	s.mux.HandleFunc("GET /{$}", s.pageHandlers.HandleIndex)
	s.mux.HandleFunc("GET /charts/{name}", s.pageHandlers.HandleChart)
	s.mux.HandleFunc("GET /download/{name}", s.pageHandlers.HandleDownload)

	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/center-date", s.apiHandlers.HandleCenterDate)
	s.mux.HandleFunc("GET /api/year", s.apiHandlers.HandleYear)
	s.mux.HandleFunc("GET /api/options/periods", s.apiHandlers.HandlePeriods)
	s.mux.HandleFunc("GET /api/options/centers", s.apiHandlers.HandleCenters)
	s.mux.HandleFunc("GET /api/options/years", s.apiHandlers.HandleYears)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/center-date", s.sseHandlers.HandleCenterDate)
	s.mux.HandleFunc("GET /sse/year", s.sseHandlers.HandleYear)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
