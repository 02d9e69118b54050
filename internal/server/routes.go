package server

import (
	"net/http"
	"strings"

	"github.com/ternarybob/treatyview/internal/handlers"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Policies
	mux.HandleFunc("/api/policies/load", s.app.DashboardHandler.LoadHandler) // GET - full canonical dataset
	mux.HandleFunc("/api/policies", s.app.DashboardHandler.FilteredHandler)  // GET - filtered data + dependent options
	mux.HandleFunc("/api/dimensions", s.app.DashboardHandler.DimensionsHandler)

	// API routes - Aggregation
	mux.HandleFunc("/api/aggregate/periods", s.app.DashboardHandler.PeriodsHandler)
	mux.HandleFunc(handlers.DimensionAggregatePrefix, s.handleDimensionRoute) // GET /{name}

	// API routes - Export (XLSX)
	mux.HandleFunc("/api/export/", s.handleExportRoutes)

	// API routes - Dataset
	mux.HandleFunc("/api/dataset/reload", s.app.DatasetHandler.ReloadHandler) // POST
	mux.HandleFunc("/api/dataset/runs", s.app.DatasetHandler.RunsHandler)
	mux.HandleFunc("/api/status", s.app.DatasetHandler.StatusHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleDimensionRoute requires a single dimension name after the prefix
func (s *Server) handleDimensionRoute(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, handlers.DimensionAggregatePrefix)
	if name == "" || strings.Contains(name, "/") {
		s.app.APIHandler.NotFoundHandler(w, r)
		return
	}
	s.app.DashboardHandler.DimensionHandler(w, r)
}

// handleExportRoutes routes /api/export/periods.xlsx and /api/export/dimension/{name}.xlsx
func (s *Server) handleExportRoutes(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/export/periods.xlsx" {
		s.app.ExportHandler.PeriodsHandler(w, r)
		return
	}

	if strings.HasPrefix(r.URL.Path, handlers.DimensionExportPrefix) {
		matched := RouteByPathSuffix(w, r, handlers.DimensionExportPrefix, []PathSuffixRouter{
			{Suffix: ".xlsx", Handler: s.app.ExportHandler.DimensionHandler},
		})
		if matched {
			return
		}
	}

	s.app.APIHandler.NotFoundHandler(w, r)
}
