package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"market-pulse/artifacts"
	"market-pulse/database"
	"market-pulse/ingest"
	"market-pulse/report"
)

// Server handles HTTP API requests
type Server struct {
	pipeline  *ingest.Pipeline
	reports   *report.Service
	repo      *database.PriceRepository
	readDB    *database.ReadDB
	artifacts *artifacts.Store // nil when object storage is not configured
}

// NewServer creates a new API server instance
func NewServer(pipeline *ingest.Pipeline, reports *report.Service, repo *database.PriceRepository, readDB *database.ReadDB, artifactStore *artifacts.Store) *Server {
	return &Server{
		pipeline:  pipeline,
		reports:   reports,
		repo:      repo,
		readDB:    readDB,
		artifacts: artifactStore,
	}
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port int) error {
	mux := http.NewServeMux()

	// Register routes
	mux.HandleFunc("POST /api/ingest", s.handleIngest)
	mux.HandleFunc("GET /api/reports", s.handleListReports)
	mux.HandleFunc("DELETE /api/reports", s.handleDeleteReports)
	mux.HandleFunc("GET /api/reports/dates", s.handleReportDates)
	mux.HandleFunc("GET /api/reports/{date}", s.handleGetReport)
	mux.HandleFunc("POST /api/reports/{date}", s.handleGenerateReport)
	mux.HandleFunc("GET /api/reports/{date}/data", s.handleReportData)
	mux.HandleFunc("DELETE /api/admin/reset", s.handleAdminReset)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	addr := fmt.Sprintf(":%d", port)
	log.Printf("🚀 API server listening on %s", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return server.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.readDB.Ping(); err != nil {
		respondWithError(w, http.StatusServiceUnavailable, "database unreachable", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
