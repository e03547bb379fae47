package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"market-pulse/ingest"
)

// handleIngest accepts a ticker -> date -> observation payload and returns the
// ingestion summary. Per-row problems never fail the request; only an
// undecodable or empty payload is rejected wholesale.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var payload ingest.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Printf("Ingestion error: %v", err)
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Invalid JSON payload",
		})
		return
	}

	summary, err := s.pipeline.Ingest(payload)
	if err != nil {
		if errors.Is(err, ingest.ErrEmptyPayload) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": "Empty payload",
			})
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to ingest data", err)
		return
	}

	// Cached reports for the touched days are stale now
	s.reports.InvalidateDates(r.Context(), payload.DateKeys())

	writeJSON(w, http.StatusOK, summary)
}
