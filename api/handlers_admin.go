package api

import (
	"log"
	"net/http"
)

// handleAdminReset wipes all market data, generated artifacts and cached
// reports. Stocks cascade-delete their price records.
func (s *Server) handleAdminReset(w http.ResponseWriter, r *http.Request) {
	log.Println("🧹 Starting data reset...")

	deletedStocks, err := s.repo.ResetAll()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to reset data", err)
		return
	}
	log.Printf("🧹 Deleted %d stocks from database", deletedStocks)

	deletedFiles := 0
	if s.artifacts != nil {
		deletedFiles, err = s.artifacts.DeleteAll(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to reset data", err)
			return
		}
		log.Printf("🧹 Deleted %d report artifacts", deletedFiles)
	}

	s.reports.InvalidateAll(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "All data reset successfully",
		"deletedStocks": deletedStocks,
		"deletedFiles":  deletedFiles,
	})
}
