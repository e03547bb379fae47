package api

import (
	"errors"
	"log"
	"net/http"

	"market-pulse/helpers"
	"market-pulse/report"
)

// hasDataForDate reports whether any price records exist inside the day.
// Report generation is gated on it: no data, no report.
func (s *Server) hasDataForDate(day helpers.DayRange) (bool, error) {
	count, err := s.readDB.CountRecordsInRange(day.Start, day.End)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// gateReportDate validates the date key and the data precondition shared by
// the report endpoints. Returns false after writing the error response.
func (s *Server) gateReportDate(w http.ResponseWriter, dateKey string) bool {
	day, ok := helpers.DayRangeForKey(dateKey)
	if !ok {
		errorResponse(w, http.StatusBadRequest, "INVALID_DATE", "Date must be in YYYY-MM-DD format")
		return false
	}

	hasData, err := s.hasDataForDate(day)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to check market data", err)
		return false
	}
	if !hasData {
		errorResponse(w, http.StatusNotFound, "NO_DATA_FOR_DATE", "No market data found for this date")
		return false
	}
	return true
}

// handleGetReport returns a presigned URL for an already-generated artifact
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	dateKey := r.PathValue("date")
	if !s.gateReportDate(w, dateKey) {
		return
	}
	if s.artifacts == nil {
		errorResponse(w, http.StatusServiceUnavailable, "ARTIFACTS_UNAVAILABLE", "Object storage is not configured")
		return
	}

	exists, err := s.artifacts.ReportExists(r.Context(), dateKey)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch report URL", err)
		return
	}
	if !exists {
		errorResponse(w, http.StatusNotFound, "REPORT_NOT_FOUND", "Report has not been generated for this date")
		return
	}

	url, err := s.artifacts.PresignedURL(r.Context(), dateKey)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch report URL", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"date":    dateKey,
		"url":     url,
	})
}

// handleGenerateReport builds the report for a date and stores it as an artifact
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	dateKey := r.PathValue("date")
	if !s.gateReportDate(w, dateKey) {
		return
	}
	if s.artifacts == nil {
		errorResponse(w, http.StatusServiceUnavailable, "ARTIFACTS_UNAVAILABLE", "Object storage is not configured")
		return
	}

	data, err := s.reports.ForDate(r.Context(), dateKey)
	if err != nil {
		if errors.Is(err, report.ErrNoDataForDate) {
			// A reset can race the gate check above
			errorResponse(w, http.StatusNotFound, "NO_DATA_FOR_DATE", "No market data found for this date")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to generate report", err)
		return
	}

	url, err := s.artifacts.PutReport(r.Context(), dateKey, data)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to generate report", err)
		return
	}

	log.Printf("📄 Report generated for %s", dateKey)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"date":    dateKey,
		"url":     url,
	})
}

// handleReportData returns the report data document itself
func (s *Server) handleReportData(w http.ResponseWriter, r *http.Request) {
	dateKey := r.PathValue("date")

	data, err := s.reports.ForDate(r.Context(), dateKey)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrInvalidDateKey):
			errorResponse(w, http.StatusBadRequest, "INVALID_DATE", "Date must be in YYYY-MM-DD format")
		case errors.Is(err, report.ErrNoDataForDate):
			errorResponse(w, http.StatusNotFound, "NO_DATA_FOR_DATE", "No market data found for this date")
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to build report data", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}

// handleReportDates lists every day key with persisted records, newest first
func (s *Server) handleReportDates(w http.ResponseWriter, r *http.Request) {
	instants, err := s.readDB.DistinctRecordDates()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch available report dates", err)
		return
	}

	// Records land at UTC midnight, but stray timestamps inside a day must
	// not produce duplicate keys
	seen := map[string]struct{}{}
	dates := []string{}
	for _, instant := range instants {
		dateKey := helpers.ToDateKey(instant)
		if _, dup := seen[dateKey]; dup {
			continue
		}
		seen[dateKey] = struct{}{}
		dates = append(dates, dateKey)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"dates":   dates,
	})
}

// handleListReports lists the dates of all generated artifacts
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.artifacts == nil {
		errorResponse(w, http.StatusServiceUnavailable, "ARTIFACTS_UNAVAILABLE", "Object storage is not configured")
		return
	}

	reports, err := s.artifacts.ListReportDates(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list reports", err)
		return
	}
	if reports == nil {
		reports = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"reports": reports,
	})
}

// handleDeleteReports deletes all generated artifacts
func (s *Server) handleDeleteReports(w http.ResponseWriter, r *http.Request) {
	if s.artifacts == nil {
		errorResponse(w, http.StatusServiceUnavailable, "ARTIFACTS_UNAVAILABLE", "Object storage is not configured")
		return
	}

	count, err := s.artifacts.DeleteAll(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to delete reports", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"deleted": count,
	})
}
