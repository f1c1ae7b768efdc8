package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wardline/medshift/backend/internal/analytics"
	"github.com/wardline/medshift/backend/pkg/logger"
)

// ReportHandler handles facility analytics endpoints
// SSOT: analytics API handlers live in this struct only.
type ReportHandler struct {
	service *analytics.Service
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service *analytics.Service, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  log,
	}
}

// GetReport returns the full analytics report for a facility.
// GET /api/facilities/{facilityId}/analytics?from=&to=&fresh=
// from/to are optional RFC 3339 timestamps or YYYY-MM-DD dates; omitting
// both selects the current calendar month. fresh=1 bypasses the cache.
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	facilityID := mux.Vars(r)["facilityId"]

	from, ok := parseTimeParam(w, r, "from")
	if !ok {
		return
	}
	to, ok := parseTimeParam(w, r, "to")
	if !ok {
		return
	}
	fresh := r.URL.Query().Get("fresh") == "1" || r.URL.Query().Get("fresh") == "true"

	report, err := h.service.CachedReport(ctx, facilityID, from, to, fresh)
	if err != nil {
		h.respondReportError(w, facilityID, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetForecast returns only the staffing-gap forecast block.
// GET /api/facilities/{facilityId}/analytics/forecast
func (h *ReportHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	facilityID := mux.Vars(r)["facilityId"]

	report, err := h.service.CachedReport(ctx, facilityID, nil, nil, false)
	if err != nil {
		h.respondReportError(w, facilityID, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"facilityId":  report.FacilityID,
		"generatedAt": report.GeneratedAt,
		"forecast":    report.Forecast,
	})
}

// respondReportError maps service errors onto HTTP statuses.
func (h *ReportHandler) respondReportError(w http.ResponseWriter, facilityID string, err error) {
	switch {
	case errors.Is(err, analytics.ErrInvalidWindow):
		respondError(w, http.StatusBadRequest, "Invalid report window")
	case errors.Is(err, analytics.ErrDataUnavailable):
		h.logger.WithError(err).WithField("facility_id", facilityID).Error("Report data unavailable")
		respondError(w, http.StatusServiceUnavailable, "Analytics data temporarily unavailable")
	default:
		h.logger.WithError(err).WithField("facility_id", facilityID).Error("Failed to generate report")
		respondError(w, http.StatusInternalServerError, "Failed to generate report")
	}
}

// parseTimeParam reads an optional time query parameter. It accepts RFC 3339
// or date-only values; a parse failure writes a 400 and returns ok=false.
func parseTimeParam(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true
	}

	respondError(w, http.StatusBadRequest, "Invalid '"+name+"' value (expected RFC 3339 or YYYY-MM-DD)")
	return nil, false
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
