package handlers

import (
	"errors"
	"net/http"

	"github.com/wonny/graham/internal/audit"
	"github.com/wonny/graham/pkg/logger"
)

// PerformanceHandler serves the equity curve and performance metrics
type PerformanceHandler struct {
	analyzer *audit.Analyzer
	logger   *logger.Logger
}

// NewPerformanceHandler creates a new performance handler
func NewPerformanceHandler(analyzer *audit.Analyzer, log *logger.Logger) *PerformanceHandler {
	return &PerformanceHandler{analyzer: analyzer, logger: log}
}

// GetPerformance returns return and risk metrics for a period
// GET /api/performance?period=1M|3M|6M|1Y|YTD|ALL
func (h *PerformanceHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	report, err := h.analyzer.Analyze(r.Context(), r.URL.Query().Get("period"))
	switch {
	case errors.Is(err, audit.ErrInvalidPeriod):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, audit.ErrNoData):
		respondError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		h.logger.WithError(err).Error("Performance analysis failed")
		respondError(w, http.StatusInternalServerError, "Performance analysis failed")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetEquityCurve returns daily account values for a period
// GET /api/equity?period=...
func (h *PerformanceHandler) GetEquityCurve(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	snapshots, start, end, err := h.analyzer.History(r.Context(), period)
	if errors.Is(err, audit.ErrInvalidPeriod) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load snapshots")
		respondError(w, http.StatusInternalServerError, "Failed to load snapshots")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"start_date": start,
		"end_date":   end,
		"curve":      audit.EquityCurve(snapshots),
	})
}
