package handlers

import (
	"net/http"
	"time"

	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/internal/execution"
	"github.com/wonny/graham/internal/strategy"
	"github.com/wonny/graham/pkg/logger"
)

// StateSource exposes the strategy host state
type StateSource interface {
	State() *strategy.State
	LastResult() *execution.Result
}

// StrategyHandler serves the selection and ranking state
// ⭐ SSOT: 전략 상태 API 핸들러는 이 구조체에서만
type StrategyHandler struct {
	source StateSource
	logger *logger.Logger
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(source StateSource, log *logger.Logger) *StrategyHandler {
	return &StrategyHandler{source: source, logger: log}
}

// SelectionResponse is the current selection
type SelectionResponse struct {
	Stocks     []string  `json:"stocks"`
	Sectors    []string  `json:"sectors"`
	Weight     float64   `json:"weight"`
	Days       int       `json:"days"`
	ConfigHash string    `json:"config_hash,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RankingsResponse is the last sector ranking
type RankingsResponse struct {
	Rankings    []contracts.SectorScore `json:"rankings"`
	SectorCount int                     `json:"sector_count"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// GetSelection returns the symbols chosen for trading
// GET /api/selection
func (h *StrategyHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	st := h.source.State()
	if st == nil {
		respondError(w, http.StatusServiceUnavailable, "Strategy not initialized")
		return
	}

	respondJSON(w, http.StatusOK, SelectionResponse{
		Stocks:     st.Stocks,
		Sectors:    st.Sectors,
		Weight:     st.Weight,
		Days:       st.Days,
		ConfigHash: st.ConfigHash,
		UpdatedAt:  st.UpdatedAt,
	})
}

// GetRankings returns sector scores in rank order
// GET /api/rankings
func (h *StrategyHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	st := h.source.State()
	if st == nil {
		respondError(w, http.StatusServiceUnavailable, "Strategy not initialized")
		return
	}

	respondJSON(w, http.StatusOK, RankingsResponse{
		Rankings:    st.Rankings,
		SectorCount: st.SectorCount,
		UpdatedAt:   st.UpdatedAt,
	})
}

// GetLastRebalance returns the most recent rebalance result
// GET /api/rebalance/last
func (h *StrategyHandler) GetLastRebalance(w http.ResponseWriter, r *http.Request) {
	result := h.source.LastResult()
	if result == nil {
		respondError(w, http.StatusNotFound, "No rebalance yet")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
