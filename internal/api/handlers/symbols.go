package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/internal/symbols"
	"github.com/wonny/graham/pkg/logger"
)

// SymbolSearcher finds symbols by text
type SymbolSearcher interface {
	Search(query string, limit int) ([]contracts.SymbolInfo, error)
}

// SymbolHandler serves symbol search
type SymbolHandler struct {
	searcher SymbolSearcher
	logger   *logger.Logger
}

// NewSymbolHandler creates a new symbol handler
func NewSymbolHandler(searcher SymbolSearcher, log *logger.Logger) *SymbolHandler {
	return &SymbolHandler{searcher: searcher, logger: log}
}

// Search finds symbols by ticker or company name
// GET /api/symbols/search?q=...&limit=N
func (h *SymbolHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondError(w, http.StatusBadRequest, "Missing 'q' parameter")
		return
	}

	limit, ok := queryInt(r, "limit", symbols.DefaultSearchLimit)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid 'limit' (expected non-negative integer)")
		return
	}

	results, err := h.searcher.Search(q, limit)
	if errors.Is(err, symbols.ErrNotLoaded) {
		respondError(w, http.StatusServiceUnavailable, "Symbol directory not loaded")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Symbol search failed")
		respondError(w, http.StatusInternalServerError, "Symbol search failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   q,
		"results": results,
	})
}
