package handlers

import (
	"net/http"

	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/internal/execution/paper"
	"github.com/wonny/graham/pkg/logger"
)

// defaultOrderLimit bounds /api/orders without ?limit
const defaultOrderLimit = 100

// AccountSource exposes the simulated account
type AccountSource interface {
	Snapshot() paper.Snapshot
	Orders(limit int) []contracts.Order
}

// AccountHandler serves positions and orders
type AccountHandler struct {
	account AccountSource
	logger  *logger.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(account AccountSource, log *logger.Logger) *AccountHandler {
	return &AccountHandler{account: account, logger: log}
}

// GetPositions returns cash, value and holdings
// GET /api/positions
func (h *AccountHandler) GetPositions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.account.Snapshot())
}

// GetOrders returns recent orders, oldest first
// GET /api/orders?limit=N (0 = all)
func (h *AccountHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", defaultOrderLimit)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid 'limit' (expected non-negative integer)")
		return
	}

	orders := h.account.Orders(limit)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	})
}
