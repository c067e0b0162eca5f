package execution

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/graham/internal/contracts"
)

// DryRunEngine records target-percent requests without trading.
// Holdings are whatever the caller seeds; they never change.
type DryRunEngine struct {
	positions map[string]int64
	requests  []contracts.Order
	now       func() time.Time
}

var _ contracts.TradingEngine = (*DryRunEngine)(nil)

// NewDryRunEngine creates a dry-run engine holding positions
func NewDryRunEngine(positions map[string]int64) *DryRunEngine {
	held := make(map[string]int64, len(positions))
	for k, v := range positions {
		held[k] = v
	}
	return &DryRunEngine{
		positions: held,
		now:       time.Now,
	}
}

// CurrentPositions returns the seeded holdings
func (e *DryRunEngine) CurrentPositions(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(e.positions))
	for k, v := range e.positions {
		out[k] = v
	}
	return out, nil
}

// CurrentOpenOrders returns every recorded request
func (e *DryRunEngine) CurrentOpenOrders(ctx context.Context) ([]contracts.Order, error) {
	return append([]contracts.Order(nil), e.requests...), nil
}

// SubmitTargetPercentOrder records the request as an open order with no quantity
func (e *DryRunEngine) SubmitTargetPercentOrder(ctx context.Context, symbol string, targetWeight float64) (*contracts.Order, error) {
	side := contracts.OrderSideBuy
	if targetWeight == 0 {
		side = contracts.OrderSideSell
	}

	order := contracts.Order{
		ID:           fmt.Sprintf("DRY-%03d", len(e.requests)+1),
		Symbol:       symbol,
		Side:         side,
		TargetWeight: targetWeight,
		OrderType:    contracts.OrderTypeMarket,
		Status:       contracts.StatusSubmitted,
		CreatedAt:    e.now(),
		UpdatedAt:    e.now(),
	}
	e.requests = append(e.requests, order)

	return &order, nil
}

// ResolveSymbol upper-cases the ticker
func (e *DryRunEngine) ResolveSymbol(ctx context.Context, ticker string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return "", fmt.Errorf("empty ticker")
	}
	return symbol, nil
}

// Requests returns the recorded requests in submission order
func (e *DryRunEngine) Requests() []contracts.Order {
	return append([]contracts.Order(nil), e.requests...)
}
