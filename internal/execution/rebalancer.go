package execution

import (
	"context"
	"fmt"
	"sort"

	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/pkg/logger"
)

// Rebalancer moves the engine's holdings to the target portfolio
// ⭐ SSOT: 리밸런싱 주문 제출은 여기서만
type Rebalancer struct {
	engine contracts.TradingEngine
	logger *logger.Logger
}

// Result summarizes one rebalance pass
type Result struct {
	Skipped    bool              `json:"skipped,omitempty"` // 선택 전이라 주문 없음
	Closed     []contracts.Order `json:"closed"`
	Submitted  []contracts.Order `json:"submitted"`
	OpenOrders []contracts.Order `json:"open_orders"`
}

// NewRebalancer creates a new rebalancer
func NewRebalancer(engine contracts.TradingEngine, logger *logger.Logger) *Rebalancer {
	return &Rebalancer{
		engine: engine,
		logger: logger,
	}
}

// Rebalance resolves the target tickers, closes positions outside them, then
// orders every target symbol to the target weight. Any engine error stops the
// pass and is returned; orders already submitted stay submitted.
func (r *Rebalancer) Rebalance(ctx context.Context, target *contracts.TargetPortfolio) (*Result, error) {
	result := &Result{
		Closed:    make([]contracts.Order, 0),
		Submitted: make([]contracts.Order, 0),
	}

	positions, err := r.engine.CurrentPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("get current positions: %w", err)
	}

	// 엔진 심볼로 먼저 변환: 보유 종목과 같은 이름으로 비교
	resolved := make([]string, 0, target.Count())
	selected := make(map[string]bool, target.Count())
	for _, pos := range target.Positions {
		symbol, err := r.engine.ResolveSymbol(ctx, pos.Symbol)
		if err != nil {
			return nil, fmt.Errorf("resolve symbol %s: %w", pos.Symbol, err)
		}
		resolved = append(resolved, symbol)
		selected[symbol] = true
	}

	// 1. 매도 먼저: 목표에 없는 보유 종목 청산
	for _, symbol := range sortedSymbols(positions) {
		if selected[symbol] {
			continue
		}

		order, err := r.engine.SubmitTargetPercentOrder(ctx, symbol, 0)
		if err != nil {
			return nil, fmt.Errorf("close position %s: %w", symbol, err)
		}
		if order != nil {
			result.Closed = append(result.Closed, *order)
		}

		r.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"qty":    positions[symbol],
		}).Info("Closing position")
	}

	// 2. 매수: 동일 비중 (비중 0이면 주문 없음)
	if target.Weight != 0 {
		for _, symbol := range resolved {
			order, err := r.engine.SubmitTargetPercentOrder(ctx, symbol, target.Weight)
			if err != nil {
				return nil, fmt.Errorf("order %s to %.4f: %w", symbol, target.Weight, err)
			}
			if order != nil {
				result.Submitted = append(result.Submitted, *order)
			}

			r.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"weight": target.Weight,
			}).Info("Ordering to target weight")
		}
	}

	// 3. 미체결 주문 확인 (로그용)
	open, err := r.engine.CurrentOpenOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("get open orders: %w", err)
	}
	result.OpenOrders = open

	r.logger.WithFields(map[string]interface{}{
		"closed":      len(result.Closed),
		"submitted":   len(result.Submitted),
		"open_orders": len(open),
	}).Info("Rebalance completed")

	for _, o := range open {
		r.logger.WithFields(map[string]interface{}{
			"order_id": o.ID,
			"symbol":   o.Symbol,
			"side":     o.Side,
			"qty":      o.Qty,
		}).Debug("Open order")
	}

	return result, nil
}

func sortedSymbols(positions map[string]int64) []string {
	symbols := make([]string, 0, len(positions))
	for symbol := range positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
