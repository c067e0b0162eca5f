package contracts

import "time"

// TargetPortfolio is the equally weighted target built from a SelectionSet
// ⭐ SSOT: Weighting → Rebalancer 목표 포트폴리오 전달
type TargetPortfolio struct {
	Date      time.Time        `json:"date"`
	Weight    float64          `json:"weight"` // 1/n, 0 when nothing is selected
	Positions []TargetPosition `json:"positions"`
}

// TargetPosition is one selected symbol with its target weight
// ⭐ 계약: Portfolio는 비중만 산출, 수량 계산은 엔진이 담당
type TargetPosition struct {
	Symbol string  `json:"symbol"`
	Weight float64 `json:"weight"` // 목표 비중 (0.0 ~ 1.0)
}

// TotalWeight returns the sum of all position weights
func (tp *TargetPortfolio) TotalWeight() float64 {
	total := 0.0
	for _, pos := range tp.Positions {
		total += pos.Weight
	}
	return total
}

// Count returns the number of positions
func (tp *TargetPortfolio) Count() int {
	return len(tp.Positions)
}

// Symbols returns the position symbols in order
func (tp *TargetPortfolio) Symbols() []string {
	symbols := make([]string, len(tp.Positions))
	for i, pos := range tp.Positions {
		symbols[i] = pos.Symbol
	}
	return symbols
}

// GetPosition finds a position by symbol
func (tp *TargetPortfolio) GetPosition(symbol string) (*TargetPosition, bool) {
	for i := range tp.Positions {
		if tp.Positions[i].Symbol == symbol {
			return &tp.Positions[i], true
		}
	}
	return nil, false
}
