package portfolio

import (
	"time"

	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/pkg/logger"
)

// Constructor turns a SelectionSet into an equally weighted target
// ⭐ SSOT: 목표 비중 계산은 여기서만
type Constructor struct {
	logger *logger.Logger
	now    func() time.Time
}

// NewConstructor creates a new portfolio constructor
func NewConstructor(logger *logger.Logger) *Constructor {
	return &Constructor{
		logger: logger,
		now:    time.Now,
	}
}

// EqualWeight returns 1/n, or 0 when nothing is selected
func EqualWeight(n int) float64 {
	if n <= 0 {
		return 0
	}
	return 1.0 / float64(n)
}

// Construct assigns every selected symbol the same weight.
// An empty selection gives weight 0 and no positions; that is not an error.
func (c *Constructor) Construct(selection *contracts.SelectionSet) *contracts.TargetPortfolio {
	weight := EqualWeight(selection.Count())

	target := &contracts.TargetPortfolio{
		Date:      c.now(),
		Weight:    weight,
		Positions: make([]contracts.TargetPosition, 0, selection.Count()),
	}

	if selection != nil {
		for _, symbol := range selection.Symbols {
			target.Positions = append(target.Positions, contracts.TargetPosition{
				Symbol: symbol,
				Weight: weight,
			})
		}
	}

	if len(target.Positions) == 0 {
		c.logger.Warn("No stocks selected for portfolio")
	}

	c.logger.WithFields(map[string]interface{}{
		"positions":    len(target.Positions),
		"weight":       target.Weight,
		"total_weight": target.TotalWeight(),
	}).Info("Portfolio constructed")

	return target
}
