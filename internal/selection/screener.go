package selection

import (
	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/pkg/logger"
)

// Screener applies the Graham value screen to a sector table
// ⭐ SSOT: 가치 스크리닝 조건은 여기서만
type Screener struct {
	config ScreenerConfig
	logger *logger.Logger
}

// ScreenerConfig defines the value screen thresholds
// SSOT: config/strategy/graham_fundamentals.yaml screening
type ScreenerConfig struct {
	MinQuickRatio float64 `yaml:"min_quick_ratio"` // 당좌비율 하한 (이상)
	MaxPERatio    float64 `yaml:"max_pe_ratio"`    // PER 상한 (미만)
	MaxPBRatio    float64 `yaml:"max_pb_ratio"`    // PBR 상한 (미만)
}

// DefaultScreenerConfig returns quick >= 1, PE < 15, P/B < 1.5
func DefaultScreenerConfig() ScreenerConfig {
	return ScreenerConfig{
		MinQuickRatio: 1.0,
		MaxPERatio:    15.0,
		MaxPBRatio:    1.5,
	}
}

// NewScreener creates a new screener
func NewScreener(config ScreenerConfig, logger *logger.Logger) *Screener {
	return &Screener{
		config: config,
		logger: logger,
	}
}

// Screen returns a new table with the passing rows, order preserved
func (s *Screener) Screen(table *contracts.SectorTable) *contracts.SectorTable {
	passed := &contracts.SectorTable{
		Sector: table.Sector,
		Rows:   make([]contracts.FundamentalRow, 0, len(table.Rows)),
	}
	filtered := make(map[string]int) // Filter name -> count

	for _, row := range table.Rows {
		reason := s.checkConditions(row)
		if reason == "" {
			passed.Rows = append(passed.Rows, row)
		} else {
			filtered[reason]++
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"sector":       table.Sector,
		"total_input":  len(table.Rows),
		"passed":       len(passed.Rows),
		"filtered_out": len(table.Rows) - len(passed.Rows),
		"filters":      filtered,
	}).Debug("Screening completed")

	return passed
}

// checkConditions checks if a row passes all conditions
// Returns empty string if passed, otherwise returns filter name.
// A NaN ratio fails every comparison and is therefore filtered.
func (s *Screener) checkConditions(row contracts.FundamentalRow) string {
	if !(row.QuickRatio >= s.config.MinQuickRatio) {
		return "quick_ratio"
	}

	if !(row.PERatio < s.config.MaxPERatio) {
		return "pe_ratio"
	}

	if !(row.PBRatio < s.config.MaxPBRatio) {
		return "pb_ratio"
	}

	return ""
}
