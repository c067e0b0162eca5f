package selection

import (
	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/pkg/logger"
)

// Selector picks the top sectors and their top symbols
// ⭐ SSOT: 매수 종목 선정은 여기서만
type Selector struct {
	config SelectorConfig
	logger *logger.Logger
}

// SelectorConfig holds selection settings
type SelectorConfig struct {
	NumSectorsToBuy int  `yaml:"num_sectors_to_buy"` // 매수 섹터 수
	NumStocks       int  `yaml:"num_stocks"`         // 섹터별 종목 수
	DedupeSymbols   bool `yaml:"dedupe_symbols"`     // 섹터 간 중복 종목 제거
}

// DefaultSelectorConfig returns 2 sectors × 50 stocks with dedupe on
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		NumSectorsToBuy: 2,
		NumStocks:       50,
		DedupeSymbols:   true,
	}
}

// NewSelector creates a new selector
func NewSelector(config SelectorConfig, logger *logger.Logger) *Selector {
	return &Selector{
		config: config,
		logger: logger,
	}
}

// Select concatenates the first NumStocks symbols of each top sector.
// With DedupeSymbols a symbol already taken from a higher-ranked sector is skipped.
func (s *Selector) Select(ranking *contracts.Ranking) *contracts.SelectionSet {
	set := &contracts.SelectionSet{
		Symbols: make([]string, 0),
		Sectors: make([]string, 0),
	}
	seen := make(map[string]bool)

	for _, score := range ranking.Top(s.config.NumSectorsToBuy) {
		table := ranking.Filtered[score.Sector]
		symbols := []string{}
		if table != nil {
			symbols = table.Symbols()
		}
		symbols = topSymbols(symbols, s.config.NumStocks)

		s.logger.WithFields(map[string]interface{}{
			"sector":  score.Sector,
			"score":   scoreField(score.Score),
			"symbols": len(symbols),
		}).Info("Adding sector to the order")

		set.Sectors = append(set.Sectors, score.Sector)
		for _, symbol := range symbols {
			if s.config.DedupeSymbols {
				if seen[symbol] {
					continue
				}
				seen[symbol] = true
			}
			set.Symbols = append(set.Symbols, symbol)
		}
	}

	return set
}

func topSymbols(symbols []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if len(symbols) > n {
		return symbols[:n]
	}
	return symbols
}
