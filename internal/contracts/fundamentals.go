package contracts

// QuickRatioSentinel is used when current debt is absent or zero.
// Only "quick ratio >= 1" is ever tested, so any value above 1 works.
const QuickRatioSentinel = 2.0

// FundamentalRow holds the derived metrics of one symbol in one sector
// ⭐ SSOT: Fundamentals Builder → Ranker 전달
type FundamentalRow struct {
	Symbol            string  `json:"symbol"`
	PBRatio           float64 `json:"pb_ratio"`
	QuickRatio        float64 `json:"quick_ratio"`
	PERatio           float64 `json:"pe_ratio"` // NaN when the quote had no PE
	MarketCap         float64 `json:"market_cap"`
	SharesOutstanding int64   `json:"shares_outstanding"`
}

// SectorTable is the set of rows for one sector, ordered by market cap descending
type SectorTable struct {
	Sector string           `json:"sector"`
	Rows   []FundamentalRow `json:"rows"`
}

// Symbols returns the row symbols in table order
func (t *SectorTable) Symbols() []string {
	symbols := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		symbols[i] = row.Symbol
	}
	return symbols
}

// Len returns the number of rows
func (t *SectorTable) Len() int {
	return len(t.Rows)
}
