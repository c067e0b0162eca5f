package contracts

import "github.com/shopspring/decimal"

// SectorMember is one entry of a sector collection
// ⭐ SSOT: 섹터 구성 종목 (PE가 없으면 배치 조회에서 제외)
type SectorMember struct {
	Symbol  string              `json:"symbol"`
	PERatio decimal.NullDecimal `json:"peRatio"`
}

// Statement is one reported balance sheet, most recent first
type Statement struct {
	TotalAssets      decimal.NullDecimal `json:"totalAssets"`
	TotalLiabilities decimal.NullDecimal `json:"totalLiabilities"`
	CurrentAssets    decimal.NullDecimal `json:"currentAssets"`
	CurrentDebt      decimal.NullDecimal `json:"currentDebt"`
}

// Quote carries the price fields used for screening
type Quote struct {
	LatestPrice decimal.NullDecimal `json:"latestPrice"`
	MarketCap   decimal.NullDecimal `json:"marketCap"`
	PERatio     decimal.NullDecimal `json:"peRatio"`
}

// KeyStats carries the share count
type KeyStats struct {
	SharesOutstanding int64 `json:"sharesOutstanding"`
}

// RawSymbolRecord is one equity's snapshot assembled from a batch.
// Missing provider entries leave the zero value (no statements, null quote fields, zero shares).
type RawSymbolRecord struct {
	Symbol     string      `json:"symbol"`
	Statements []Statement `json:"statements"`
	Quote      Quote       `json:"quote"`
	Stats      KeyStats    `json:"stats"`
}

// LatestStatement returns the most recent statement, if any
func (r *RawSymbolRecord) LatestStatement() (Statement, bool) {
	if len(r.Statements) == 0 {
		return Statement{}, false
	}
	return r.Statements[0], true
}

// MaxBatchSize is the provider's limit on symbols per batch request
const MaxBatchSize = 99

// SymbolInfo is one row of the provider's symbol directory
type SymbolInfo struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Exchange  string `json:"exchange"`
	Type      string `json:"type"`
	IsEnabled bool   `json:"isEnabled"`
}
