package iex

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/graham/internal/contracts"
)

// collectionEntry is one quote of /stock/market/collection/sector.
// Only the fields the builder needs are decoded.
type collectionEntry struct {
	Symbol  string              `json:"symbol"`
	PERatio decimal.NullDecimal `json:"peRatio"`
}

// financialsPayload is the "financials" batch type
type financialsPayload struct {
	Symbol     string          `json:"symbol"`
	Financials []statementJSON `json:"financials"`
}

type statementJSON struct {
	ReportDate       string              `json:"reportDate"`
	TotalAssets      decimal.NullDecimal `json:"totalAssets"`
	TotalLiabilities decimal.NullDecimal `json:"totalLiabilities"`
	CurrentAssets    decimal.NullDecimal `json:"currentAssets"`
	CurrentDebt      decimal.NullDecimal `json:"currentDebt"`
}

type quoteJSON struct {
	Symbol      string              `json:"symbol"`
	LatestPrice decimal.NullDecimal `json:"latestPrice"`
	MarketCap   decimal.NullDecimal `json:"marketCap"`
	PERatio     decimal.NullDecimal `json:"peRatio"`
}

// statsJSON decodes sharesOutstanding as a decimal since IEX
// sometimes sends it in exponent form
type statsJSON struct {
	SharesOutstanding decimal.NullDecimal `json:"sharesOutstanding"`
}

// batchEntry is one symbol's value in a /stock/market/batch response
type batchEntry struct {
	Financials *financialsPayload `json:"financials,omitempty"`
	Quote      *quoteJSON         `json:"quote,omitempty"`
	Stats      *statsJSON         `json:"stats,omitempty"`
}

type symbolJSON struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Exchange  string `json:"exchange"`
	Type      string `json:"type"`
	IsEnabled bool   `json:"isEnabled"`
}

func (s statementJSON) toContract() contracts.Statement {
	return contracts.Statement{
		TotalAssets:      s.TotalAssets,
		TotalLiabilities: s.TotalLiabilities,
		CurrentAssets:    s.CurrentAssets,
		CurrentDebt:      s.CurrentDebt,
	}
}

func (q quoteJSON) toContract() contracts.Quote {
	return contracts.Quote{
		LatestPrice: q.LatestPrice,
		MarketCap:   q.MarketCap,
		PERatio:     q.PERatio,
	}
}

func (s statsJSON) toContract() contracts.KeyStats {
	if !s.SharesOutstanding.Valid {
		return contracts.KeyStats{}
	}
	return contracts.KeyStats{SharesOutstanding: s.SharesOutstanding.Decimal.IntPart()}
}
