package fundamentals

import (
	"math"

	"github.com/wonny/graham/internal/contracts"
)

// Skip reasons, in guard order
const (
	SkipNoStatements = "no_statements"
	SkipNoPrice      = "no_price"
	SkipNoAssets     = "no_assets"
	SkipNoShares     = "no_shares"
	SkipNoMarketCap  = "no_market_cap"
)

// Assemble collects one symbol's entries from the three batch responses
func Assemble(
	symbol string,
	financials map[string][]contracts.Statement,
	quotes map[string]contracts.Quote,
	stats map[string]contracts.KeyStats,
) contracts.RawSymbolRecord {
	return contracts.RawSymbolRecord{
		Symbol:     symbol,
		Statements: financials[symbol],
		Quote:      quotes[symbol],
		Stats:      stats[symbol],
	}
}

// BuildRows derives rows for symbols in order. The second result maps each
// skipped symbol to the first guard it failed. Pure: the same inputs always
// give the same output.
func BuildRows(
	symbols []string,
	financials map[string][]contracts.Statement,
	quotes map[string]contracts.Quote,
	stats map[string]contracts.KeyStats,
) ([]contracts.FundamentalRow, map[string]string) {
	rows := make([]contracts.FundamentalRow, 0, len(symbols))
	skipped := make(map[string]string)

	for _, symbol := range symbols {
		row, reason := BuildRow(Assemble(symbol, financials, quotes, stats))
		if reason != "" {
			skipped[symbol] = reason
			continue
		}
		rows = append(rows, row)
	}

	return rows, skipped
}

// BuildRow applies the validity guards in order and computes the ratios.
// Returns empty reason if the record passed, otherwise the guard name.
func BuildRow(rec contracts.RawSymbolRecord) (contracts.FundamentalRow, string) {
	// 1. 재무제표 없음 (거래정지 등)
	latest, ok := rec.LatestStatement()
	if !ok {
		return contracts.FundamentalRow{}, SkipNoStatements
	}

	// 2. 현재가 없음 (신규상장/상장폐지)
	if !rec.Quote.LatestPrice.Valid {
		return contracts.FundamentalRow{}, SkipNoPrice
	}

	// 3. 최근 재무제표 자산 누락
	if !latest.TotalAssets.Valid || !latest.CurrentAssets.Valid {
		return contracts.FundamentalRow{}, SkipNoAssets
	}

	// 4. 발행주식수 0
	if rec.Stats.SharesOutstanding == 0 {
		return contracts.FundamentalRow{}, SkipNoShares
	}

	// 5. 시가총액 없음
	if !rec.Quote.MarketCap.Valid || rec.Quote.MarketCap.Decimal.IsZero() {
		return contracts.FundamentalRow{}, SkipNoMarketCap
	}

	totalAssets := latest.TotalAssets.Decimal.InexactFloat64()
	bookValue := totalAssets
	if latest.TotalLiabilities.Valid && !latest.TotalLiabilities.Decimal.IsZero() {
		bookValue = totalAssets - latest.TotalLiabilities.Decimal.InexactFloat64()
	}
	bookValuePerShare := bookValue / float64(rec.Stats.SharesOutstanding)
	price := rec.Quote.LatestPrice.Decimal.InexactFloat64()

	quickRatio := contracts.QuickRatioSentinel
	if latest.CurrentDebt.Valid && !latest.CurrentDebt.Decimal.IsZero() {
		quickRatio = latest.CurrentAssets.Decimal.InexactFloat64() / latest.CurrentDebt.Decimal.InexactFloat64()
	}

	peRatio := math.NaN()
	if rec.Quote.PERatio.Valid {
		peRatio = rec.Quote.PERatio.Decimal.InexactFloat64()
	}

	return contracts.FundamentalRow{
		Symbol:            rec.Symbol,
		PBRatio:           price / bookValuePerShare,
		QuickRatio:        quickRatio,
		PERatio:           peRatio,
		MarketCap:         rec.Quote.MarketCap.Decimal.InexactFloat64(),
		SharesOutstanding: rec.Stats.SharesOutstanding,
	}, ""
}
