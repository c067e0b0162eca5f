package fundamentals

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/graham/internal/contracts"
)

func validRecord() contracts.RawSymbolRecord {
	return contracts.RawSymbolRecord{
		Symbol:     "XOM",
		Statements: []contracts.Statement{statement(1000, 400, 300, 100)},
		Quote:      contracts.Quote{LatestPrice: num(3), MarketCap: num(300), PERatio: num(12)},
		Stats:      contracts.KeyStats{SharesOutstanding: 100},
	}
}

func TestBuildRow_Ratios(t *testing.T) {
	row, reason := BuildRow(validRecord())
	require.Empty(t, reason)

	assert.Equal(t, "XOM", row.Symbol)
	assert.InDelta(t, 0.5, row.PBRatio, 1e-12) // 3 / ((1000-400)/100)
	assert.InDelta(t, 3.0, row.QuickRatio, 1e-12)
	assert.Equal(t, 12.0, row.PERatio)
	assert.Equal(t, 300.0, row.MarketCap)
	assert.Equal(t, int64(100), row.SharesOutstanding)
}

func TestBuildRow_Liabilities(t *testing.T) {
	tests := []struct {
		name        string
		liabilities decimal.NullDecimal
		wantPB      float64
	}{
		{"present", num(400), 0.5},
		{"null", decimal.NullDecimal{}, 0.3},
		{"zero", num(0), 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			rec.Statements[0].TotalLiabilities = tt.liabilities

			row, reason := BuildRow(rec)
			require.Empty(t, reason)
			assert.InDelta(t, tt.wantPB, row.PBRatio, 1e-12)
		})
	}
}

func TestBuildRow_QuickRatioSentinel(t *testing.T) {
	tests := []struct {
		name string
		debt decimal.NullDecimal
	}{
		{"null debt", decimal.NullDecimal{}},
		{"zero debt", num(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			rec.Statements[0].CurrentDebt = tt.debt

			row, reason := BuildRow(rec)
			require.Empty(t, reason)
			assert.Equal(t, 2.0, row.QuickRatio)
			assert.Equal(t, contracts.QuickRatioSentinel, row.QuickRatio)
		})
	}
}

func TestBuildRow_Guards(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*contracts.RawSymbolRecord)
		want   string
	}{
		{
			name:   "no statements",
			mutate: func(r *contracts.RawSymbolRecord) { r.Statements = nil },
			want:   SkipNoStatements,
		},
		{
			name:   "null latest price",
			mutate: func(r *contracts.RawSymbolRecord) { r.Quote.LatestPrice = decimal.NullDecimal{} },
			want:   SkipNoPrice,
		},
		{
			name:   "null total assets",
			mutate: func(r *contracts.RawSymbolRecord) { r.Statements[0].TotalAssets = decimal.NullDecimal{} },
			want:   SkipNoAssets,
		},
		{
			name:   "null current assets",
			mutate: func(r *contracts.RawSymbolRecord) { r.Statements[0].CurrentAssets = decimal.NullDecimal{} },
			want:   SkipNoAssets,
		},
		{
			name:   "zero shares",
			mutate: func(r *contracts.RawSymbolRecord) { r.Stats.SharesOutstanding = 0 },
			want:   SkipNoShares,
		},
		{
			name:   "null market cap",
			mutate: func(r *contracts.RawSymbolRecord) { r.Quote.MarketCap = decimal.NullDecimal{} },
			want:   SkipNoMarketCap,
		},
		{
			name:   "zero market cap",
			mutate: func(r *contracts.RawSymbolRecord) { r.Quote.MarketCap = num(0) },
			want:   SkipNoMarketCap,
		},
		{
			name: "first failing guard wins",
			mutate: func(r *contracts.RawSymbolRecord) {
				r.Quote.LatestPrice = decimal.NullDecimal{}
				r.Stats.SharesOutstanding = 0
			},
			want: SkipNoPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)

			_, reason := BuildRow(rec)
			assert.Equal(t, tt.want, reason)

			// guard-failing symbol never appears in output
			rows, skipped := BuildRows([]string{rec.Symbol},
				map[string][]contracts.Statement{rec.Symbol: rec.Statements},
				map[string]contracts.Quote{rec.Symbol: rec.Quote},
				map[string]contracts.KeyStats{rec.Symbol: rec.Stats},
			)
			assert.Empty(t, rows)
			assert.Equal(t, tt.want, skipped[rec.Symbol])
		})
	}
}

func TestBuildRow_OnlyLatestStatementUsed(t *testing.T) {
	rec := validRecord()
	// an older statement with missing assets must not matter
	rec.Statements = append(rec.Statements, contracts.Statement{})

	_, reason := BuildRow(rec)
	assert.Empty(t, reason)

	// but a missing latest one does
	rec.Statements = []contracts.Statement{{}, statement(1000, 400, 300, 100)}
	_, reason = BuildRow(rec)
	assert.Equal(t, SkipNoAssets, reason)
}

func TestBuildRow_NullPE(t *testing.T) {
	rec := validRecord()
	rec.Quote.PERatio = decimal.NullDecimal{}

	row, reason := BuildRow(rec)
	require.Empty(t, reason)
	assert.True(t, math.IsNaN(row.PERatio))
}

func TestBuildRows_MissingEntries(t *testing.T) {
	// symbol absent from every response fails the first guard
	rows, skipped := BuildRows([]string{"GONE"}, nil, nil, nil)
	assert.Empty(t, rows)
	assert.Equal(t, SkipNoStatements, skipped["GONE"])
}

func TestBuildRows_Deterministic(t *testing.T) {
	symbols := []string{"A", "B", "C"}
	financials := map[string][]contracts.Statement{
		"A": {statement(1000, 400, 300, 100)},
		"B": {statement(2000, 0, 300, 0)},
		"C": {statement(500, 100, 50, 25)},
	}
	quotes := map[string]contracts.Quote{
		"A": {LatestPrice: num(3), MarketCap: num(300), PERatio: num(12)},
		"B": {LatestPrice: num(7), MarketCap: num(700), PERatio: num(9)},
		"C": {LatestPrice: num(1), MarketCap: num(100), PERatio: num(20)},
	}
	stats := map[string]contracts.KeyStats{"A": {SharesOutstanding: 100}, "B": {SharesOutstanding: 100}, "C": {SharesOutstanding: 100}}

	first, _ := BuildRows(symbols, financials, quotes, stats)
	second, _ := BuildRows(symbols, financials, quotes, stats)

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
}

func TestSortByMarketCap_Stable(t *testing.T) {
	rows := []contracts.FundamentalRow{
		{Symbol: "A", MarketCap: 100},
		{Symbol: "B", MarketCap: 300},
		{Symbol: "C", MarketCap: 100},
		{Symbol: "D", MarketCap: 500},
	}

	SortByMarketCap(rows)

	got := make([]string, len(rows))
	for i, r := range rows {
		got[i] = r.Symbol
	}
	assert.Equal(t, []string{"D", "B", "A", "C"}, got)
}
