package selection

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/pkg/logger"
)

func newTestRanker(numStocks int) *Ranker {
	log := logger.NewNop()
	return NewRanker(RankerConfig{NumStocks: numStocks}, NewScreener(DefaultScreenerConfig(), log), log)
}

// passing builds a row that passes the value screen
func passing(symbol string, marketCap, pe float64) contracts.FundamentalRow {
	return contracts.FundamentalRow{Symbol: symbol, MarketCap: marketCap, PERatio: pe, QuickRatio: 2, PBRatio: 1}
}

func sectorOrder(scores []contracts.SectorScore) []string {
	out := make([]string, len(scores))
	for i, s := range scores {
		out[i] = s.Sector
	}
	return out
}

func TestRank_EnergyScenario(t *testing.T) {
	energy := &contracts.SectorTable{
		Sector: "Energy",
		Rows: []contracts.FundamentalRow{
			passing("SML", 100, 20),
			passing("BIG", 500, 10),
			passing("MID", 300, 12),
		},
	}

	ranking := newTestRanker(50).Rank([]*contracts.SectorTable{energy})

	require.Len(t, ranking.Scores, 1)
	assert.Equal(t, 11.0, ranking.Scores[0].Score)
	assert.Equal(t, 2, ranking.Scores[0].Count)
	assert.Equal(t, []string{"BIG", "MID"}, ranking.Filtered["Energy"].Symbols())
}

func TestRank_TopNByMarketCap(t *testing.T) {
	table := &contracts.SectorTable{
		Sector: "Utilities",
		Rows: []contracts.FundamentalRow{
			passing("C", 100, 2),
			passing("A", 300, 10),
			passing("B", 200, 6),
		},
	}

	ranking := newTestRanker(2).Rank([]*contracts.SectorTable{table})

	// mean of A and B only
	assert.Equal(t, 8.0, ranking.Scores[0].Score)
}

func TestRank_OrderingAndNaN(t *testing.T) {
	tables := []*contracts.SectorTable{
		{Sector: "Basic Materials", Rows: nil},                                              // NaN
		{Sector: "Consumer Cyclical", Rows: []contracts.FundamentalRow{passing("A", 1, 8)}}, // 8
		{Sector: "Financial Services", Rows: []contracts.FundamentalRow{passing("B", 1, 12)}},
		{Sector: "Real Estate", Rows: []contracts.FundamentalRow{{Symbol: "X", MarketCap: 1, PERatio: 40, QuickRatio: 2, PBRatio: 1}}}, // screened out → NaN
		{Sector: "Consumer Defensive", Rows: []contracts.FundamentalRow{passing("C", 1, 8)}},                                           // tie with Consumer Cyclical
	}

	ranking := newTestRanker(50).Rank(tables)

	assert.Equal(t, []string{
		"Financial Services",
		"Consumer Cyclical",
		"Consumer Defensive",
		"Basic Materials",
		"Real Estate",
	}, sectorOrder(ranking.Scores))

	assert.True(t, math.IsNaN(ranking.Scores[3].Score))
	assert.True(t, math.IsNaN(ranking.Scores[4].Score))
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	table := &contracts.SectorTable{
		Sector: "Energy",
		Rows:   []contracts.FundamentalRow{passing("SML", 100, 10), passing("BIG", 500, 10)},
	}

	newTestRanker(50).Rank([]*contracts.SectorTable{table})

	assert.Equal(t, []string{"SML", "BIG"}, table.Symbols())
}

func TestRank_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 20; run++ {
		tables := make([]*contracts.SectorTable, len(contracts.Sectors))
		for i, sector := range contracts.Sectors {
			rows := make([]contracts.FundamentalRow, rng.Intn(6))
			for j := range rows {
				rows[j] = contracts.FundamentalRow{
					Symbol:     sector[:3] + string(rune('A'+j)),
					MarketCap:  float64(rng.Intn(5) * 100),
					PERatio:    float64(rng.Intn(20)),
					QuickRatio: float64(rng.Intn(3)),
					PBRatio:    rng.Float64() * 2,
				}
			}
			tables[i] = &contracts.SectorTable{Sector: sector, Rows: rows}
		}

		r := newTestRanker(3)
		first := r.Rank(tables)
		second := r.Rank(tables)

		assert.Equal(t, sectorOrder(first.Scores), sectorOrder(second.Scores))
		for sector, table := range first.Filtered {
			assert.Equal(t, table.Symbols(), second.Filtered[sector].Symbols())
		}
	}
}

func TestSortScores(t *testing.T) {
	scores := []contracts.SectorScore{
		{Sector: "a", Score: math.NaN(), Order: 0},
		{Sector: "b", Score: 5, Order: 1},
		{Sector: "c", Score: math.NaN(), Order: 2},
		{Sector: "d", Score: 9, Order: 3},
		{Sector: "e", Score: 5, Order: 4},
	}

	SortScores(scores)

	assert.Equal(t, []string{"d", "b", "e", "a", "c"}, sectorOrder(scores))
}
