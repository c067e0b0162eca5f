package selection

import (
	"math"
	"sort"

	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/internal/fundamentals"
	"github.com/wonny/graham/pkg/logger"
)

// Ranker scores each sector by the mean PE of its screened top-N rows
// ⭐ SSOT: 섹터 랭킹 로직은 여기서만
type Ranker struct {
	config   RankerConfig
	screener *Screener
	logger   *logger.Logger
}

// RankerConfig holds ranking settings
type RankerConfig struct {
	NumStocks int `yaml:"num_stocks"` // 섹터별 상위 N 종목 (시가총액 기준)
}

// DefaultRankerConfig returns top 50 by market cap
func DefaultRankerConfig() RankerConfig {
	return RankerConfig{NumStocks: 50}
}

// NewRanker creates a new ranker
func NewRanker(config RankerConfig, screener *Screener, logger *logger.Logger) *Ranker {
	return &Ranker{
		config:   config,
		screener: screener,
		logger:   logger,
	}
}

// Rank scores tables given in sector enumeration order.
// Higher mean PE ranks first. Ties keep enumeration order, and sectors
// with no screened rows (NaN score) always come after every numeric score.
func (r *Ranker) Rank(tables []*contracts.SectorTable) *contracts.Ranking {
	ranking := &contracts.Ranking{
		Scores:   make([]contracts.SectorScore, 0, len(tables)),
		Filtered: make(map[string]*contracts.SectorTable, len(tables)),
	}

	for i, table := range tables {
		sorted := &contracts.SectorTable{
			Sector: table.Sector,
			Rows:   append([]contracts.FundamentalRow(nil), table.Rows...),
		}
		fundamentals.SortByMarketCap(sorted.Rows)

		filtered := r.screener.Screen(sorted)
		ranking.Filtered[table.Sector] = filtered

		top := topRows(filtered.Rows, r.config.NumStocks)
		ranking.Scores = append(ranking.Scores, contracts.SectorScore{
			Sector: table.Sector,
			Score:  meanPE(top),
			Order:  i,
			Count:  len(top),
		})
	}

	SortScores(ranking.Scores)

	if len(ranking.Scores) > 0 {
		r.logger.WithFields(map[string]interface{}{
			"sectors":    len(ranking.Scores),
			"top_sector": ranking.Scores[0].Sector,
			"top_score":  scoreField(ranking.Scores[0].Score),
		}).Info("Ranking completed")
	}

	return ranking
}

// SortScores orders scores descending with NaN last, stable by Order
func SortScores(scores []contracts.SectorScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		aNaN, bNaN := math.IsNaN(a.Score), math.IsNaN(b.Score)
		switch {
		case aNaN && bNaN:
			return a.Order < b.Order
		case aNaN:
			return false
		case bNaN:
			return true
		case a.Score != b.Score:
			return a.Score > b.Score
		default:
			return a.Order < b.Order
		}
	})
}

func topRows(rows []contracts.FundamentalRow, n int) []contracts.FundamentalRow {
	if n < 0 {
		n = 0
	}
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

// meanPE returns NaN for an empty subset
func meanPE(rows []contracts.FundamentalRow) float64 {
	if len(rows) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, row := range rows {
		sum += row.PERatio
	}
	return sum / float64(len(rows))
}

// scoreField keeps NaN out of JSON log output
func scoreField(score float64) interface{} {
	if math.IsNaN(score) {
		return nil
	}
	return score
}
