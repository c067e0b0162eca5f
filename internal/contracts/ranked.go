package contracts

import (
	"encoding/json"
	"math"
)

// SectorScore is a sector with its mean PE of the screened top-N rows
// ⭐ SSOT: Ranker → Selector 섹터 점수 전달
type SectorScore struct {
	Sector string  `json:"sector"`
	Score  float64 `json:"score"` // NaN when no row passed the value screen
	Order  int     `json:"order"` // position in the sector enumeration
	Count  int     `json:"count"` // rows that contributed to the score
}

// Defined reports whether the score is a number
func (s *SectorScore) Defined() bool {
	return !math.IsNaN(s.Score)
}

// MarshalJSON writes a NaN score as null
func (s SectorScore) MarshalJSON() ([]byte, error) {
	type alias SectorScore
	var score *float64
	if s.Defined() {
		v := s.Score
		score = &v
	}
	return json.Marshal(struct {
		alias
		Score *float64 `json:"score"`
	}{alias(s), score})
}

// Ranking is the ranker output: scores in rank order plus the screened tables
type Ranking struct {
	Scores   []SectorScore           `json:"scores"`
	Filtered map[string]*SectorTable `json:"-"` // sector → screened, cap-sorted table
}

// Top returns the first n sector scores (all of them if n exceeds the length)
func (r *Ranking) Top(n int) []SectorScore {
	if n < 0 {
		n = 0
	}
	if n > len(r.Scores) {
		n = len(r.Scores)
	}
	return r.Scores[:n]
}

// SelectionSet is the list of symbols chosen for the trading phase
type SelectionSet struct {
	Symbols []string `json:"symbols"`
	Sectors []string `json:"sectors"`
}

// Contains checks if a symbol is selected
func (s *SelectionSet) Contains(symbol string) bool {
	for _, sym := range s.Symbols {
		if sym == symbol {
			return true
		}
	}
	return false
}

// Count returns the number of selected symbols
func (s *SelectionSet) Count() int {
	if s == nil {
		return 0
	}
	return len(s.Symbols)
}
