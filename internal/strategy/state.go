package strategy

import (
	"time"

	"github.com/wonny/graham/internal/contracts"
)

// State is carried between hooks: created by Initialize, replaced by
// BeforeTradingStart, read by HandleData
type State struct {
	Stocks      []string                `json:"stocks"`
	Sectors     []string                `json:"sectors"`
	Rankings    []contracts.SectorScore `json:"rankings"`
	Weight      float64                 `json:"weight"`
	Days        int                     `json:"days"`         // BeforeTradingStart 실행 횟수
	SectorCount int                     `json:"sector_count"` // 평가 대상 섹터 수
	ConfigHash  string                  `json:"config_hash,omitempty"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// Bar is one market data tick from the host runtime
type Bar struct {
	Time time.Time `json:"time"`
}

// Selection returns the symbols chosen for the trading phase
func (s *State) Selection() *contracts.SelectionSet {
	return &contracts.SelectionSet{
		Symbols: s.Stocks,
		Sectors: s.Sectors,
	}
}

// Clone returns a deep copy
func (s *State) Clone() *State {
	c := *s
	c.Stocks = append([]string(nil), s.Stocks...)
	c.Sectors = append([]string(nil), s.Sectors...)
	c.Rankings = append([]contracts.SectorScore(nil), s.Rankings...)
	return &c
}
