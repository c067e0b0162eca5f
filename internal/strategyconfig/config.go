package strategyconfig

import (
	"time"

	"github.com/wonny/graham/internal/contracts"
)

// Config는 Graham 섹터 가치 전략의 전체 설정
type Config struct {
	Meta         Meta         `yaml:"meta" json:"meta"`
	Universe     Universe     `yaml:"universe" json:"universe"`
	Fundamentals Fundamentals `yaml:"fundamentals" json:"fundamentals"`
	Screening    Screening    `yaml:"screening" json:"screening"`
	Ranking      Ranking      `yaml:"ranking" json:"ranking"`
	Selection    Selection    `yaml:"selection" json:"selection"`
}

// Meta 메타 정보
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Universe 평가 대상 섹터 (순서 = 동점 시 우선순위)
type Universe struct {
	Sectors []string `yaml:"sectors" json:"sectors"`
}

// Fundamentals 재무 데이터 수집
type Fundamentals struct {
	BatchSize int `yaml:"batch_size" json:"batch_size"` // 1 ~ 99
}

// Screening 가치 조건 (quick >= min, PE < max, P/B < max)
type Screening struct {
	MinQuickRatio float64 `yaml:"min_quick_ratio" json:"min_quick_ratio"`
	MaxPERatio    float64 `yaml:"max_pe_ratio" json:"max_pe_ratio"`
	MaxPBRatio    float64 `yaml:"max_pb_ratio" json:"max_pb_ratio"`
}

// Ranking 섹터 점수 계산
type Ranking struct {
	NumStocks int `yaml:"num_stocks" json:"num_stocks"` // 섹터별 시가총액 상위 N
}

// Selection 매수 섹터 선택
type Selection struct {
	NumSectorsToBuy int  `yaml:"num_sectors_to_buy" json:"num_sectors_to_buy"`
	DedupeSymbols   bool `yaml:"dedupe_symbols" json:"dedupe_symbols"`
}

// DecisionSnapshot records which config produced a selection
type DecisionSnapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml"`
	StrategyID string    `json:"strategy_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Default returns the classic parameters: 11 sectors, top 50, 2 sectors,
// quick >= 1, PE < 15, P/B < 1.5, batches of 99
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "graham_fundamentals",
			Version:    "1.0.0",
		},
		Universe: Universe{
			Sectors: append([]string(nil), contracts.Sectors...),
		},
		Fundamentals: Fundamentals{BatchSize: 99},
		Screening: Screening{
			MinQuickRatio: 1.0,
			MaxPERatio:    15.0,
			MaxPBRatio:    1.5,
		},
		Ranking: Ranking{NumStocks: 50},
		Selection: Selection{
			NumSectorsToBuy: 2,
			DedupeSymbols:   true,
		},
	}
}
