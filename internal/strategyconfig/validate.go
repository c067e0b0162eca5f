package strategyconfig

import (
	"fmt"

	"github.com/wonny/graham/internal/contracts"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Universe ===
	if len(cfg.Universe.Sectors) == 0 {
		return ValidationError{"universe.sectors", "must not be empty"}
	}
	seen := make(map[string]bool, len(cfg.Universe.Sectors))
	for i, sector := range cfg.Universe.Sectors {
		if sector == "" {
			return ValidationError{fmt.Sprintf("universe.sectors[%d]", i), "must not be empty"}
		}
		if seen[sector] {
			return ValidationError{fmt.Sprintf("universe.sectors[%d]", i), fmt.Sprintf("duplicate sector %q", sector)}
		}
		seen[sector] = true
	}

	// === Fundamentals ===
	if cfg.Fundamentals.BatchSize < 1 || cfg.Fundamentals.BatchSize > contracts.MaxBatchSize {
		return ValidationError{"fundamentals.batch_size", fmt.Sprintf("must be in [1, %d]", contracts.MaxBatchSize)}
	}

	// === Screening ===
	if cfg.Screening.MinQuickRatio < 0 {
		return ValidationError{"screening.min_quick_ratio", "must be >= 0"}
	}
	if cfg.Screening.MaxPERatio <= 0 {
		return ValidationError{"screening.max_pe_ratio", "must be > 0"}
	}
	if cfg.Screening.MaxPBRatio <= 0 {
		return ValidationError{"screening.max_pb_ratio", "must be > 0"}
	}

	// === Ranking / Selection ===
	if cfg.Ranking.NumStocks < 1 {
		return ValidationError{"ranking.num_stocks", "must be >= 1"}
	}
	if cfg.Selection.NumSectorsToBuy < 1 {
		return ValidationError{"selection.num_sectors_to_buy", "must be >= 1"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	// 제공자가 모르는 섹터는 실행 시 InvalidSectorError
	for _, sector := range cfg.Universe.Sectors {
		if !contracts.IsKnownSector(sector) {
			warnings = append(warnings, Warning{
				Code:    "UNKNOWN_SECTOR",
				Message: fmt.Sprintf("sector %q is not a known collection; the pass will fail on it", sector),
			})
		}
	}

	if cfg.Selection.NumSectorsToBuy > len(cfg.Universe.Sectors) {
		warnings = append(warnings, Warning{
			Code:    "SECTORS_EXCEED_UNIVERSE",
			Message: "num_sectors_to_buy > number of sectors: every ranked sector is bought",
		})
	}

	// 중복 허용 시 같은 종목에 주문이 두 번 나감
	if !cfg.Selection.DedupeSymbols {
		warnings = append(warnings, Warning{
			Code:    "DUPLICATE_SYMBOLS",
			Message: "dedupe_symbols off: a symbol in two sectors is ordered twice at the same weight",
		})
	}

	if cfg.Fundamentals.BatchSize < contracts.MaxBatchSize {
		warnings = append(warnings, Warning{
			Code:    "SMALL_BATCH",
			Message: fmt.Sprintf("batch_size %d < %d: more provider requests per sector", cfg.Fundamentals.BatchSize, contracts.MaxBatchSize),
		})
	}

	return warnings
}
