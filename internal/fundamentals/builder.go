package fundamentals

import (
	"context"
	"fmt"
	"sort"

	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/pkg/logger"
)

// Config holds builder settings
type Config struct {
	BatchSize int `yaml:"batch_size"` // 배치당 종목 수 (1 ~ 99)
}

// DefaultConfig returns the provider-limit batch size
func DefaultConfig() Config {
	return Config{BatchSize: contracts.MaxBatchSize}
}

// Builder turns a sector's raw provider data into a SectorTable
// ⭐ SSOT: 섹터 재무 지표 계산은 여기서만
type Builder struct {
	provider contracts.DataProvider
	config   Config
	logger   *logger.Logger
}

var _ contracts.SectorBuilder = (*Builder)(nil)

// NewBuilder creates a new Fundamentals Builder
func NewBuilder(provider contracts.DataProvider, config Config, log *logger.Logger) *Builder {
	return &Builder{
		provider: provider,
		config:   config,
		logger:   log,
	}
}

// batchSize clamps the configured size to 1..contracts.MaxBatchSize
func (b *Builder) batchSize() int {
	size := b.config.BatchSize
	if size < 1 || size > contracts.MaxBatchSize {
		return contracts.MaxBatchSize
	}
	return size
}

// Build fetches the sector and derives one row per symbol passing all guards.
// Batches are fetched one after another; any provider error aborts the sector.
func (b *Builder) Build(ctx context.Context, sector string) (*contracts.SectorTable, error) {
	members, err := b.provider.FetchSectorMembers(ctx, sector)
	if err != nil {
		return nil, fmt.Errorf("fetch sector members: %w", err)
	}
	if len(members) == 0 {
		return nil, &contracts.InvalidSectorError{Sector: sector}
	}

	// PE가 없는 종목은 배치 조회에서 제외
	symbols := make([]string, 0, len(members))
	for _, m := range members {
		if m.PERatio.Valid {
			symbols = append(symbols, m.Symbol)
		}
	}

	table := &contracts.SectorTable{
		Sector: sector,
		Rows:   make([]contracts.FundamentalRow, 0, len(symbols)),
	}
	skipped := make(map[string]int) // reason -> count

	size := b.batchSize()
	for start := 0; start < len(symbols); start += size {
		end := start + size
		if end > len(symbols) {
			end = len(symbols)
		}
		batch := symbols[start:end]

		financials, err := b.provider.FetchFinancials(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("fetch financials: %w", err)
		}
		quotes, err := b.provider.FetchQuotes(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("fetch quotes: %w", err)
		}
		stats, err := b.provider.FetchKeyStats(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("fetch key stats: %w", err)
		}

		rows, reasons := BuildRows(batch, financials, quotes, stats)
		table.Rows = append(table.Rows, rows...)
		for _, reason := range reasons {
			skipped[reason]++
		}
	}

	SortByMarketCap(table.Rows)

	b.logger.WithFields(map[string]interface{}{
		"sector":   sector,
		"members":  len(members),
		"with_pe":  len(symbols),
		"rows":     len(table.Rows),
		"skipped":  skipped,
		"batch_sz": size,
	}).Debug("Sector fundamentals built")

	return table, nil
}

// SortByMarketCap orders rows by market cap descending, keeping input order on ties
func SortByMarketCap(rows []contracts.FundamentalRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MarketCap > rows[j].MarketCap
	})
}
