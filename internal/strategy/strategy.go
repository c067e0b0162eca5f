package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/internal/execution"
	"github.com/wonny/graham/internal/fundamentals"
	"github.com/wonny/graham/internal/portfolio"
	"github.com/wonny/graham/internal/selection"
	"github.com/wonny/graham/internal/strategyconfig"
	"github.com/wonny/graham/pkg/logger"
)

// Settler is implemented by engines that fill orders on demand
type Settler interface {
	Settle(ctx context.Context) ([]contracts.Order, error)
}

// Strategy wires the pipeline stages to the host hooks
// ⭐ SSOT: 섹터 선택 → 리밸런싱 흐름 조율은 여기서만
type Strategy struct {
	config      *strategyconfig.Config
	configHash  string
	builder     contracts.SectorBuilder
	ranker      *selection.Ranker
	selector    *selection.Selector
	constructor *portfolio.Constructor
	rebalancer  *execution.Rebalancer
	engine      contracts.TradingEngine
	logger      *logger.Logger
	now         func() time.Time
}

// New builds every stage from the strategy config
func New(cfg *strategyconfig.Config, provider contracts.DataProvider, engine contracts.TradingEngine, log *logger.Logger) *Strategy {
	builder := fundamentals.NewBuilder(provider, fundamentals.Config{
		BatchSize: cfg.Fundamentals.BatchSize,
	}, log)

	return NewWithBuilder(cfg, builder, engine, log)
}

// NewWithBuilder uses a caller-supplied sector builder
func NewWithBuilder(cfg *strategyconfig.Config, builder contracts.SectorBuilder, engine contracts.TradingEngine, log *logger.Logger) *Strategy {
	screener := selection.NewScreener(selection.ScreenerConfig{
		MinQuickRatio: cfg.Screening.MinQuickRatio,
		MaxPERatio:    cfg.Screening.MaxPERatio,
		MaxPBRatio:    cfg.Screening.MaxPBRatio,
	}, log)

	ranker := selection.NewRanker(selection.RankerConfig{
		NumStocks: cfg.Ranking.NumStocks,
	}, screener, log)

	selector := selection.NewSelector(selection.SelectorConfig{
		NumSectorsToBuy: cfg.Selection.NumSectorsToBuy,
		NumStocks:       cfg.Ranking.NumStocks,
		DedupeSymbols:   cfg.Selection.DedupeSymbols,
	}, log)

	hash, err := strategyconfig.Hash(cfg)
	if err != nil {
		log.WithError(err).Warn("Failed to hash strategy config")
	}

	return &Strategy{
		config:      cfg,
		configHash:  hash,
		builder:     builder,
		ranker:      ranker,
		selector:    selector,
		constructor: portfolio.NewConstructor(log),
		rebalancer:  execution.NewRebalancer(engine, log),
		engine:      engine,
		logger:      log,
		now:         time.Now,
	}
}

// Initialize creates the state for a new run
func (s *Strategy) Initialize(ctx context.Context) *State {
	st := &State{
		Stocks:      make([]string, 0),
		Sectors:     make([]string, 0),
		Rankings:    make([]contracts.SectorScore, 0),
		SectorCount: len(s.config.Universe.Sectors),
		ConfigHash:  s.configHash,
		UpdatedAt:   s.now(),
	}

	s.logger.WithFields(map[string]interface{}{
		"strategy_id":  s.config.Meta.StrategyID,
		"sector_count": st.SectorCount,
		"config_hash":  s.configHash,
	}).Info("Strategy initialized")

	return st
}

// BeforeTradingStart recomputes the selection. On error the state is left unchanged.
func (s *Strategy) BeforeTradingStart(ctx context.Context, st *State) error {
	selectionSet, ranking, err := s.UpdateSelection(ctx)
	if err != nil {
		return err
	}

	st.Stocks = selectionSet.Symbols
	st.Sectors = selectionSet.Sectors
	st.Rankings = ranking.Scores
	st.Weight = portfolio.EqualWeight(selectionSet.Count())
	st.Days++
	st.UpdatedAt = s.now()

	s.logger.WithFields(map[string]interface{}{
		"days":    st.Days,
		"stocks":  len(st.Stocks),
		"sectors": st.Sectors,
		"weight":  st.Weight,
	}).Info("Selection updated")

	return nil
}

// UpdateSelection builds every configured sector, ranks and selects.
// The first sector error aborts the pass.
func (s *Strategy) UpdateSelection(ctx context.Context) (*contracts.SelectionSet, *contracts.Ranking, error) {
	tables := make([]*contracts.SectorTable, 0, len(s.config.Universe.Sectors))

	for _, sector := range s.config.Universe.Sectors {
		table, err := s.builder.Build(ctx, sector)
		if err != nil {
			return nil, nil, fmt.Errorf("build sector %s: %w", sector, err)
		}
		tables = append(tables, table)
	}

	ranking := s.ranker.Rank(tables)
	return s.selector.Select(ranking), ranking, nil
}

// HandleData runs one rebalance pass toward the current selection.
// Before the first successful selection the pass is skipped: an empty
// selection would otherwise close every held position.
func (s *Strategy) HandleData(ctx context.Context, st *State, bar Bar) (*execution.Result, error) {
	if st.Days == 0 {
		s.logger.WithField("bar", bar.Time).Warn("No selection yet, skipping rebalance")
		return &execution.Result{
			Skipped:   true,
			Closed:    make([]contracts.Order, 0),
			Submitted: make([]contracts.Order, 0),
		}, nil
	}

	if settler, ok := s.engine.(Settler); ok {
		if _, err := settler.Settle(ctx); err != nil {
			return nil, fmt.Errorf("settle orders: %w", err)
		}
	}

	target := s.constructor.Construct(st.Selection())

	result, err := s.rebalancer.Rebalance(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("rebalance at %s: %w", bar.Time.Format(time.RFC3339), err)
	}

	return result, nil
}
