package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/wonny/graham/internal/audit"
	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/internal/execution/paper"
	"github.com/wonny/graham/internal/external"
	"github.com/wonny/graham/internal/external/iex"
	"github.com/wonny/graham/internal/external/yahoo"
	"github.com/wonny/graham/internal/realtime/cache"
	"github.com/wonny/graham/internal/strategyconfig"
	"github.com/wonny/graham/internal/symbols"
	"github.com/wonny/graham/pkg/config"
	"github.com/wonny/graham/pkg/database"
	"github.com/wonny/graham/pkg/httputil"
	"github.com/wonny/graham/pkg/logger"
	"github.com/wonny/graham/pkg/redis"
)

// deps holds everything the commands share
// ⭐ SSOT: 의존성 조립은 여기서만
type deps struct {
	cfg      *config.Config
	log      *logger.Logger
	strategy *strategyconfig.Config
	decision *strategyconfig.DecisionSnapshot
	iex      *iex.Client
	provider contracts.DataProvider
	quotes   *cache.QuoteCache

	redis *redis.Client
	db    *database.DB
}

// newDeps loads configuration and builds the provider stack
func newDeps(ctx context.Context) (*deps, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if strategyFile != "" {
		cfg.StrategyFile = strategyFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Strategy parameters
	strat, yamlData, err := loadStrategy(cfg.StrategyFile, log)
	if err != nil {
		return nil, err
	}
	if yamlData, err = applyOverrides(cfg, strat, yamlData); err != nil {
		return nil, err
	}
	decision, err := strategyconfig.NewDecisionSnapshot(strat, yamlData)
	if err != nil {
		return nil, fmt.Errorf("snapshot strategy config: %w", err)
	}

	// 4. Redis (optional, shared IEX budget)
	rdb, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// 5. Create HTTP client
	httpClient := httputil.NewWithTimeout(log, cfg.IEX.Timeout).WithRateLimit(cfg.IEX.RequestsPerSecond)
	if rdb.Enabled() && cfg.IEX.RequestsPerSecond > 0 {
		limiter := redis.NewRateLimiter(rdb, "graham")
		httpClient = httpClient.WithLimiter(limiter.Bound(redis.IEXRateLimit(cfg.IEX.RequestsPerSecond)))
	}

	// 6. Create provider
	iexClient := iex.NewClient(cfg.IEX, httpClient, log)
	var provider contracts.DataProvider = iexClient
	if cfg.Yahoo.Enabled {
		provider = &external.Composite{Primary: iexClient, Stats: yahoo.NewClient(log)}
	}

	log.WithFields(map[string]interface{}{
		"env":         cfg.Env,
		"strategy_id": strat.Meta.StrategyID,
		"config_hash": decision.ConfigHash,
		"batch_size":  strat.Fundamentals.BatchSize,
		"sectors":     len(strat.Universe.Sectors),
		"yahoo":       cfg.Yahoo.Enabled,
		"redis":       rdb.Enabled(),
	}).Info("Dependencies initialized")

	return &deps{
		cfg:      cfg,
		log:      log,
		strategy: strat,
		decision: decision,
		iex:      iexClient,
		provider: provider,
		redis:    rdb,
	}, nil
}

// loadStrategy reads the strategy YAML, falling back to defaults when the file is absent.
// The returned bytes are the YAML the config was read from.
func loadStrategy(path string, log *logger.Logger) (*strategyconfig.Config, []byte, error) {
	strat, data, err := strategyconfig.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		log.WithField("path", path).Warn("Strategy file not found, using defaults")
		strat = strategyconfig.Default()
		if data, err = strategyconfig.Marshal(strat); err != nil {
			return nil, nil, fmt.Errorf("render default strategy: %w", err)
		}
	} else if err != nil {
		return nil, nil, fmt.Errorf("load strategy %s: %w", path, err)
	}

	for _, w := range strategyconfig.Warn(strat) {
		log.WithFields(map[string]interface{}{
			"code": w.Code,
		}).Warn(w.Message)
	}

	return strat, data, nil
}

// applyOverrides applies env overrides to the strategy and returns the YAML
// of the effective config (re-rendered only when something changed)
func applyOverrides(cfg *config.Config, strat *strategyconfig.Config, yamlData []byte) ([]byte, error) {
	if cfg.IEX.BatchSize == 0 || cfg.IEX.BatchSize == strat.Fundamentals.BatchSize {
		return yamlData, nil
	}

	strat.Fundamentals.BatchSize = cfg.IEX.BatchSize
	if err := strategyconfig.Validate(strat); err != nil {
		return nil, fmt.Errorf("IEX_BATCH_SIZE override: %w", err)
	}

	data, err := strategyconfig.Marshal(strat)
	if err != nil {
		return nil, fmt.Errorf("render strategy: %w", err)
	}
	return data, nil
}

// database connects once; nil when DATABASE_URL is not set
func (d *deps) database(ctx context.Context) (*database.DB, error) {
	if d.db != nil || d.cfg.Database.URL == "" {
		return d.db, nil
	}

	db, err := database.New(ctx, d.cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	d.db = db

	d.log.Info("Connected to database")
	return db, nil
}

// ledger returns the Postgres ledger when DATABASE_URL is set, else memory
func (d *deps) ledger(ctx context.Context) (paper.Ledger, error) {
	db, err := d.database(ctx)
	if err != nil {
		return nil, err
	}
	if db == nil {
		d.log.Info("DATABASE_URL not set, paper ledger kept in memory")
		return paper.NewMemoryLedger(), nil
	}

	repo := paper.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure paper schema: %w", err)
	}
	return repo, nil
}

// auditStore returns the Postgres snapshot store when DATABASE_URL is set, else memory
func (d *deps) auditStore(ctx context.Context) (audit.Store, error) {
	db, err := d.database(ctx)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return audit.NewMemoryStore(), nil
	}

	repo := audit.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure audit schema: %w", err)
	}
	return repo, nil
}

// paperEngine builds the simulated engine, resolving symbols through registry
func (d *deps) paperEngine(ctx context.Context, registry *symbols.Registry) (*paper.Engine, error) {
	ledger, err := d.ledger(ctx)
	if err != nil {
		return nil, err
	}

	pcfg := paper.DefaultConfig()
	pcfg.StartingCash = d.cfg.Paper.StartingCash

	d.quotes = cache.NewQuoteCache(d.provider, d.cfg.Paper.QuoteTTL, d.log)

	engine, err := paper.NewEngine(ctx, pcfg, d.quotes, ledger, d.log)
	if err != nil {
		return nil, fmt.Errorf("create paper engine: %w", err)
	}
	if registry != nil && registry.Loaded() {
		engine.WithDirectory(registry)
	}
	return engine, nil
}

// loadSymbols builds the symbol registry. A failed load leaves it empty.
func (d *deps) loadSymbols(ctx context.Context) *symbols.Registry {
	registry := symbols.NewRegistry(nil)

	dir, err := symbols.Load(ctx, d.iex, d.log)
	if err != nil {
		d.log.WithError(err).Warn("Symbol directory unavailable")
		return registry
	}
	_ = registry.Replace(dir)
	return registry
}

// Close releases connections
func (d *deps) Close() {
	if d.db != nil {
		d.db.Close()
	}
	if d.redis != nil {
		_ = d.redis.Close()
	}
}
