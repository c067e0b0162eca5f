package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/graham/internal/audit"
	"github.com/wonny/graham/internal/realtime/cache"
	"github.com/wonny/graham/internal/symbols"
	"github.com/wonny/graham/pkg/logger"
)

// SymbolRefreshJob reloads the symbol directory
type SymbolRefreshJob struct {
	source   symbols.Source
	registry *symbols.Registry
	schedule string
	logger   *logger.Logger
}

// NewSymbolRefreshJob creates a new symbol refresh job
func NewSymbolRefreshJob(source symbols.Source, registry *symbols.Registry, schedule string, log *logger.Logger) *SymbolRefreshJob {
	return &SymbolRefreshJob{
		source:   source,
		registry: registry,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *SymbolRefreshJob) Name() string {
	return "symbol_refresh"
}

// Schedule returns the cron schedule
func (j *SymbolRefreshJob) Schedule() string {
	return j.schedule
}

// Run reloads and swaps the directory; on failure the old one stays
func (j *SymbolRefreshJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled symbol refresh")

	d, err := symbols.Load(ctx, j.source, j.logger)
	if err != nil {
		return err
	}

	if err := j.registry.Replace(d); err != nil {
		return fmt.Errorf("close previous directory: %w", err)
	}

	return nil
}

// CacheCleanupJob drops stale quotes from the quote cache
type CacheCleanupJob struct {
	cache  *cache.QuoteCache
	logger *logger.Logger
}

// NewCacheCleanupJob creates a new cache cleanup job
func NewCacheCleanupJob(quoteCache *cache.QuoteCache, log *logger.Logger) *CacheCleanupJob {
	return &CacheCleanupJob{
		cache:  quoteCache,
		logger: log,
	}
}

// Name returns the job name
func (j *CacheCleanupJob) Name() string {
	return "cache_cleanup"
}

// Schedule returns the cron schedule (every 5 minutes)
func (j *CacheCleanupJob) Schedule() string {
	return "0 */5 * * * *"
}

// Run executes the cache cleanup
func (j *CacheCleanupJob) Run(ctx context.Context) error {
	count := j.cache.CleanStale()

	if count > 0 {
		j.logger.WithField("removed", count).Info("Cache cleanup completed")
	}

	return nil
}

// SnapshotJob records the end-of-day account snapshot
type SnapshotJob struct {
	recorder *audit.Recorder
	schedule string
}

// NewSnapshotJob creates a new daily snapshot job
func NewSnapshotJob(recorder *audit.Recorder, schedule string) *SnapshotJob {
	return &SnapshotJob{recorder: recorder, schedule: schedule}
}

// Name returns the job name
func (j *SnapshotJob) Name() string {
	return "daily_snapshot"
}

// Schedule returns the cron schedule
func (j *SnapshotJob) Schedule() string {
	return j.schedule
}

// Run records today's snapshot
func (j *SnapshotJob) Run(ctx context.Context) error {
	_, err := j.recorder.Record(ctx)
	return err
}
