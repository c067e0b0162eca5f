package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/graham/internal/audit"
	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/internal/execution/paper"
	"github.com/wonny/graham/internal/realtime/cache"
	"github.com/wonny/graham/internal/strategy"
	"github.com/wonny/graham/internal/symbols"
	"github.com/wonny/graham/pkg/logger"
)

type fakeHooks struct {
	before int
	bars   []strategy.Bar
	err    error
}

func (f *fakeHooks) BeforeTradingStart(ctx context.Context) error {
	f.before++
	return f.err
}

func (f *fakeHooks) HandleData(ctx context.Context, bar strategy.Bar) error {
	f.bars = append(f.bars, bar)
	return f.err
}

func TestHookJobs(t *testing.T) {
	hooks := &fakeHooks{}
	at := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	before := NewBeforeTradingStartJob(hooks, "0 0 9 * * MON-FRI")
	bar := NewHandleDataJob(hooks, "0 */30 10-15 * * MON-FRI", func() strategy.Bar {
		return strategy.Bar{Time: at}
	})

	assert.Equal(t, "before_trading_start", before.Name())
	assert.Equal(t, "0 0 9 * * MON-FRI", before.Schedule())
	assert.Equal(t, "handle_data", bar.Name())
	assert.Equal(t, "0 */30 9-15 * * MON-FRI", bar.Schedule())

	require.NoError(t, before.Run(context.Background()))
	require.NoError(t, bar.Run(context.Background()))

	assert.Equal(t, 1, hooks.before)
	require.Len(t, hooks.bars, 1)
	assert.Equal(t, at, hooks.bars[0].Time)

	hooks.err = errors.New("boom")
	assert.Error(t, before.Run(context.Background()))
	assert.Error(t, bar.Run(context.Background()))
}

type fakeSource struct {
	infos []contracts.SymbolInfo
	err   error
}

func (f *fakeSource) FetchSymbols(ctx context.Context) ([]contracts.SymbolInfo, error) {
	return f.infos, f.err
}

func TestSymbolRefreshJob(t *testing.T) {
	registry := symbols.NewRegistry(nil)
	source := &fakeSource{infos: []contracts.SymbolInfo{
		{Symbol: "XOM", Name: "Exxon Mobil", IsEnabled: true},
	}}
	job := NewSymbolRefreshJob(source, registry, "0 0 8 * * *", logger.NewNop())

	assert.Equal(t, "symbol_refresh", job.Name())
	require.NoError(t, job.Run(context.Background()))

	ok, err := registry.Contains("XOM")
	require.NoError(t, err)
	assert.True(t, ok)

	// 실패 시 기존 디렉터리 유지
	source.err = errors.New("provider down")
	assert.Error(t, job.Run(context.Background()))

	ok, err = registry.Contains("XOM")
	require.NoError(t, err)
	assert.True(t, ok)
}

type fixedQuotes struct{}

func (fixedQuotes) FetchQuotes(ctx context.Context, symbols []string) (map[string]contracts.Quote, error) {
	out := make(map[string]contracts.Quote)
	for _, s := range symbols {
		out[s] = contracts.Quote{LatestPrice: decimal.NewNullDecimal(decimal.NewFromInt(1))}
	}
	return out, nil
}

func TestCacheCleanupJob(t *testing.T) {
	quoteCache := cache.NewQuoteCache(fixedQuotes{}, time.Millisecond, logger.NewNop())
	_, err := quoteCache.FetchQuotes(context.Background(), []string{"XOM", "CVX"})
	require.NoError(t, err)
	require.Equal(t, 2, quoteCache.Len())

	time.Sleep(5 * time.Millisecond)

	job := NewCacheCleanupJob(quoteCache, logger.NewNop())
	assert.Equal(t, "cache_cleanup", job.Name())
	assert.Equal(t, "0 */5 * * * *", job.Schedule())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 0, quoteCache.Len())
}

type fixedAccount struct{}

func (fixedAccount) Snapshot() paper.Snapshot {
	return paper.Snapshot{Cash: 100, Value: 100}
}

type noSelection struct{}

func (noSelection) State() *strategy.State { return nil }

func TestSnapshotJob(t *testing.T) {
	store := audit.NewMemoryStore()
	recorder := audit.NewRecorder(store, fixedAccount{}, noSelection{}, logger.NewNop())
	job := NewSnapshotJob(recorder, "0 10 16 * * MON-FRI")

	assert.Equal(t, "daily_snapshot", job.Name())
	assert.Equal(t, "0 10 16 * * MON-FRI", job.Schedule())
	require.NoError(t, job.Run(context.Background()))

	history, err := store.GetSnapshotHistory(context.Background(), time.Time{}, time.Now())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 100.0, history[0].TotalValue)
}
