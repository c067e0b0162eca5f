package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/graham/internal/execution/paper"
	"github.com/wonny/graham/internal/strategy"
	"github.com/wonny/graham/internal/strategyconfig"
	"github.com/wonny/graham/pkg/logger"
)

type fakeAccount struct {
	snap paper.Snapshot
}

func (f *fakeAccount) Snapshot() paper.Snapshot { return f.snap }

type fakeSelection struct {
	state *strategy.State
}

func (f *fakeSelection) State() *strategy.State { return f.state }

func TestRecorder_Record(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	account := &fakeAccount{snap: paper.Snapshot{
		Cash:  5000,
		Value: 10000,
		Positions: []paper.Position{
			{Symbol: "XOM", Qty: 50, Mark: 100},
		},
	}}
	selection := &fakeSelection{}

	rec := NewRecorder(store, account, selection, logger.NewNop())
	day := time.Date(2024, 3, 1, 16, 10, 0, 0, time.UTC)
	rec.now = func() time.Time { return day }

	// 첫 스냅샷: 선택 전
	first, err := rec.Record(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 1.0, first.CumReturn)
	assert.Equal(t, 0.0, first.DailyReturn)
	assert.Empty(t, first.Stocks)
	require.Len(t, first.Positions, 1)
	assert.Equal(t, 5000.0, first.Positions[0].Value)
	assert.Equal(t, 0.5, first.Positions[0].Weight)

	// 다음 날: +10%
	selection.state = &strategy.State{Stocks: []string{"XOM"}, ConfigHash: "abc"}
	account.snap.Value = 11000
	day = day.AddDate(0, 0, 1)

	second, err := rec.Record(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, second.DailyReturn, 1e-9)
	assert.InDelta(t, 1.1, second.CumReturn, 1e-9)
	assert.Equal(t, []string{"XOM"}, second.Stocks)
	assert.Equal(t, "abc", second.ConfigHash)

	// 같은 날 재기록은 덮어씀
	account.snap.Value = 12100
	third, err := rec.Record(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.21, third.DailyReturn, 1e-9)

	history, err := store.GetSnapshotHistory(ctx, time.Time{}, day)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 10000.0, history[0].TotalValue)
	assert.Equal(t, 12100.0, history[1].TotalValue)

	curve := EquityCurve(history)
	require.Len(t, curve, 2)
	assert.InDelta(t, 1.21, curve[1].CumReturn, 1e-9)
}

func TestRecorder_StampsDecision(t *testing.T) {
	ctx := context.Background()
	cfg := strategyconfig.Default()
	decision, err := strategyconfig.NewDecisionSnapshot(cfg, []byte("meta:\n  strategy_id: graham_fundamentals\n"))
	require.NoError(t, err)

	account := &fakeAccount{snap: paper.Snapshot{Cash: 1000, Value: 1000}}
	selection := &fakeSelection{}
	rec := NewRecorder(NewMemoryStore(), account, selection, logger.NewNop()).WithDecision(decision)

	// 선택 전에는 설정 해시를 설정 스냅샷에서 가져옴
	snap, err := rec.Record(ctx)
	require.NoError(t, err)
	assert.Equal(t, decision.ConfigHash, snap.ConfigHash)
	assert.Equal(t, "graham_fundamentals", snap.StrategyID)
	assert.Contains(t, snap.ConfigYAML, "strategy_id: graham_fundamentals")

	selection.state = &strategy.State{ConfigHash: "from-state"}
	snap, err = rec.Record(ctx)
	require.NoError(t, err)
	assert.Equal(t, "from-state", snap.ConfigHash)
}

func TestMemoryStore_PreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d3 := d1.AddDate(0, 0, 2)
	require.NoError(t, store.SaveSnapshot(ctx, &DailySnapshot{Date: d1, TotalValue: 1}))
	require.NoError(t, store.SaveSnapshot(ctx, &DailySnapshot{Date: d3, TotalValue: 3}))

	prev, err := store.GetPreviousSnapshot(ctx, d1)
	require.NoError(t, err)
	assert.Nil(t, prev)

	prev, err = store.GetPreviousSnapshot(ctx, d3.AddDate(0, 0, 5))
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, 3.0, prev.TotalValue)

	prev, err = store.GetPreviousSnapshot(ctx, d3)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, 1.0, prev.TotalValue)
}
