package jobs

import (
	"context"

	"github.com/wonny/graham/internal/strategy"
)

// Hooks is the part of strategy.Host driven by the schedule
type Hooks interface {
	BeforeTradingStart(ctx context.Context) error
	HandleData(ctx context.Context, bar strategy.Bar) error
}

// BeforeTradingStartJob recomputes the selection once per trading day
// ⭐ SSOT: 섹터 선택 스케줄은 이 Job에서만
type BeforeTradingStartJob struct {
	hooks    Hooks
	schedule string
}

// NewBeforeTradingStartJob creates a new before-trading-start job
func NewBeforeTradingStartJob(hooks Hooks, schedule string) *BeforeTradingStartJob {
	return &BeforeTradingStartJob{hooks: hooks, schedule: schedule}
}

// Name returns the job name
func (j *BeforeTradingStartJob) Name() string {
	return "before_trading_start"
}

// Schedule returns the cron schedule
func (j *BeforeTradingStartJob) Schedule() string {
	return j.schedule
}

// Run executes the hook
func (j *BeforeTradingStartJob) Run(ctx context.Context) error {
	return j.hooks.BeforeTradingStart(ctx)
}

// HandleDataJob delivers a bar to the strategy on every tick
type HandleDataJob struct {
	hooks    Hooks
	schedule string
	clock    func() strategy.Bar
}

// NewHandleDataJob creates a new bar job
func NewHandleDataJob(hooks Hooks, schedule string, clock func() strategy.Bar) *HandleDataJob {
	return &HandleDataJob{hooks: hooks, schedule: schedule, clock: clock}
}

// Name returns the job name
func (j *HandleDataJob) Name() string {
	return "handle_data"
}

// Schedule returns the cron schedule
func (j *HandleDataJob) Schedule() string {
	return j.schedule
}

// Run executes the hook with the current bar
func (j *HandleDataJob) Run(ctx context.Context) error {
	return j.hooks.HandleData(ctx, j.clock())
}
