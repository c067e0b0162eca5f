package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/graham/internal/execution/paper"
	"github.com/wonny/graham/internal/strategy"
	"github.com/wonny/graham/internal/strategyconfig"
	"github.com/wonny/graham/pkg/logger"
)

// DailySnapshot is the end-of-day account state with the selection that produced it
type DailySnapshot struct {
	Date        time.Time          `json:"date"`
	TotalValue  float64            `json:"total_value"`
	Cash        float64            `json:"cash"`
	Positions   []PositionSnapshot `json:"positions"`
	Stocks      []string           `json:"stocks"`
	ConfigHash  string             `json:"config_hash,omitempty"`
	StrategyID  string             `json:"strategy_id,omitempty"`
	ConfigYAML  string             `json:"config_yaml,omitempty"` // 해당 일자 선택을 만든 설정 원문
	DailyReturn float64            `json:"daily_return"`
	CumReturn   float64            `json:"cum_return"` // growth factor, 1.0 = first snapshot
}

// PositionSnapshot is one holding at snapshot time
type PositionSnapshot struct {
	Symbol string  `json:"symbol"`
	Qty    int64   `json:"qty"`
	Price  float64 `json:"price"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// Store persists daily snapshots
type Store interface {
	SaveSnapshot(ctx context.Context, snapshot *DailySnapshot) error
	// GetPreviousSnapshot returns the latest snapshot strictly before date, nil if none
	GetPreviousSnapshot(ctx context.Context, date time.Time) (*DailySnapshot, error)
	// GetSnapshotHistory returns snapshots in [start, end], oldest first
	GetSnapshotHistory(ctx context.Context, start, end time.Time) ([]DailySnapshot, error)
}

// AccountSource exposes the simulated account
type AccountSource interface {
	Snapshot() paper.Snapshot
}

// SelectionSource exposes the strategy state
type SelectionSource interface {
	State() *strategy.State
}

// Recorder writes one snapshot per day
// ⭐ SSOT: 일별 스냅샷 기록은 여기서만
type Recorder struct {
	store     Store
	account   AccountSource
	selection SelectionSource
	decision  *strategyconfig.DecisionSnapshot
	logger    *logger.Logger
	now       func() time.Time
}

// NewRecorder creates a new snapshot recorder
func NewRecorder(store Store, account AccountSource, selection SelectionSource, log *logger.Logger) *Recorder {
	return &Recorder{
		store:     store,
		account:   account,
		selection: selection,
		logger:    log,
		now:       time.Now,
	}
}

// WithDecision attaches the strategy config every snapshot is stamped with
func (r *Recorder) WithDecision(d *strategyconfig.DecisionSnapshot) *Recorder {
	r.decision = d
	return r
}

// Record saves today's snapshot. Recording twice on one day overwrites.
func (r *Recorder) Record(ctx context.Context) (*DailySnapshot, error) {
	account := r.account.Snapshot()
	now := r.now()

	snapshot := &DailySnapshot{
		Date:       truncateDay(now),
		TotalValue: account.Value,
		Cash:       account.Cash,
		Positions:  make([]PositionSnapshot, 0, len(account.Positions)),
		Stocks:     make([]string, 0),
		CumReturn:  1.0,
	}

	for _, p := range account.Positions {
		value := float64(p.Qty) * p.Mark
		weight := 0.0
		if account.Value > 0 {
			weight = value / account.Value
		}
		snapshot.Positions = append(snapshot.Positions, PositionSnapshot{
			Symbol: p.Symbol,
			Qty:    p.Qty,
			Price:  p.Mark,
			Value:  value,
			Weight: weight,
		})
	}

	if st := r.selection.State(); st != nil {
		snapshot.Stocks = st.Stocks
		snapshot.ConfigHash = st.ConfigHash
	}

	if r.decision != nil {
		snapshot.StrategyID = r.decision.StrategyID
		snapshot.ConfigYAML = r.decision.ConfigYAML
		if snapshot.ConfigHash == "" {
			snapshot.ConfigHash = r.decision.ConfigHash
		}
	}

	// 일일 수익률 계산
	prev, err := r.store.GetPreviousSnapshot(ctx, snapshot.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to get previous snapshot: %w", err)
	}
	if prev != nil && prev.TotalValue > 0 {
		snapshot.DailyReturn = (snapshot.TotalValue - prev.TotalValue) / prev.TotalValue
		snapshot.CumReturn = prev.CumReturn * (1 + snapshot.DailyReturn)
	}

	if err := r.store.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"date":         snapshot.Date.Format("2006-01-02"),
		"total_value":  snapshot.TotalValue,
		"daily_return": snapshot.DailyReturn,
		"positions":    len(snapshot.Positions),
	}).Info("Snapshot saved")

	return snapshot, nil
}

// EquityPoint is one point of the equity curve
type EquityPoint struct {
	Date      time.Time `json:"date"`
	Value     float64   `json:"value"`
	Return    float64   `json:"return"`
	CumReturn float64   `json:"cum_return"`
}

// EquityCurve converts snapshots into curve points
func EquityCurve(snapshots []DailySnapshot) []EquityPoint {
	curve := make([]EquityPoint, 0, len(snapshots))
	for _, s := range snapshots {
		curve = append(curve, EquityPoint{
			Date:      s.Date,
			Value:     s.TotalValue,
			Return:    s.DailyReturn,
			CumReturn: s.CumReturn,
		})
	}
	return curve
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
