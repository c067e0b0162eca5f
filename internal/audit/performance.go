package audit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/wonny/graham/pkg/logger"
)

const (
	tradingDays  = 252
	riskFreeRate = 0.03 // 연 3% 무위험 수익률
)

// ErrNoData is returned when a period has no snapshots
var ErrNoData = errors.New("no snapshots for period")

// ErrInvalidPeriod is returned for an unknown period code
var ErrInvalidPeriod = errors.New("invalid period")

// Analyzer computes performance from daily snapshots
// ⭐ SSOT: 성과 분석 로직은 여기서만
type Analyzer struct {
	store  Store
	logger *logger.Logger
	now    func() time.Time
}

// NewAnalyzer creates a new performance analyzer
func NewAnalyzer(store Store, log *logger.Logger) *Analyzer {
	return &Analyzer{
		store:  store,
		logger: log,
		now:    time.Now,
	}
}

// PerformanceReport represents performance analysis report
type PerformanceReport struct {
	Period    string    `json:"period"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Days      int       `json:"days"`

	// 수익률
	TotalReturn  float64 `json:"total_return"`
	AnnualReturn float64 `json:"annual_return"`

	// 리스크 지표
	Volatility  float64 `json:"volatility"`
	Sharpe      float64 `json:"sharpe"`
	Sortino     float64 `json:"sortino"`
	MaxDrawdown float64 `json:"max_drawdown"`
}

// Analyze performs performance analysis for a period (1M, 3M, 6M, 1Y, YTD, ALL)
func (a *Analyzer) Analyze(ctx context.Context, period string) (*PerformanceReport, error) {
	snapshots, start, end, err := a.History(ctx, period)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("%w %s", ErrNoData, period)
	}

	dailyReturns := make([]float64, 0, len(snapshots))
	for _, s := range snapshots {
		dailyReturns = append(dailyReturns, s.DailyReturn)
	}

	report := &PerformanceReport{
		Period:    period,
		StartDate: start,
		EndDate:   end,
		Days:      len(dailyReturns),
	}

	report.TotalReturn = totalReturn(dailyReturns)
	report.AnnualReturn = annualize(report.TotalReturn, len(dailyReturns))
	report.Volatility = volatility(dailyReturns)
	report.Sharpe = sharpe(report.AnnualReturn, report.Volatility)
	report.Sortino = sortino(dailyReturns)
	report.MaxDrawdown = maxDrawdown(dailyReturns)

	a.logger.WithFields(map[string]interface{}{
		"period":       period,
		"total_return": report.TotalReturn,
		"sharpe":       report.Sharpe,
		"max_drawdown": report.MaxDrawdown,
	}).Info("Performance analysis completed")

	return report, nil
}

// History returns the snapshots of a period with its date range
func (a *Analyzer) History(ctx context.Context, period string) ([]DailySnapshot, time.Time, time.Time, error) {
	start, end, err := a.parsePeriod(period)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}

	snapshots, err := a.store.GetSnapshotHistory(ctx, start, end)
	if err != nil {
		return nil, start, end, fmt.Errorf("failed to get snapshot history: %w", err)
	}
	return snapshots, start, end, nil
}

// parsePeriod parses period string to date range
func (a *Analyzer) parsePeriod(period string) (time.Time, time.Time, error) {
	end := a.now()

	switch period {
	case "", "1M":
		return end.AddDate(0, -1, 0), end, nil
	case "3M":
		return end.AddDate(0, -3, 0), end, nil
	case "6M":
		return end.AddDate(0, -6, 0), end, nil
	case "1Y":
		return end.AddDate(-1, 0, 0), end, nil
	case "YTD":
		return time.Date(end.Year(), 1, 1, 0, 0, 0, 0, end.Location()), end, nil
	case "ALL":
		return time.Time{}, end, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
}

// totalReturn calculates cumulative return
func totalReturn(dailyReturns []float64) float64 {
	cum := 1.0
	for _, r := range dailyReturns {
		cum *= 1.0 + r
	}
	return cum - 1.0
}

// annualize converts return to annualized return
func annualize(total float64, days int) float64 {
	if days == 0 {
		return 0
	}
	return math.Pow(1.0+total, float64(tradingDays)/float64(days)) - 1.0
}

// volatility calculates annualized volatility (sample stddev)
func volatility(dailyReturns []float64) float64 {
	if len(dailyReturns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range dailyReturns {
		sum += r
	}
	mean := sum / float64(len(dailyReturns))

	var variance float64
	for _, r := range dailyReturns {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(len(dailyReturns) - 1)

	return math.Sqrt(variance) * math.Sqrt(tradingDays)
}

func sharpe(annualReturn, vol float64) float64 {
	if vol == 0 {
		return 0
	}
	return (annualReturn - riskFreeRate) / vol
}

// sortino uses downside deviation of negative days only
func sortino(dailyReturns []float64) float64 {
	if len(dailyReturns) < 2 {
		return 0
	}

	var sumSquaredNegative float64
	var countNegative int
	for _, r := range dailyReturns {
		if r < 0 {
			sumSquaredNegative += r * r
			countNegative++
		}
	}
	if countNegative == 0 {
		return 0
	}

	downsideVol := math.Sqrt(sumSquaredNegative/float64(countNegative)) * math.Sqrt(tradingDays)
	if downsideVol == 0 {
		return 0
	}

	annual := annualize(totalReturn(dailyReturns), len(dailyReturns))
	return (annual - riskFreeRate) / downsideVol
}

// maxDrawdown returns the worst peak-to-trough decline (<= 0)
func maxDrawdown(dailyReturns []float64) float64 {
	cum := 1.0
	peak := 1.0
	maxDD := 0.0

	for _, r := range dailyReturns {
		cum *= 1.0 + r
		if cum > peak {
			peak = cum
		}
		if dd := (cum - peak) / peak; dd < maxDD {
			maxDD = dd
		}
	}

	return maxDD
}
