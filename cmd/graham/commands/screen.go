package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/graham/internal/portfolio"
	"github.com/wonny/graham/internal/strategy"
	"github.com/wonny/graham/internal/strategyconfig"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "섹터 스크리닝 1회 실행",
	Long: `설정된 모든 섹터의 재무 지표를 수집해 순위를 매기고
매수 대상 종목을 출력합니다. 주문은 제출하지 않습니다.

Example:
  go run ./cmd/graham screen
  go run ./cmd/graham screen --strategy config/strategy/graham_fundamentals.yaml`,
	RunE: runScreen,
}

func init() {
	rootCmd.AddCommand(screenCmd)
}

func runScreen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	d, err := newDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	hash, err := strategyconfig.Hash(d.strategy)
	if err != nil {
		return fmt.Errorf("hash strategy: %w", err)
	}

	PrintHeader("Graham Sector Screen")
	PrintKeyValue("Strategy", d.strategy.Meta.StrategyID, 8)
	PrintKeyValue("Config", hash[:12], 8)
	PrintKeyValue("Sectors", fmt.Sprintf("%d", len(d.strategy.Universe.Sectors)), 8)
	PrintSeparator()

	// 스크리닝만 하므로 엔진 없음
	s := strategy.New(d.strategy, d.provider, nil, d.log)

	start := time.Now()
	set, ranking, err := s.UpdateSelection(ctx)
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}

	fmt.Println()
	PrintRanking(ranking.Scores)
	fmt.Println()
	PrintSelection(set, portfolio.EqualWeight(set.Count()))

	fmt.Println()
	PrintSuccess(fmt.Sprintf("Screen completed in %.2fs", time.Since(start).Seconds()))
	return nil
}
