package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/internal/execution"
	"github.com/wonny/graham/internal/strategy"
)

// rebalanceCmd represents the rebalance command
var rebalanceCmd = &cobra.Command{
	Use:   "rebalance",
	Short: "스크리닝 후 리밸런싱 1회 실행",
	Long: `섹터 스크리닝을 1회 실행한 뒤 선택 종목으로 리밸런싱 주문을 제출합니다.

기본은 paper 엔진 (DATABASE_URL이 있으면 Postgres 원장).
--dry-run 이면 주문 요청만 출력하고 계좌는 바뀌지 않습니다.

Example:
  go run ./cmd/graham rebalance --dry-run
  go run ./cmd/graham rebalance --settle`,
	RunE: runRebalance,
}

var (
	rebalanceDryRun bool
	rebalanceSettle bool
)

func init() {
	rootCmd.AddCommand(rebalanceCmd)

	rebalanceCmd.Flags().BoolVar(&rebalanceDryRun, "dry-run", false, "주문 요청만 출력")
	rebalanceCmd.Flags().BoolVar(&rebalanceSettle, "settle", false, "제출한 주문을 즉시 체결 (paper 엔진)")
}

func runRebalance(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	d, err := newDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	var (
		engine  contracts.TradingEngine
		settler strategy.Settler
	)

	if rebalanceDryRun {
		engine = execution.NewDryRunEngine(nil)
	} else {
		pe, err := d.paperEngine(ctx, d.loadSymbols(ctx))
		if err != nil {
			return err
		}
		engine = pe
		settler = pe
	}

	PrintHeader("Graham Rebalance")
	PrintKeyValue("Strategy", d.strategy.Meta.StrategyID, 8)
	PrintKeyValue("Dry run", fmt.Sprintf("%t", rebalanceDryRun), 8)
	PrintSeparator()

	s := strategy.New(d.strategy, d.provider, engine, d.log)
	st := s.Initialize(ctx)

	if err := s.BeforeTradingStart(ctx, st); err != nil {
		return fmt.Errorf("before trading start: %w", err)
	}

	fmt.Println()
	PrintRanking(st.Rankings)
	fmt.Println()
	PrintSelection(st.Selection(), st.Weight)

	result, err := s.HandleData(ctx, st, strategy.Bar{Time: time.Now()})
	if err != nil {
		return fmt.Errorf("handle data: %w", err)
	}
	PrintResult(result)

	if rebalanceSettle && settler != nil {
		filled, err := settler.Settle(ctx)
		if err != nil {
			return fmt.Errorf("settle: %w", err)
		}
		PrintOrders("Filled", filled)
	}

	fmt.Println()
	PrintSuccess("Rebalance completed")
	return nil
}
