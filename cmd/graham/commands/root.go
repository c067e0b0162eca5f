package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "graham",
	Short: "Graham 섹터 가치 스크리닝 전략",
	Long: `Graham sector-value strategy

섹터별 재무제표로 가치 스크리닝 후 평균 PER이 낮은 섹터를 골라
동일 비중으로 리밸런싱합니다.

Usage:
  go run ./cmd/graham [command]

Examples:
  go run ./cmd/graham screen
  go run ./cmd/graham rebalance --dry-run
  go run ./cmd/graham run`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML (default: STRATEGY_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
