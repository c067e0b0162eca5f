package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/graham/internal/symbols"
)

// symbolsCmd represents the symbols command
var symbolsCmd = &cobra.Command{
	Use:   "symbols [query]",
	Short: "종목 디렉토리 검색",
	Long: `IEX 종목 디렉토리를 불러와 티커 또는 회사명으로 검색합니다.

Example:
  go run ./cmd/graham symbols exxon
  go run ./cmd/graham symbols brk --limit 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSymbols,
}

var symbolsLimit int

func init() {
	rootCmd.AddCommand(symbolsCmd)

	symbolsCmd.Flags().IntVar(&symbolsLimit, "limit", symbols.DefaultSearchLimit, "최대 결과 수")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	d, err := newDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	dir, err := symbols.Load(ctx, d.iex, d.log)
	if err != nil {
		return err
	}
	defer dir.Close()

	query := strings.Join(args, " ")
	results, err := dir.Search(query, symbolsLimit)
	if err != nil {
		return err
	}

	PrintHeader(fmt.Sprintf("Symbols matching %q", query))
	widths := []int{8, 40, 8, 4}
	PrintTableHeader([]string{"Symbol", "Name", "Exchange", "Type"}, widths)
	for _, info := range results {
		PrintTableRow([]string{info.Symbol, info.Name, info.Exchange, info.Type}, widths)
	}
	return nil
}
