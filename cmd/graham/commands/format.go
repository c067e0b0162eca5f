package commands

import (
	"fmt"
	"strings"

	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/internal/execution"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintHeader prints a formatted command header
func PrintHeader(title string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	// Separator line
	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// PrintRanking prints sector scores in rank order
func PrintRanking(scores []contracts.SectorScore) {
	widths := []int{4, 24, 10, 6}
	PrintTableHeader([]string{"#", "Sector", "Mean PE", "Rows"}, widths)
	for i, s := range scores {
		PrintTableRow([]string{
			fmt.Sprintf("%d", i+1),
			s.Sector,
			formatScore(s),
			fmt.Sprintf("%d", s.Count),
		}, widths)
	}
}

// PrintSelection prints the chosen sectors and symbols
func PrintSelection(set *contracts.SelectionSet, weight float64) {
	PrintKeyValue("Sectors", strings.Join(set.Sectors, ", "), 8)
	PrintKeyValue("Stocks", fmt.Sprintf("%d", set.Count()), 8)
	PrintKeyValue("Weight", fmt.Sprintf("%.4f", weight), 8)
	if set.Count() > 0 {
		fmt.Printf("   %s\n", strings.Join(set.Symbols, " "))
	}
}

// PrintOrders prints orders as a table
func PrintOrders(title string, orders []contracts.Order) {
	fmt.Println()
	fmt.Printf("%s (%d)\n", title, len(orders))
	if len(orders) == 0 {
		return
	}

	widths := []int{8, 5, 8, 10, 8}
	PrintTableHeader([]string{"Symbol", "Side", "Qty", "Price", "Weight"}, widths)
	for _, o := range orders {
		PrintTableRow([]string{
			o.Symbol,
			string(o.Side),
			fmt.Sprintf("%d", o.Qty),
			fmt.Sprintf("%.2f", o.Price),
			fmt.Sprintf("%.4f", o.TargetWeight),
		}, widths)
	}
}

// PrintResult prints one rebalance pass
func PrintResult(result *execution.Result) {
	PrintOrders("Closed", result.Closed)
	PrintOrders("Submitted", result.Submitted)
	PrintOrders("Open orders", result.OpenOrders)
}

func formatScore(s contracts.SectorScore) string {
	if !s.Defined() {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", s.Score)
}
