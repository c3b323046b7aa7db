package report

import (
	"fmt"
	"strings"
)

// Render produces the human-readable markdown report for a backtest batch.
func Render(report Report, days int) string {
	var b strings.Builder

	b.WriteString("# Buy-Hold Backtest Report\n\n")
	b.WriteString("## Test Parameters\n")
	fmt.Fprintf(&b, "- **Period**: %d days\n", days)
	b.WriteString("- **Strategy**: Simple Buy-and-Hold\n")
	fmt.Fprintf(&b, "- **Pairs**: %d tested\n\n", len(report.Rows))

	b.WriteString("## Results Summary\n\n")
	b.WriteString("| Pair | Return | Volatility | Sharpe | Max Drawdown |\n")
	b.WriteString("|------|--------|------------|--------|--------------|\n")
	for _, row := range report.Rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %.2f | %s |\n",
			row.Symbol,
			percent(row.Metrics.TotalReturn),
			percent(row.Metrics.Volatility),
			row.Metrics.SharpeRatio,
			percent(row.Metrics.MaxDrawdown),
		)
	}

	fmt.Fprintf(&b, "\n**Average Return**: %s\n", percent(report.AverageReturn))

	b.WriteString("\n## Key Insights\n\n")
	if len(report.Rows) > 0 {
		best := report.Rows[0]
		worst := report.Rows[len(report.Rows)-1]
		fmt.Fprintf(&b, "- **Best Performer**: %s (%s)\n", best.Symbol, percent(best.Metrics.TotalReturn))
		fmt.Fprintf(&b, "- **Worst Performer**: %s (%s)\n", worst.Symbol, percent(worst.Metrics.TotalReturn))
		fmt.Fprintf(&b, "- **Average Sharpe Ratio**: %.2f\n", report.AverageSharpe)
		fmt.Fprintf(&b, "- **Market Condition**: %s\n", report.Condition)
	}

	return b.String()
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
