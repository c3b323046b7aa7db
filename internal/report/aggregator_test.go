package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akastanis/holdwise/internal/domain"
)

func TestAggregate_Example(t *testing.T) {
	perAsset := map[string]domain.PerformanceMetrics{
		"A": {TotalReturn: 0.20, SharpeRatio: 1.5},
		"B": {TotalReturn: -0.10, SharpeRatio: -0.3},
		"C": {TotalReturn: 0.05, SharpeRatio: 0.6},
	}

	report := Aggregate(perAsset)

	assert.InDelta(t, 0.05, report.AverageReturn, 1e-12)
	assert.InDelta(t, 0.6, report.AverageSharpe, 1e-12)
	assert.Equal(t, "A", report.Best)
	assert.Equal(t, "B", report.Worst)
	assert.Equal(t, ConditionMildBull, report.Condition)

	symbols := make([]string, len(report.Rows))
	for i, row := range report.Rows {
		symbols[i] = row.Symbol
	}
	assert.Equal(t, []string{"A", "C", "B"}, symbols)
}

func TestAggregate_Empty(t *testing.T) {
	report := Aggregate(nil)
	assert.Empty(t, report.Rows)
	assert.Zero(t, report.AverageReturn)
	assert.Zero(t, report.AverageSharpe)
	assert.Empty(t, report.Best)
	assert.Empty(t, report.Worst)
}

func TestAggregate_Conditions(t *testing.T) {
	tests := []struct {
		name      string
		returns   map[string]float64
		condition string
	}{
		{"strong bull", map[string]float64{"A": 0.30, "B": 0.10}, ConditionStrongBull},
		{"boundary 10 percent is mild", map[string]float64{"A": 0.10}, ConditionMildBull},
		{"mild bull", map[string]float64{"A": 0.02, "B": 0.04}, ConditionMildBull},
		{"flat is bear", map[string]float64{"A": 0.0}, ConditionBear},
		{"bear", map[string]float64{"A": -0.20, "B": 0.05}, ConditionBear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perAsset := make(map[string]domain.PerformanceMetrics)
			for symbol, r := range tt.returns {
				perAsset[symbol] = domain.PerformanceMetrics{TotalReturn: r}
			}
			assert.Equal(t, tt.condition, Aggregate(perAsset).Condition)
		})
	}
}

func TestAggregate_TieOrderingDeterministic(t *testing.T) {
	perAsset := map[string]domain.PerformanceMetrics{
		"B": {TotalReturn: 0.05},
		"A": {TotalReturn: 0.05},
	}

	for i := 0; i < 10; i++ {
		report := Aggregate(perAsset)
		assert.Equal(t, "A", report.Rows[0].Symbol)
		assert.Equal(t, "B", report.Rows[1].Symbol)
	}
}

func TestRender(t *testing.T) {
	report := Aggregate(map[string]domain.PerformanceMetrics{
		"BTC/USDT": {TotalReturn: 0.21, Volatility: 0.45, SharpeRatio: 1.2, MaxDrawdown: -0.10},
		"ETH/USDT": {TotalReturn: -0.05, Volatility: 0.60, SharpeRatio: -0.2, MaxDrawdown: -0.25},
	})

	md := Render(report, 30)

	assert.Contains(t, md, "| Pair | Return | Volatility | Sharpe | Max Drawdown |")
	assert.Contains(t, md, "| BTC/USDT | 21.00% | 45.00% | 1.20 | -10.00% |")
	assert.Contains(t, md, "| ETH/USDT | -5.00% | 60.00% | -0.20 | -25.00% |")
	assert.Contains(t, md, "**Average Return**: 8.00%")
	assert.Contains(t, md, "- **Best Performer**: BTC/USDT (21.00%)")
	assert.Contains(t, md, "- **Worst Performer**: ETH/USDT (-5.00%)")
	assert.Contains(t, md, "- **Market Condition**: Mild Bull")
	assert.Contains(t, md, "- **Period**: 30 days")

	// Best row is listed before worst.
	assert.Less(t, strings.Index(md, "BTC/USDT"), strings.Index(md, "ETH/USDT"))
}
