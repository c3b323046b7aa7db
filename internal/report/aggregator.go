// Package report summarizes per-asset performance metrics across a batch.
package report

import (
	"sort"

	"github.com/akastanis/holdwise/internal/domain"
)

// Market condition labels. Thresholds are fixed, not configurable.
const (
	ConditionStrongBull = "Strong Bull"
	ConditionMildBull   = "Mild Bull"
	ConditionBear       = "Bear"

	strongBullThreshold = 0.10
)

// Row pairs one asset with its metrics.
type Row struct {
	Symbol  string
	Metrics domain.PerformanceMetrics
}

// Report is the aggregated view over a batch of per-asset metrics.
type Report struct {
	Rows          []Row // sorted by total return, best first
	AverageReturn float64
	AverageSharpe float64
	Best          string
	Worst         string
	Condition     string
}

// Aggregate builds a report from per-asset metrics. An empty input yields
// an empty report with zero averages (no division by zero).
func Aggregate(perAsset map[string]domain.PerformanceMetrics) Report {
	report := Report{Condition: ConditionBear}
	if len(perAsset) == 0 {
		return report
	}

	rows := make([]Row, 0, len(perAsset))
	var sumReturn, sumSharpe float64
	for symbol, m := range perAsset {
		rows = append(rows, Row{Symbol: symbol, Metrics: m})
		sumReturn += m.TotalReturn
		sumSharpe += m.SharpeRatio
	}

	// Secondary symbol key keeps the ordering deterministic across runs.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Metrics.TotalReturn != rows[j].Metrics.TotalReturn {
			return rows[i].Metrics.TotalReturn > rows[j].Metrics.TotalReturn
		}
		return rows[i].Symbol < rows[j].Symbol
	})

	report.Rows = rows
	report.AverageReturn = sumReturn / float64(len(rows))
	report.AverageSharpe = sumSharpe / float64(len(rows))
	report.Best = rows[0].Symbol
	report.Worst = rows[len(rows)-1].Symbol
	report.Condition = classify(report.AverageReturn)

	return report
}

func classify(averageReturn float64) string {
	switch {
	case averageReturn > strongBullThreshold:
		return ConditionStrongBull
	case averageReturn > 0:
		return ConditionMildBull
	default:
		return ConditionBear
	}
}
