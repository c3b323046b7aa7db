// Package metrics computes buy-and-hold performance metrics from a price
// series. All functions are pure and degrade to zero/neutral values on
// insufficient data instead of failing.
package metrics

import (
	"math"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"

	"github.com/akastanis/holdwise/internal/domain"
)

// PeriodsPerYear is the annualization constant. Bars are always treated as
// daily; revisit this constant before feeding non-daily bars.
const PeriodsPerYear = 365

// Compute derives performance metrics from a price series.
//
// total_return = (close[-1] - close[0]) / close[0]
// volatility   = sample stddev of period returns x sqrt(PeriodsPerYear)
// sharpe       = (mean(returns) x PeriodsPerYear) / volatility, 0 when flat
// max_drawdown = largest peak-to-trough decline of the cumulative growth
// curve, expressed as a value <= 0
//
// A series of length 0 or 1 yields all-zero metrics.
func Compute(series domain.PriceSeries) domain.PerformanceMetrics {
	var m domain.PerformanceMetrics
	if series.Len() < 2 {
		return m
	}

	closes := series.Closes()
	first := closes[0]
	last := closes[len(closes)-1]
	if first != 0 {
		m.TotalReturn = (last - first) / first
	}

	returns := series.Returns()

	// Sample standard deviation (n-1); undefined for a single return.
	if len(returns) >= 2 {
		m.Volatility = stat.StdDev(returns, nil) * math.Sqrt(PeriodsPerYear)
	}
	if m.Volatility > 0 {
		m.SharpeRatio = (stat.Mean(returns, nil) * PeriodsPerYear) / m.Volatility
	}

	m.MaxDrawdown = maxDrawdown(returns)

	return m
}

// Momentum returns the fractional price change across the whole series,
// using the same formula as total_return. Used as a ranking signal over a
// fixed trailing window.
func Momentum(series domain.PriceSeries) float64 {
	if series.Len() < 2 {
		return 0
	}

	closes := series.Closes()
	if closes[0] == 0 {
		return 0
	}

	// Rate-of-change over the full window; talib leaves the first
	// inTimePeriod slots zeroed, the final slot is the window momentum.
	roc := talib.Rocp(closes, len(closes)-1)
	return roc[len(roc)-1]
}

// maxDrawdown walks the cumulative growth curve cum[i] = prod(1 + r_j),
// tracks its running maximum and returns the most negative drawdown
// (cum - peak) / peak. Result is 0 for an empty or non-decreasing curve.
func maxDrawdown(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	cum := 1.0
	peak := 0.0 // running max is taken over curve values only
	worst := 0.0

	for _, r := range returns {
		cum *= 1 + r
		if cum > peak {
			peak = cum
		}
		if peak > 0 {
			dd := (cum - peak) / peak
			if dd < worst {
				worst = dd
			}
		}
	}

	return worst
}
