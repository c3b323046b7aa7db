// Package domain contains the core data types for holdwise.
// This layer is pure: no infrastructure dependencies.
package domain

import "time"

// MomentumWindowBars is the trailing window length, in daily bars, used for
// momentum ranking and momentum-weighted allocation.
const MomentumWindowBars = 30

// PriceBar represents a single OHLCV bar for one period.
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// PriceSeries is an ordered sequence of bars for one asset.
// A series may be empty (e.g. fetch failure); all consumers must tolerate
// empty and short series.
type PriceSeries []PriceBar

// Len returns the number of bars in the series.
func (s PriceSeries) Len() int { return len(s) }

// Closes extracts the closing prices in order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, bar := range s {
		closes[i] = bar.Close
	}
	return closes
}

// Returns converts the series into period-over-period fractional changes.
// The first bar contributes no return. A series shorter than 2 bars yields
// an empty slice.
func (s PriceSeries) Returns() []float64 {
	if len(s) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(s)-1)
	for i := 1; i < len(s); i++ {
		if s[i-1].Close != 0 {
			returns[i-1] = (s[i].Close - s[i-1].Close) / s[i-1].Close
		}
	}
	return returns
}

// PerformanceMetrics summarizes buy-and-hold performance over a window.
// Invariants: MaxDrawdown <= 0, Volatility >= 0, SharpeRatio is 0 whenever
// Volatility is 0.
type PerformanceMetrics struct {
	TotalReturn float64 `json:"total_return"`
	Volatility  float64 `json:"volatility"`
	SharpeRatio float64 `json:"sharpe_ratio"`
	MaxDrawdown float64 `json:"max_drawdown"`
}

// AllocationPolicy selects how capital is split across assets.
type AllocationPolicy string

const (
	// AllocationEqual assigns 1/n of capital to each asset.
	AllocationEqual AllocationPolicy = "equal"
	// AllocationMomentum weights assets by positive trailing momentum.
	AllocationMomentum AllocationPolicy = "momentum"
)

// Position is an open holding. Positions are created on trade execution,
// never mutated in place, and removed on liquidation.
type Position struct {
	Symbol     string    `json:"symbol"`
	Amount     float64   `json:"amount"`
	EntryPrice float64   `json:"entry_price"`
	EntryTime  time.Time `json:"entry_time"`
	SizeQuote  float64   `json:"size_quote"`
}
