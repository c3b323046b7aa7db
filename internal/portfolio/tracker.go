// Package portfolio tracks open positions and values them against live
// prices.
package portfolio

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/akastanis/holdwise/internal/domain"
)

// Valuation is the mark-to-market result for one position.
type Valuation struct {
	Value  float64 `json:"value"`
	Cost   float64 `json:"cost"`
	PnLPct float64 `json:"pnl_pct"`
}

// Summary aggregates valuations across the whole portfolio.
type Summary struct {
	TotalValue  float64 `json:"total_value"`
	TotalCost   float64 `json:"total_cost"`
	TotalPnLPct float64 `json:"total_pnl_pct"`
}

// Tracker owns the current positions. The strategy run-loop is the single
// logical writer; the mutex only exists so the status API can read
// snapshots while the loop runs.
type Tracker struct {
	mu        sync.RWMutex
	positions map[string]domain.Position
	log       zerolog.Logger
}

// New creates an empty tracker.
func New(log zerolog.Logger) *Tracker {
	return &Tracker{
		positions: make(map[string]domain.Position),
		log:       log.With().Str("component", "portfolio").Logger(),
	}
}

// RecordEntry stores a freshly opened position, replacing any previous
// position in the same symbol.
func (t *Tracker) RecordEntry(symbol string, amount, price, size float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.positions[symbol] = domain.Position{
		Symbol:     symbol,
		Amount:     amount,
		EntryPrice: price,
		EntryTime:  time.Now().UTC(),
		SizeQuote:  size,
	}
}

// Remove drops a position after liquidation.
func (t *Tracker) Remove(symbol string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.positions, symbol)
}

// Positions returns a snapshot copy of the current positions.
func (t *Tracker) Positions() map[string]domain.Position {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snapshot := make(map[string]domain.Position, len(t.positions))
	for symbol, pos := range t.positions {
		snapshot[symbol] = pos
	}
	return snapshot
}

// Restore replaces the whole position set, e.g. when resuming from a saved
// positions file.
func (t *Tracker) Restore(positions map[string]domain.Position) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.positions = make(map[string]domain.Position, len(positions))
	for symbol, pos := range positions {
		t.positions[symbol] = pos
	}
}

// MarkToMarket values every position against the price source. A price
// lookup failure for one symbol skips that symbol (it is absent from the
// result and contributes nothing to aggregate totals) while the failure is
// logged; one bad price never aborts the valuation pass.
func (t *Tracker) MarkToMarket(ctx context.Context, prices domain.PriceSource) map[string]Valuation {
	valuations := make(map[string]Valuation)

	for symbol, pos := range t.Positions() {
		price, err := prices.LastPrice(ctx, symbol)
		if err != nil {
			t.log.Error().Err(err).Str("symbol", symbol).
				Msg("Price lookup failed, skipping position in valuation")
			continue
		}

		value := pos.Amount * price
		valuation := Valuation{Value: value, Cost: pos.SizeQuote}
		if pos.SizeQuote > 0 {
			valuation.PnLPct = (value - pos.SizeQuote) / pos.SizeQuote * 100
		}
		valuations[symbol] = valuation
	}

	return valuations
}

// Aggregate sums valuations into portfolio totals. TotalPnLPct is 0 when
// total cost is 0.
func Aggregate(valuations map[string]Valuation) Summary {
	var summary Summary
	for _, v := range valuations {
		summary.TotalValue += v.Value
		summary.TotalCost += v.Cost
	}

	if summary.TotalCost > 0 {
		summary.TotalPnLPct = (summary.TotalValue - summary.TotalCost) / summary.TotalCost * 100
	}
	return summary
}
