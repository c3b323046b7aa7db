// Package backtest evaluates buy-and-hold performance for a set of pairs
// over a trailing window of daily bars.
package backtest

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/akastanis/holdwise/internal/domain"
	"github.com/akastanis/holdwise/internal/metrics"
)

// maxConcurrentFetches bounds how many pairs are fetched at once so a
// wide universe does not burst past exchange rate limits.
const maxConcurrentFetches = 4

// Outcome is the result of a backtest run. Failed lists pairs whose data
// could not be fetched; their metrics are omitted from Results.
type Outcome struct {
	Results map[string]domain.PerformanceMetrics
	Failed  []string
}

// Runner fetches historical bars and computes per-pair metrics.
type Runner struct {
	data domain.MarketData
	log  zerolog.Logger
}

// New creates a backtest runner.
func New(data domain.MarketData, log zerolog.Logger) *Runner {
	return &Runner{
		data: data,
		log:  log.With().Str("component", "backtest").Logger(),
	}
}

// Run evaluates each pair over the trailing days window. Pairs are
// fetched concurrently but results are assembled in input order, so the
// outcome is deterministic for a given set of responses. A pair whose
// fetch fails is logged and reported in Failed; the rest of the run is
// unaffected.
func (r *Runner) Run(ctx context.Context, pairs []string, days int) Outcome {
	type slot struct {
		metrics domain.PerformanceMetrics
		err     error
	}
	slots := make([]slot, len(pairs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentFetches)

	for i, pair := range pairs {
		wg.Add(1)
		go func(i int, pair string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			series, err := r.data.Daily(ctx, pair, days)
			if err != nil {
				slots[i] = slot{err: err}
				return
			}
			slots[i] = slot{metrics: metrics.Compute(series)}
		}(i, pair)
	}
	wg.Wait()

	outcome := Outcome{Results: make(map[string]domain.PerformanceMetrics, len(pairs))}
	for i, pair := range pairs {
		if slots[i].err != nil {
			r.log.Error().Err(slots[i].err).Str("pair", pair).Msg("Backtest fetch failed, omitting pair")
			outcome.Failed = append(outcome.Failed, pair)
			continue
		}
		outcome.Results[pair] = slots[i].metrics
		r.log.Info().
			Str("pair", pair).
			Float64("total_return", slots[i].metrics.TotalReturn).
			Float64("sharpe", slots[i].metrics.SharpeRatio).
			Msg("Backtested pair")
	}
	return outcome
}
