package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/akastanis/holdwise/internal/rebalance"
	"github.com/akastanis/holdwise/internal/strategy"
)

// RebalanceJob ticks the rebalance machine with the current wall clock.
// Tick logs its own failures; a suspended cycle resumes on the next run.
func RebalanceJob(reb *rebalance.Scheduler) func(context.Context) {
	return func(ctx context.Context) {
		_ = reb.Tick(ctx, time.Now().UTC())
	}
}

// PerformanceJob values the book, logs the summary and persists state.
func PerformanceJob(svc *strategy.Service, log zerolog.Logger) func(context.Context) {
	jobLog := log.With().Str("component", "performance_job").Logger()
	return func(ctx context.Context) {
		svc.CheckPerformance(ctx)
		if err := svc.SaveState(); err != nil {
			jobLog.Error().Err(err).Msg("Failed to persist position book")
		}
	}
}
