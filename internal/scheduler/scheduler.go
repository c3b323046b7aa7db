// Package scheduler runs the periodic strategy jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler wraps a cron runner with named jobs.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// New creates a stopped scheduler.
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Add registers fn to run on the given cron spec.
func (s *Scheduler) Add(name, spec string, fn func(context.Context)) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.log.Debug().Str("job", name).Msg("Job starting")
		fn(context.Background())
		s.log.Debug().Str("job", name).Msg("Job finished")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}
	s.log.Info().Str("job", name).Str("spec", spec).Msg("Scheduled job")
	return nil
}

// Start begins running scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}
