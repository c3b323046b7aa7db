// Package rebalance decides when the portfolio is liquidated and
// re-allocated, and drives the liquidate-then-reinvest cycle.
package rebalance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/akastanis/holdwise/internal/domain"
	"github.com/akastanis/holdwise/internal/portfolio"
)

// State of the rebalance machine.
type State string

const (
	// StateIdle - waiting for the rebalance interval to elapse.
	StateIdle State = "idle"
	// StateDue - interval elapsed, a rebalance cycle should start.
	StateDue State = "due"
	// StateRebalancing - liquidation/reinvestment in progress or failed.
	StateRebalancing State = "rebalancing"
)

// ReinvestFunc opens fresh positions from a new selection/allocation
// proposal. It runs only after liquidation has fully completed.
type ReinvestFunc func(ctx context.Context) error

// Scheduler implements the Idle -> Due -> Rebalancing -> Idle cycle.
//
// A liquidation failure keeps the machine in StateRebalancing and surfaces
// the error: positions that sold successfully are already removed from the
// tracker, so a retry resumes liquidation of the remainder and reinvestment
// can never run against a half-liquidated book.
type Scheduler struct {
	tracker  *portfolio.Tracker
	executor domain.TradeExecutor
	reinvest ReinvestFunc

	enabled   bool
	frequency time.Duration

	mu    sync.Mutex
	state State
	last  time.Time

	log zerolog.Logger
}

// New creates a rebalance scheduler. With enabled false the machine never
// leaves StateIdle.
func New(
	tracker *portfolio.Tracker,
	executor domain.TradeExecutor,
	reinvest ReinvestFunc,
	enabled bool,
	frequency time.Duration,
	log zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		tracker:   tracker,
		executor:  executor,
		reinvest:  reinvest,
		enabled:   enabled,
		frequency: frequency,
		state:     StateIdle,
		log:       log.With().Str("component", "rebalance").Logger(),
	}
}

// State returns the current machine state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastRebalance returns the timestamp recorded by the last completed cycle.
func (s *Scheduler) LastRebalance() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// MarkRebalanced seeds the last-rebalance timestamp, e.g. right after the
// initial entries are opened.
func (s *Scheduler) MarkRebalanced(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = now
}

// check performs the Idle -> Due transition. An in-progress (or failed)
// cycle stays due so Tick retries it.
func (s *Scheduler) check(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return false
	}

	switch s.state {
	case StateIdle:
		if now.Sub(s.last) >= s.frequency {
			s.state = StateDue
			return true
		}
		return false
	case StateDue, StateRebalancing:
		return true
	default:
		return false
	}
}

// Tick advances the machine: when a cycle is due it liquidates every open
// position, then asks for a fresh proposal via reinvest, then returns to
// Idle stamping the new last-rebalance time.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) error {
	if !s.check(now) {
		return nil
	}

	s.setState(StateRebalancing)
	s.log.Info().Msg("Rebalancing portfolio")

	if err := s.liquidate(ctx); err != nil {
		// Remain in Rebalancing; the next tick resumes liquidation.
		s.log.Error().Err(err).Msg("Liquidation incomplete, rebalance suspended")
		return fmt.Errorf("liquidation incomplete: %w", err)
	}

	if err := s.reinvest(ctx); err != nil {
		// The book is flat at this point, so capital is not exposed;
		// stay in Rebalancing and let the next tick retry reinvestment.
		s.log.Error().Err(err).Msg("Reinvestment failed, rebalance suspended")
		return fmt.Errorf("reinvestment failed: %w", err)
	}

	s.mu.Lock()
	s.state = StateIdle
	s.last = now
	s.mu.Unlock()

	s.log.Info().Time("last_rebalance", now).Msg("Rebalance cycle completed")
	return nil
}

// liquidate sells every open position. Each successful sell removes the
// position from the tracker immediately, so partially failed passes are
// resumable without double-selling.
func (s *Scheduler) liquidate(ctx context.Context) error {
	var errs []error

	for symbol, pos := range s.tracker.Positions() {
		if err := s.executor.MarketSell(ctx, symbol, pos.Amount); err != nil {
			s.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to sell position")
			errs = append(errs, fmt.Errorf("sell %s: %w", symbol, err))
			continue
		}

		s.tracker.Remove(symbol)
		s.log.Info().Str("symbol", symbol).Float64("amount", pos.Amount).
			Msg("Position liquidated")
	}

	return errors.Join(errs...)
}

func (s *Scheduler) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}
