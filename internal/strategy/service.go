// Package strategy runs the live buy-and-hold loop: pick pairs, size
// entries, execute them and keep the position book persisted.
package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/akastanis/holdwise/internal/allocation"
	"github.com/akastanis/holdwise/internal/config"
	"github.com/akastanis/holdwise/internal/domain"
	"github.com/akastanis/holdwise/internal/portfolio"
	"github.com/akastanis/holdwise/internal/selection"
	"github.com/akastanis/holdwise/internal/storage"
)

// Service orchestrates one strategy deployment.
type Service struct {
	cfg       *config.Config
	data      domain.MarketData
	executor  domain.TradeExecutor
	selector  *selection.Selector
	allocator *allocation.Engine
	tracker   *portfolio.Tracker
	store     *storage.Store
	log       zerolog.Logger
}

// New wires a strategy service from its dependencies.
func New(
	cfg *config.Config,
	data domain.MarketData,
	executor domain.TradeExecutor,
	tracker *portfolio.Tracker,
	store *storage.Store,
	log zerolog.Logger,
) *Service {
	return &Service{
		cfg:       cfg,
		data:      data,
		executor:  executor,
		selector:  selection.New(data, log),
		allocator: allocation.New(data, log),
		tracker:   tracker,
		store:     store,
		log:       log.With().Str("component", "strategy").Logger(),
	}
}

// Tracker exposes the position book, e.g. for the status API.
func (s *Service) Tracker() *portfolio.Tracker { return s.tracker }

// SelectPairs returns the pairs to hold. With dynamic selection enabled the
// configured pairs are a candidate universe and the top performers by
// trailing momentum are picked; otherwise the configured list is used as-is.
func (s *Service) SelectPairs(ctx context.Context) []string {
	if s.cfg.DynamicSelection {
		return s.selector.Select(ctx, s.cfg.TradingPairs, s.cfg.MaxPairs)
	}
	return s.cfg.TradingPairs
}

// ExecuteEntries sizes and opens a position in each pair. A failure on one
// pair (price lookup or order) skips that pair; the error return is non-nil
// only when every attempted entry failed.
func (s *Service) ExecuteEntries(ctx context.Context, pairs []string) error {
	if len(pairs) == 0 {
		return fmt.Errorf("no pairs to enter")
	}

	weights := s.allocator.Weights(ctx, pairs, s.cfg.AllocationPolicy())
	sizes := allocation.PositionSizes(weights, s.cfg.TotalCapital)

	entered := 0
	for _, symbol := range pairs {
		size := sizes[symbol]
		if size <= 0 {
			s.log.Debug().Str("symbol", symbol).Msg("Zero allocation, skipping entry")
			continue
		}

		price, err := s.data.LastPrice(ctx, symbol)
		if err != nil {
			s.log.Error().Err(err).Str("symbol", symbol).Msg("Price lookup failed, skipping entry")
			continue
		}
		if price <= 0 {
			s.log.Error().Str("symbol", symbol).Float64("price", price).Msg("Non-positive price, skipping entry")
			continue
		}

		amount := size / price
		if err := s.executor.MarketBuy(ctx, symbol, amount, price); err != nil {
			s.log.Error().Err(err).Str("symbol", symbol).Msg("Entry order failed, skipping")
			continue
		}

		s.tracker.RecordEntry(symbol, amount, price, size)
		entered++
		s.log.Info().
			Str("symbol", symbol).
			Float64("amount", amount).
			Float64("price", price).
			Float64("size_quote", size).
			Msg("Opened position")
	}

	if err := s.SaveState(); err != nil {
		s.log.Error().Err(err).Msg("Failed to persist position book")
	}

	if entered == 0 {
		return fmt.Errorf("all %d entries failed: %w", len(pairs), domain.ErrExecutionFailed)
	}
	return nil
}

// Reinvest re-runs selection and entry with the full configured capital.
// The rebalance scheduler calls this after liquidation.
func (s *Service) Reinvest(ctx context.Context) error {
	return s.ExecuteEntries(ctx, s.SelectPairs(ctx))
}

// CheckPerformance values the book and logs a portfolio summary.
func (s *Service) CheckPerformance(ctx context.Context) (map[string]portfolio.Valuation, portfolio.Summary) {
	valuations := s.tracker.MarkToMarket(ctx, s.data)
	summary := portfolio.Aggregate(valuations)

	s.log.Info().
		Int("positions", len(valuations)).
		Float64("total_value", summary.TotalValue).
		Float64("total_cost", summary.TotalCost).
		Float64("total_pnl_pct", summary.TotalPnLPct).
		Msg("Portfolio performance")

	return valuations, summary
}

// SaveState persists the current position book.
func (s *Service) SaveState() error {
	return s.store.SavePositions(s.tracker.Positions(), time.Now().UTC())
}

// Run restores any saved position book and opens initial positions when the
// book is empty. It is called once at startup.
func (s *Service) Run(ctx context.Context) error {
	saved, err := s.store.LoadPositions()
	if err != nil {
		return fmt.Errorf("failed to restore positions: %w", err)
	}

	if len(saved) > 0 {
		s.tracker.Restore(saved)
		s.log.Info().Int("positions", len(saved)).Msg("Restored position book")
		return nil
	}

	pairs := s.SelectPairs(ctx)
	s.log.Info().Strs("pairs", pairs).Str("allocation", s.cfg.AllocationStrategy).Msg("Opening initial positions")
	return s.ExecuteEntries(ctx, pairs)
}
