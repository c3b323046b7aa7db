// Package selection ranks candidate assets by trailing momentum.
package selection

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/akastanis/holdwise/internal/domain"
	"github.com/akastanis/holdwise/internal/metrics"
)

// WindowProvider fetches a trailing window of daily bars for one symbol.
type WindowProvider interface {
	Daily(ctx context.Context, symbol string, limit int) (domain.PriceSeries, error)
}

// Ranking is the momentum score of one candidate. Degraded rankings come
// from failed fetches and carry the neutral momentum 0.
type Ranking struct {
	Symbol   string
	Momentum float64
	Degraded bool
	Reason   string
}

// Selector ranks candidates by momentum over a fixed 30-bar trailing window.
type Selector struct {
	provider WindowProvider
	log      zerolog.Logger
}

// New creates a selector backed by the given window provider.
func New(provider WindowProvider, log zerolog.Logger) *Selector {
	return &Selector{
		provider: provider,
		log:      log.With().Str("component", "selector").Logger(),
	}
}

// Rank scores every candidate. A provider failure does not exclude the
// candidate: its momentum defaults to 0, so a failing asset is treated as
// flat rather than penalized or dropped. The ranking is sorted by momentum
// descending with ties kept in original input order.
func (s *Selector) Rank(ctx context.Context, candidates []string) []Ranking {
	rankings := make([]Ranking, 0, len(candidates))

	for _, symbol := range candidates {
		window, err := s.provider.Daily(ctx, symbol, domain.MomentumWindowBars)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).
				Msg("Window fetch failed, treating momentum as flat")
			rankings = append(rankings, Ranking{
				Symbol:   symbol,
				Degraded: true,
				Reason:   err.Error(),
			})
			continue
		}

		rankings = append(rankings, Ranking{
			Symbol:   symbol,
			Momentum: metrics.Momentum(window),
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Momentum > rankings[j].Momentum
	})

	return rankings
}

// Select returns the topK candidates by trailing momentum.
func (s *Selector) Select(ctx context.Context, candidates []string, topK int) []string {
	if topK <= 0 || len(candidates) == 0 {
		return []string{}
	}

	rankings := s.Rank(ctx, candidates)
	if topK > len(rankings) {
		topK = len(rankings)
	}

	selected := make([]string, topK)
	for i := 0; i < topK; i++ {
		selected[i] = rankings[i].Symbol
	}

	s.log.Info().Strs("selected", selected).Int("candidates", len(candidates)).
		Msg("Selected pairs by momentum")

	return selected
}
