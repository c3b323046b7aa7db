// Package allocation converts a selected asset list into capital weights
// and position sizes.
package allocation

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/akastanis/holdwise/internal/domain"
	"github.com/akastanis/holdwise/internal/metrics"
)

// WindowProvider fetches the trailing window used for momentum weighting.
type WindowProvider interface {
	Daily(ctx context.Context, symbol string, limit int) (domain.PriceSeries, error)
}

// Engine produces allocation proposals. It is pure with respect to portfolio
// state: it only returns a proposal and never mutates positions.
type Engine struct {
	provider WindowProvider
	log      zerolog.Logger
}

// New creates an allocation engine.
func New(provider WindowProvider, log zerolog.Logger) *Engine {
	return &Engine{
		provider: provider,
		log:      log.With().Str("component", "allocation").Logger(),
	}
}

// Weights computes per-asset capital weights under the given policy.
// Weights are >= 0 and sum to 1.0; the map is empty iff assets is empty.
//
// EQUAL assigns 1/n to each asset. MOMENTUM weights each asset by its
// trailing momentum clipped at zero; when every clipped momentum is zero
// (all assets flat or negative, or all fetches failed) the engine falls back
// to EQUAL so the proposal never degenerates to all-zero weights.
func (e *Engine) Weights(ctx context.Context, assets []string, policy domain.AllocationPolicy) map[string]float64 {
	if len(assets) == 0 {
		return map[string]float64{}
	}

	if policy == domain.AllocationMomentum {
		if weights, ok := e.momentumWeights(ctx, assets); ok {
			return weights
		}
		e.log.Info().Msg("No positive momentum in asset set, falling back to equal weights")
	}

	return equalWeights(assets)
}

// PositionSizes converts weights into capital amounts.
func PositionSizes(weights map[string]float64, totalCapital float64) map[string]float64 {
	sizes := make(map[string]float64, len(weights))
	for symbol, weight := range weights {
		sizes[symbol] = totalCapital * weight
	}
	return sizes
}

func equalWeights(assets []string) map[string]float64 {
	weights := make(map[string]float64, len(assets))
	for _, symbol := range assets {
		weights[symbol] = 1.0 / float64(len(assets))
	}
	return weights
}

// momentumWeights returns normalized clipped-momentum weights, or ok=false
// when the clipped momentum sum is zero and the caller must fall back.
func (e *Engine) momentumWeights(ctx context.Context, assets []string) (map[string]float64, bool) {
	clipped := make(map[string]float64, len(assets))
	total := 0.0

	for _, symbol := range assets {
		window, err := e.provider.Daily(ctx, symbol, domain.MomentumWindowBars)
		if err != nil {
			// Same neutral-zero policy as the selector: a failed fetch
			// contributes no weight but keeps the asset in the set.
			e.log.Warn().Err(err).Str("symbol", symbol).
				Msg("Window fetch failed, momentum weight set to zero")
			clipped[symbol] = 0
			continue
		}

		momentum := metrics.Momentum(window)
		if momentum < 0 {
			momentum = 0
		}
		clipped[symbol] = momentum
		total += momentum
	}

	if total <= 0 {
		return nil, false
	}

	weights := make(map[string]float64, len(assets))
	for symbol, m := range clipped {
		weights[symbol] = m / total
	}
	return weights, true
}
