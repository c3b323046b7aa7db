package allocation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/akastanis/holdwise/internal/domain"
)

type fakeWindows struct {
	series map[string]domain.PriceSeries
}

func (f *fakeWindows) Daily(_ context.Context, symbol string, _ int) (domain.PriceSeries, error) {
	series, ok := f.series[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDataUnavailable, symbol)
	}
	return series, nil
}

func closesSeries(closes ...float64) domain.PriceSeries {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	series := make(domain.PriceSeries, len(closes))
	for i, c := range closes {
		series[i] = domain.PriceBar{Timestamp: start.AddDate(0, 0, i), Close: c}
	}
	return series
}

func sumWeights(weights map[string]float64) float64 {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	return total
}

func TestWeights_Equal(t *testing.T) {
	engine := New(&fakeWindows{}, zerolog.Nop())
	assets := []string{"BTC/USDT", "ETH/USDT", "SOL/USDT"}

	weights := engine.Weights(context.Background(), assets, domain.AllocationEqual)

	assert.Len(t, weights, 3)
	for _, symbol := range assets {
		assert.InDelta(t, 1.0/3.0, weights[symbol], 1e-12)
	}
	assert.InDelta(t, 1.0, sumWeights(weights), 1e-9)
}

func TestWeights_EmptyAssetSet(t *testing.T) {
	engine := New(&fakeWindows{}, zerolog.Nop())

	assert.Empty(t, engine.Weights(context.Background(), nil, domain.AllocationEqual))
	assert.Empty(t, engine.Weights(context.Background(), []string{}, domain.AllocationMomentum))
}

func TestWeights_MomentumNormalization(t *testing.T) {
	provider := &fakeWindows{series: map[string]domain.PriceSeries{
		"BTC/USDT": closesSeries(100, 130), // +0.30
		"ETH/USDT": closesSeries(100, 110), // +0.10
		"SOL/USDT": closesSeries(100, 80),  // -0.20, clipped to 0
	}}
	engine := New(provider, zerolog.Nop())

	weights := engine.Weights(context.Background(),
		[]string{"BTC/USDT", "ETH/USDT", "SOL/USDT"}, domain.AllocationMomentum)

	assert.InDelta(t, 0.75, weights["BTC/USDT"], 1e-9)
	assert.InDelta(t, 0.25, weights["ETH/USDT"], 1e-9)
	assert.Zero(t, weights["SOL/USDT"])
	assert.InDelta(t, 1.0, sumWeights(weights), 1e-9)
}

// All momenta <= 0: the momentum policy must fall back to equal weighting
// rather than produce a degenerate all-zero allocation.
func TestWeights_MomentumFallsBackToEqual(t *testing.T) {
	provider := &fakeWindows{series: map[string]domain.PriceSeries{
		"A/USDT": closesSeries(100, 90),
		"B/USDT": closesSeries(100, 100),
	}}
	engine := New(provider, zerolog.Nop())
	assets := []string{"A/USDT", "B/USDT"}

	weights := engine.Weights(context.Background(), assets, domain.AllocationMomentum)

	equal := engine.Weights(context.Background(), assets, domain.AllocationEqual)
	assert.Equal(t, equal, weights)
}

// Fetch failures contribute zero weight; capital concentrates on the assets
// that do have positive momentum.
func TestWeights_MomentumFetchFailureIsZeroWeight(t *testing.T) {
	provider := &fakeWindows{series: map[string]domain.PriceSeries{
		"UP/USDT": closesSeries(100, 120),
	}}
	engine := New(provider, zerolog.Nop())

	weights := engine.Weights(context.Background(),
		[]string{"UP/USDT", "GONE/USDT"}, domain.AllocationMomentum)

	assert.InDelta(t, 1.0, weights["UP/USDT"], 1e-9)
	assert.Zero(t, weights["GONE/USDT"])
}

// Every fetch failing behaves like an all-flat set: equal fallback.
func TestWeights_MomentumAllFailuresFallBack(t *testing.T) {
	engine := New(&fakeWindows{}, zerolog.Nop())
	assets := []string{"A/USDT", "B/USDT"}

	weights := engine.Weights(context.Background(), assets, domain.AllocationMomentum)
	for _, symbol := range assets {
		assert.InDelta(t, 0.5, weights[symbol], 1e-12)
	}
}

func TestPositionSizes(t *testing.T) {
	weights := map[string]float64{"BTC/USDT": 0.75, "ETH/USDT": 0.25}

	sizes := PositionSizes(weights, 10000)

	assert.InDelta(t, 7500.0, sizes["BTC/USDT"], 1e-9)
	assert.InDelta(t, 2500.0, sizes["ETH/USDT"], 1e-9)

	total := 0.0
	for _, size := range sizes {
		total += size
	}
	assert.InDelta(t, 10000.0, total, 1e-6)
}
