package backtest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akastanis/holdwise/internal/domain"
)

type fakeData struct {
	mu     sync.Mutex
	series map[string]domain.PriceSeries
	errs   map[string]error
	calls  []string
}

func (f *fakeData) Daily(_ context.Context, symbol string, _ int) (domain.PriceSeries, error) {
	f.mu.Lock()
	f.calls = append(f.calls, symbol)
	f.mu.Unlock()
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	return f.series[symbol], nil
}

func (f *fakeData) LastPrice(context.Context, string) (float64, error) { return 0, nil }

func seriesFromCloses(closes ...float64) domain.PriceSeries {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(domain.PriceSeries, len(closes))
	for i, c := range closes {
		series[i] = domain.PriceBar{Timestamp: base.AddDate(0, 0, i), Close: c}
	}
	return series
}

func TestRun(t *testing.T) {
	data := &fakeData{series: map[string]domain.PriceSeries{
		"BTC/USDT": seriesFromCloses(100, 110, 121),
		"ETH/USDT": seriesFromCloses(200, 180),
	}}
	runner := New(data, zerolog.Nop())

	outcome := runner.Run(context.Background(), []string{"BTC/USDT", "ETH/USDT"}, 30)

	require.Empty(t, outcome.Failed)
	require.Len(t, outcome.Results, 2)
	assert.InDelta(t, 0.21, outcome.Results["BTC/USDT"].TotalReturn, 1e-9)
	assert.InDelta(t, -0.10, outcome.Results["ETH/USDT"].TotalReturn, 1e-9)
}

func TestRun_FailedPairIsOmittedNotFatal(t *testing.T) {
	data := &fakeData{
		series: map[string]domain.PriceSeries{
			"BTC/USDT": seriesFromCloses(100, 105),
		},
		errs: map[string]error{"XYZ/USDT": domain.ErrDataUnavailable},
	}
	runner := New(data, zerolog.Nop())

	outcome := runner.Run(context.Background(), []string{"BTC/USDT", "XYZ/USDT"}, 30)

	assert.Equal(t, []string{"XYZ/USDT"}, outcome.Failed)
	require.Len(t, outcome.Results, 1)
	assert.Contains(t, outcome.Results, "BTC/USDT")
}

func TestRun_AllPairsFail(t *testing.T) {
	data := &fakeData{errs: map[string]error{
		"A/USDT": domain.ErrDataUnavailable,
		"B/USDT": domain.ErrDataUnavailable,
	}}
	runner := New(data, zerolog.Nop())

	outcome := runner.Run(context.Background(), []string{"A/USDT", "B/USDT"}, 30)

	assert.Empty(t, outcome.Results)
	assert.Equal(t, []string{"A/USDT", "B/USDT"}, outcome.Failed)
}

func TestRun_EmptyPairs(t *testing.T) {
	runner := New(&fakeData{}, zerolog.Nop())
	outcome := runner.Run(context.Background(), nil, 30)
	assert.Empty(t, outcome.Results)
	assert.Empty(t, outcome.Failed)
}

func TestRun_FailedOrderMatchesInputOrder(t *testing.T) {
	data := &fakeData{errs: map[string]error{
		"C/USDT": domain.ErrDataUnavailable,
		"A/USDT": domain.ErrDataUnavailable,
	}}
	runner := New(data, zerolog.Nop())

	outcome := runner.Run(context.Background(), []string{"C/USDT", "A/USDT"}, 30)
	assert.Equal(t, []string{"C/USDT", "A/USDT"}, outcome.Failed)
}
