package history

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/akastanis/holdwise/internal/domain"
)

// CachingMarketData wraps a live market data source with the archive:
// successful fetches are persisted, and when the upstream is unreachable
// the archive serves the last known bars instead.
type CachingMarketData struct {
	upstream domain.MarketData
	store    *Store
	log      zerolog.Logger
}

// NewCachingMarketData wraps upstream with read-through caching.
func NewCachingMarketData(upstream domain.MarketData, store *Store, log zerolog.Logger) *CachingMarketData {
	return &CachingMarketData{
		upstream: upstream,
		store:    store,
		log:      log.With().Str("component", "history_cache").Logger(),
	}
}

// Daily fetches bars from the upstream source, archiving them on success.
// On upstream failure it falls back to archived bars when at least two are
// available, otherwise the upstream error is returned unchanged.
func (c *CachingMarketData) Daily(ctx context.Context, symbol string, limit int) (domain.PriceSeries, error) {
	series, err := c.upstream.Daily(ctx, symbol, limit)
	if err == nil {
		if saveErr := c.store.SaveDaily(symbol, series); saveErr != nil {
			c.log.Warn().Err(saveErr).Str("symbol", symbol).Msg("Failed to archive daily bars")
		}
		return series, nil
	}

	cached, cacheErr := c.store.Daily(symbol, limit)
	if cacheErr != nil {
		c.log.Warn().Err(cacheErr).Str("symbol", symbol).Msg("Archive lookup failed")
		return nil, err
	}
	if len(cached) < 2 {
		return nil, err
	}

	c.log.Warn().
		Err(err).
		Str("symbol", symbol).
		Int("cached_bars", len(cached)).
		Msg("Upstream fetch failed, serving archived bars")
	return cached, nil
}

// LastPrice passes through to the upstream source. Spot prices go stale too
// fast for the archive to be a sane fallback.
func (c *CachingMarketData) LastPrice(ctx context.Context, symbol string) (float64, error) {
	price, err := c.upstream.LastPrice(ctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("last price for %s: %w", symbol, err)
	}
	return price, nil
}
