package domain

import (
	"context"
	"errors"
)

// Failure taxonomy. Per-asset failures are isolated: they are logged and
// resolved to neutral values, never escalated to abort a batch.
var (
	// ErrDataUnavailable marks a failed price fetch for one asset.
	ErrDataUnavailable = errors.New("market data unavailable")
	// ErrExecutionFailed marks a failed trade placement for one asset.
	ErrExecutionFailed = errors.New("trade execution failed")
)

// MarketData provides historical bars and live prices for one exchange.
type MarketData interface {
	// Daily fetches up to limit trailing daily bars for a symbol, oldest
	// first. An empty or short series is a valid response.
	Daily(ctx context.Context, symbol string, limit int) (PriceSeries, error)

	// LastPrice returns the most recent trade price for a symbol.
	LastPrice(ctx context.Context, symbol string) (float64, error)
}

// PriceSource is the read-only price lookup used for position valuation.
type PriceSource interface {
	LastPrice(ctx context.Context, symbol string) (float64, error)
}

// TradeExecutor places market orders. Implementations decide whether orders
// are routed to an exchange or recorded as paper trades.
type TradeExecutor interface {
	MarketBuy(ctx context.Context, symbol string, amount, price float64) error
	MarketSell(ctx context.Context, symbol string, amount float64) error
}
