package exchange

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaperExecutor records would-be orders in the log without routing them to
// an exchange. Live order routing is out of scope; this is the only
// executor the registry hands out.
type PaperExecutor struct {
	log zerolog.Logger
}

// NewPaperExecutor creates a paper-trading executor.
func NewPaperExecutor(log zerolog.Logger) *PaperExecutor {
	return &PaperExecutor{log: log.With().Str("component", "paper_executor").Logger()}
}

// MarketBuy logs a simulated market buy.
func (e *PaperExecutor) MarketBuy(_ context.Context, symbol string, amount, price float64) error {
	e.log.Info().
		Str("order_id", uuid.NewString()).
		Str("symbol", symbol).
		Float64("amount", amount).
		Float64("price", price).
		Msg("[PAPER] Market buy")
	return nil
}

// MarketSell logs a simulated market sell.
func (e *PaperExecutor) MarketSell(_ context.Context, symbol string, amount float64) error {
	e.log.Info().
		Str("order_id", uuid.NewString()).
		Str("symbol", symbol).
		Float64("amount", amount).
		Msg("[PAPER] Market sell")
	return nil
}
