package exchange

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/akastanis/holdwise/internal/domain"
)

const binanceBaseURL = "https://api.binance.com"

type binanceClient struct {
	rest *restClient
	log  zerolog.Logger
}

func newBinance(opts Options, log zerolog.Logger) Client {
	base := opts.BaseURL
	if base == "" {
		base = binanceBaseURL
	}
	return &binanceClient{
		rest: newRESTClient("binance", base, log),
		log:  log.With().Str("client", "binance").Logger(),
	}
}

func (c *binanceClient) Name() string { return "binance" }

// Daily fetches trailing daily klines, oldest first.
func (c *binanceClient) Daily(ctx context.Context, symbol string, limit int) (domain.PriceSeries, error) {
	query := url.Values{}
	query.Set("symbol", binanceSymbol(symbol))
	query.Set("interval", "1d")
	query.Set("limit", strconv.Itoa(limit))

	// Klines come back as positional arrays:
	// [openTime, open, high, low, close, volume, closeTime, ...]
	var raw [][]interface{}
	if err := c.rest.getJSON(ctx, "/api/v3/klines", query, &raw); err != nil {
		return nil, fmt.Errorf("%w: binance klines for %s: %v", domain.ErrDataUnavailable, symbol, err)
	}

	series := make(domain.PriceSeries, 0, len(raw))
	for _, kline := range raw {
		bar, err := binanceBar(kline)
		if err != nil {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("Skipping malformed kline")
			continue
		}
		series = append(series, bar)
	}
	return series, nil
}

// LastPrice returns the latest trade price.
func (c *binanceClient) LastPrice(ctx context.Context, symbol string) (float64, error) {
	query := url.Values{}
	query.Set("symbol", binanceSymbol(symbol))

	var ticker struct {
		Price string `json:"price"`
	}
	if err := c.rest.getJSON(ctx, "/api/v3/ticker/price", query, &ticker); err != nil {
		return 0, fmt.Errorf("%w: binance ticker for %s: %v", domain.ErrDataUnavailable, symbol, err)
	}

	price, err := strconv.ParseFloat(ticker.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: binance ticker for %s: bad price %q", domain.ErrDataUnavailable, symbol, ticker.Price)
	}
	return price, nil
}

func binanceBar(kline []interface{}) (domain.PriceBar, error) {
	if len(kline) < 6 {
		return domain.PriceBar{}, fmt.Errorf("kline has %d fields, want at least 6", len(kline))
	}

	openTime, ok := kline[0].(float64)
	if !ok {
		return domain.PriceBar{}, fmt.Errorf("kline open time is not numeric")
	}

	fields := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		s, ok := kline[i].(string)
		if !ok {
			return domain.PriceBar{}, fmt.Errorf("kline field %d is not a string", i)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return domain.PriceBar{}, fmt.Errorf("kline field %d: %w", i, err)
		}
		fields[i-1] = v
	}

	return domain.PriceBar{
		Timestamp: time.UnixMilli(int64(openTime)).UTC(),
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    fields[4],
	}, nil
}

// binanceSymbol maps "BTC/USDT" to the exchange form "BTCUSDT".
func binanceSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "/", ""))
}
