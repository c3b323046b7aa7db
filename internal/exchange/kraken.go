package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/akastanis/holdwise/internal/domain"
)

const krakenBaseURL = "https://api.kraken.com"

type krakenClient struct {
	rest *restClient
	log  zerolog.Logger
}

func newKraken(opts Options, log zerolog.Logger) Client {
	base := opts.BaseURL
	if base == "" {
		base = krakenBaseURL
	}
	return &krakenClient{
		rest: newRESTClient("kraken", base, log),
		log:  log.With().Str("client", "kraken").Logger(),
	}
}

func (c *krakenClient) Name() string { return "kraken" }

type krakenResponse struct {
	Error  []string                   `json:"error"`
	Result map[string]json.RawMessage `json:"result"`
}

// Daily fetches trailing daily OHLC bars, oldest first, trimmed to limit.
func (c *krakenClient) Daily(ctx context.Context, symbol string, limit int) (domain.PriceSeries, error) {
	query := url.Values{}
	query.Set("pair", krakenPair(symbol))
	query.Set("interval", "1440")

	var resp krakenResponse
	if err := c.rest.getJSON(ctx, "/0/public/OHLC", query, &resp); err != nil {
		return nil, fmt.Errorf("%w: kraken OHLC for %s: %v", domain.ErrDataUnavailable, symbol, err)
	}
	if len(resp.Error) > 0 {
		return nil, fmt.Errorf("%w: kraken OHLC for %s: %s", domain.ErrDataUnavailable, symbol, strings.Join(resp.Error, "; "))
	}

	series := make(domain.PriceSeries, 0, limit)
	for key, raw := range resp.Result {
		if key == "last" {
			continue
		}

		// Rows are [time, open, high, low, close, vwap, volume, count].
		var rows [][]interface{}
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("%w: kraken OHLC for %s: %v", domain.ErrDataUnavailable, symbol, err)
		}

		for _, row := range rows {
			bar, err := krakenBar(row)
			if err != nil {
				c.log.Warn().Err(err).Str("symbol", symbol).Msg("Skipping malformed OHLC row")
				continue
			}
			series = append(series, bar)
		}
		break
	}

	// Kraken returns up to 720 bars regardless of how few were asked for.
	if limit > 0 && len(series) > limit {
		series = series[len(series)-limit:]
	}
	return series, nil
}

// LastPrice returns the latest trade price from the public ticker.
func (c *krakenClient) LastPrice(ctx context.Context, symbol string) (float64, error) {
	query := url.Values{}
	query.Set("pair", krakenPair(symbol))

	var resp krakenResponse
	if err := c.rest.getJSON(ctx, "/0/public/Ticker", query, &resp); err != nil {
		return 0, fmt.Errorf("%w: kraken ticker for %s: %v", domain.ErrDataUnavailable, symbol, err)
	}
	if len(resp.Error) > 0 {
		return 0, fmt.Errorf("%w: kraken ticker for %s: %s", domain.ErrDataUnavailable, symbol, strings.Join(resp.Error, "; "))
	}

	for _, raw := range resp.Result {
		var ticker struct {
			C []string `json:"c"` // [price, lot volume]
		}
		if err := json.Unmarshal(raw, &ticker); err != nil || len(ticker.C) == 0 {
			continue
		}
		price, err := strconv.ParseFloat(ticker.C[0], 64)
		if err != nil {
			continue
		}
		return price, nil
	}

	return 0, fmt.Errorf("%w: kraken ticker for %s: no price in response", domain.ErrDataUnavailable, symbol)
}

func krakenBar(row []interface{}) (domain.PriceBar, error) {
	if len(row) < 7 {
		return domain.PriceBar{}, fmt.Errorf("OHLC row has %d fields, want at least 7", len(row))
	}

	ts, ok := row[0].(float64)
	if !ok {
		return domain.PriceBar{}, fmt.Errorf("OHLC timestamp is not numeric")
	}

	fields := make([]float64, 4)
	for i := 1; i <= 4; i++ {
		s, ok := row[i].(string)
		if !ok {
			return domain.PriceBar{}, fmt.Errorf("OHLC field %d is not a string", i)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return domain.PriceBar{}, fmt.Errorf("OHLC field %d: %w", i, err)
		}
		fields[i-1] = v
	}

	volume := 0.0
	if s, ok := row[6].(string); ok {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			volume = v
		}
	}

	return domain.PriceBar{
		Timestamp: time.Unix(int64(ts), 0).UTC(),
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    volume,
	}, nil
}

// krakenPair maps "BTC/USD" to the exchange form "XBTUSD".
func krakenPair(symbol string) string {
	parts := strings.Split(strings.ToUpper(symbol), "/")
	for i, part := range parts {
		if part == "BTC" {
			parts[i] = "XBT"
		}
	}
	return strings.Join(parts, "")
}
