package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akastanis/holdwise/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"exchange": "kraken",
		"trading_pairs": ["BTC/USD", "ETH/USD"],
		"total_capital": 10000,
		"allocation_strategy": "momentum",
		"dynamic_selection": true,
		"max_pairs": 3,
		"rebalance_enabled": true,
		"rebalance_frequency": "168h"
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "kraken", cfg.Exchange)
	assert.Equal(t, []string{"BTC/USD", "ETH/USD"}, cfg.TradingPairs)
	assert.Equal(t, 10000.0, cfg.TotalCapital)
	assert.Equal(t, domain.AllocationMomentum, cfg.AllocationPolicy())
	assert.True(t, cfg.DynamicSelection)
	assert.Equal(t, 3, cfg.MaxPairs)
	assert.Equal(t, 168*time.Hour, cfg.RebalanceInterval())
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `{
		"trading_pairs": ["BTC/USDT"],
		"total_capital": 500
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "binance", cfg.Exchange)
	assert.Equal(t, domain.AllocationEqual, cfg.AllocationPolicy())
	assert.Equal(t, 5, cfg.MaxPairs)
	assert.Equal(t, 24*time.Hour, cfg.RebalanceInterval())
	assert.Equal(t, 8001, cfg.Port)
	assert.False(t, cfg.LiveTrading)
}

func TestLoad_EnvCredentialsOverrideFile(t *testing.T) {
	t.Setenv("HOLDWISE_API_KEY", "env-key")
	t.Setenv("HOLDWISE_API_SECRET", "env-secret")

	path := writeConfig(t, `{
		"trading_pairs": ["BTC/USDT"],
		"total_capital": 500,
		"api_key": "file-key",
		"api_secret": "file-secret"
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "env-secret", cfg.APISecret)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaults()
		cfg.TradingPairs = []string{"BTC/USDT"}
		cfg.TotalCapital = 1000
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"no pairs", func(c *Config) { c.TradingPairs = nil }, "trading_pairs"},
		{"zero capital", func(c *Config) { c.TotalCapital = 0 }, "total_capital"},
		{"negative capital", func(c *Config) { c.TotalCapital = -1 }, "total_capital"},
		{"bad strategy", func(c *Config) { c.AllocationStrategy = "martingale" }, "allocation_strategy"},
		{"unknown exchange", func(c *Config) { c.Exchange = "mtgox" }, "not supported"},
		{"zero max pairs", func(c *Config) { c.MaxPairs = 0 }, "max_pairs"},
		{"bad frequency", func(c *Config) { c.RebalanceFrequency = "fortnightly" }, "rebalance_frequency"},
		{"live trading", func(c *Config) { c.LiveTrading = true }, "live_trading"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidate_ExchangeCaseInsensitive(t *testing.T) {
	cfg := defaults()
	cfg.TradingPairs = []string{"BTC/USDT"}
	cfg.TotalCapital = 1000
	cfg.Exchange = "Binance"
	assert.NoError(t, cfg.Validate())
}
