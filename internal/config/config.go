// Package config loads and validates the strategy configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/akastanis/holdwise/internal/domain"
	"github.com/akastanis/holdwise/internal/exchange"
)

// Config holds the full strategy configuration. It is read from a JSON
// file, with API credentials overridable from the environment.
type Config struct {
	Exchange           string   `json:"exchange"`
	APIKey             string   `json:"api_key"`
	APISecret          string   `json:"api_secret"`
	TradingPairs       []string `json:"trading_pairs"`
	TotalCapital       float64  `json:"total_capital"`
	AllocationStrategy string   `json:"allocation_strategy"`
	DynamicSelection   bool     `json:"dynamic_selection"`
	MaxPairs           int      `json:"max_pairs"`
	RebalanceEnabled   bool     `json:"rebalance_enabled"`
	RebalanceFrequency string   `json:"rebalance_frequency"`
	LiveTrading        bool     `json:"live_trading"`
	DataDir            string   `json:"data_dir"`
	Port               int      `json:"port"`
	LogLevel           string   `json:"log_level"`
	LogPretty          bool     `json:"log_pretty"`
}

// Load reads configuration from a JSON file and applies environment
// overrides for credentials.
func Load(path string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Credentials from the environment take precedence over the file so
	// secrets can stay out of version-controlled configs.
	cfg.APIKey = getEnv("HOLDWISE_API_KEY", cfg.APIKey)
	cfg.APISecret = getEnv("HOLDWISE_API_SECRET", cfg.APISecret)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Exchange:           "binance",
		AllocationStrategy: string(domain.AllocationEqual),
		MaxPairs:           5,
		RebalanceFrequency: "24h",
		DataDir:            "data",
		Port:               8001,
		LogLevel:           "info",
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if len(c.TradingPairs) == 0 {
		return fmt.Errorf("config invalid: trading_pairs must not be empty")
	}
	if c.TotalCapital <= 0 {
		return fmt.Errorf("config invalid: total_capital must be positive, got %v", c.TotalCapital)
	}

	policy := domain.AllocationPolicy(c.AllocationStrategy)
	if policy != domain.AllocationEqual && policy != domain.AllocationMomentum {
		return fmt.Errorf("config invalid: allocation_strategy must be %q or %q, got %q",
			domain.AllocationEqual, domain.AllocationMomentum, c.AllocationStrategy)
	}

	known := exchange.Known()
	found := false
	for _, name := range known {
		if strings.EqualFold(c.Exchange, name) {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config invalid: exchange %q not supported, known: %s",
			c.Exchange, strings.Join(known, ", "))
	}

	if c.MaxPairs <= 0 {
		return fmt.Errorf("config invalid: max_pairs must be positive, got %d", c.MaxPairs)
	}

	if _, err := time.ParseDuration(c.RebalanceFrequency); err != nil {
		return fmt.Errorf("config invalid: rebalance_frequency %q: %w", c.RebalanceFrequency, err)
	}

	// Only the paper executor exists; refuse to start with an order path
	// the binary cannot honor.
	if c.LiveTrading {
		return fmt.Errorf("config invalid: live_trading is not supported, set it to false for paper trading")
	}

	return nil
}

// AllocationPolicy returns the configured allocation policy as a typed value.
func (c *Config) AllocationPolicy() domain.AllocationPolicy {
	return domain.AllocationPolicy(c.AllocationStrategy)
}

// RebalanceInterval returns the parsed rebalance frequency. Validate must
// have been called first.
func (c *Config) RebalanceInterval() time.Duration {
	d, _ := time.ParseDuration(c.RebalanceFrequency)
	return d
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
