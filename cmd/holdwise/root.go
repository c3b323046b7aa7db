package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/akastanis/holdwise/internal/config"
	"github.com/akastanis/holdwise/internal/domain"
	"github.com/akastanis/holdwise/internal/exchange"
	"github.com/akastanis/holdwise/internal/history"
	"github.com/akastanis/holdwise/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "holdwise",
	Short:         "Buy-and-hold crypto portfolio engine",
	Long:          "Holdwise backtests a crypto pair universe over daily bars and runs a paper-trading buy-and-hold strategy with periodic rebalancing.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.json", "path to the JSON config file")
	rootCmd.AddCommand(backtestCmd)
	rootCmd.AddCommand(tradeCmd)
}

// loadRuntime loads config and wires the shared data plumbing: logger,
// exchange client and the history-backed market data source.
func loadRuntime() (*config.Config, zerolog.Logger, domain.MarketData, *history.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), nil, nil, err
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})

	client, err := exchange.New(cfg.Exchange, exchange.Options{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
	}, log)
	if err != nil {
		return nil, zerolog.Nop(), nil, nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, zerolog.Nop(), nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := history.Open(filepath.Join(cfg.DataDir, "history.db"), log)
	if err != nil {
		return nil, zerolog.Nop(), nil, nil, fmt.Errorf("failed to open price history: %w", err)
	}

	data := history.NewCachingMarketData(client, store, log)
	return cfg, log, data, store, nil
}
