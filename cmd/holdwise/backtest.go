package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/akastanis/holdwise/internal/backtest"
	"github.com/akastanis/holdwise/internal/report"
	"github.com/akastanis/holdwise/internal/storage"
)

var (
	backtestDays  int
	backtestPairs []string
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Evaluate buy-and-hold performance over trailing daily bars",
	RunE:  runBacktest,
}

func init() {
	backtestCmd.Flags().IntVar(&backtestDays, "days", 365, "trailing window length in days")
	backtestCmd.Flags().StringSliceVar(&backtestPairs, "pairs", nil, "pairs to evaluate (defaults to trading_pairs from config)")
}

func runBacktest(cmd *cobra.Command, _ []string) error {
	cfg, log, data, histStore, err := loadRuntime()
	if err != nil {
		return err
	}
	defer histStore.Close()

	pairs := backtestPairs
	if len(pairs) == 0 {
		pairs = cfg.TradingPairs
	}

	log.Info().Strs("pairs", pairs).Int("days", backtestDays).Msg("Starting backtest")

	outcome := backtest.New(data, log).Run(cmd.Context(), pairs, backtestDays)
	if len(outcome.Failed) > 0 {
		log.Warn().Strs("failed", outcome.Failed).Msg("Some pairs could not be backtested")
	}

	agg := report.Aggregate(outcome.Results)
	rendered := report.Render(agg, backtestDays)

	store, err := storage.New(cfg.DataDir, log)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if _, err := store.SaveResults(outcome.Results, backtestDays, now); err != nil {
		log.Error().Err(err).Msg("Failed to save backtest results")
	}
	if _, err := store.SaveReport(rendered, now); err != nil {
		log.Error().Err(err).Msg("Failed to save backtest report")
	}

	// Partial fetch failures are reported above but never fail the run;
	// only configuration problems produce a non-zero exit.
	fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return nil
}
