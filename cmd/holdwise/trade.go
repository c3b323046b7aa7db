package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/akastanis/holdwise/internal/exchange"
	"github.com/akastanis/holdwise/internal/portfolio"
	"github.com/akastanis/holdwise/internal/rebalance"
	"github.com/akastanis/holdwise/internal/scheduler"
	"github.com/akastanis/holdwise/internal/server"
	"github.com/akastanis/holdwise/internal/storage"
	"github.com/akastanis/holdwise/internal/strategy"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Run the paper-trading strategy loop",
	RunE:  runTrade,
}

func runTrade(cmd *cobra.Command, _ []string) error {
	cfg, log, data, histStore, err := loadRuntime()
	if err != nil {
		return err
	}
	defer histStore.Close()

	store, err := storage.New(cfg.DataDir, log)
	if err != nil {
		return err
	}

	tracker := portfolio.New(log)
	executor := exchange.NewPaperExecutor(log)
	svc := strategy.New(cfg, data, executor, tracker, store, log)
	reb := rebalance.New(tracker, executor, svc.Reinvest, cfg.RebalanceEnabled, cfg.RebalanceInterval(), log)

	log.Info().
		Str("exchange", cfg.Exchange).
		Str("allocation", cfg.AllocationStrategy).
		Bool("dynamic_selection", cfg.DynamicSelection).
		Bool("rebalance", cfg.RebalanceEnabled).
		Msg("Starting holdwise")

	ctx := cmd.Context()
	if err := svc.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Initial entries incomplete, continuing with partial book")
	}
	reb.MarkRebalanced(time.Now().UTC())

	sched := scheduler.New(log)
	if err := sched.Add("rebalance", "@every 1h", scheduler.RebalanceJob(reb)); err != nil {
		return err
	}
	if err := sched.Add("performance", "@every 6h", scheduler.PerformanceJob(svc, log)); err != nil {
		return err
	}
	sched.Start()

	srv := server.New(cfg.Port, svc, reb, log)
	serverErr := make(chan error, 1)
	go func() { serverErr <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("Status API failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Status API shutdown failed")
	}
	sched.Stop()

	if err := svc.SaveState(); err != nil {
		log.Error().Err(err).Msg("Failed to persist position book on shutdown")
	}
	log.Info().Msg("Holdwise stopped")
	return nil
}
