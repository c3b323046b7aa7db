// Package main is the entry point for holdwise, a buy-and-hold crypto
// portfolio engine. It backtests a pair universe over trailing daily bars
// and runs a paper-trading strategy loop with periodic rebalancing.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
