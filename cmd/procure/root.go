package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"procure-service/internal/config"
)

var (
	cfg    config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "procure",
	Short: "Compare supplier price lists and build a least-cost purchase plan",
	Long: `Reads 2 to 5 supplier price lists (xlsx, xls, csv), matches them against
a procurement list ("name,spec,quantity" per line) and picks the cheapest
supplier for every line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg = config.Load()
		// в консоль: только stderr, stdout занят планом
		logger = config.SetupLoggerTo(cfg, os.Stderr)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
