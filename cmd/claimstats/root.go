package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimstats/internal/config"
	"github.com/gyeh/claimstats/internal/exitcode"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "claimstats",
	Short: "Pharmacy claims analytics pipeline",
	Long:  "Aggregates pharmacy directory, claim, and revert sources into fill metrics, chain price recommendations, and dispensed-quantity insights.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("CLAIMSTATS_DB_URL"), "Postgres connection string (or set CLAIMSTATS_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
