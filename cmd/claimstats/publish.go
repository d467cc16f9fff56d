package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimstats/internal/db"
	"github.com/gyeh/claimstats/internal/exitcode"
	"github.com/gyeh/claimstats/internal/logging"
	"github.com/gyeh/claimstats/internal/publish"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Load generated report artifacts into Postgres",
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&cfg.InputDir, "input-dir", "output", "Directory holding the report artifacts")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := cfg.ValidateForPublish(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	res, err := publish.Run(ctx, pool, log, cfg.InputDir)
	if err != nil {
		log.Error().Err(err).Msg("publish failed")
		os.Exit(exitcode.PublishError)
	}

	fmt.Printf("Publish complete: batch %s, %d metric, %d chain, %d quantity rows (%.1fs)\n",
		res.BatchID, res.MetricRows, res.ChainRows, res.QuantityRows, res.Duration.Seconds())
	return nil
}
