package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimstats/internal/exitcode"
	"github.com/gyeh/claimstats/internal/logging"
	"github.com/gyeh/claimstats/internal/pipeline"
)

var configFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full analytics pipeline",
	RunE:  runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringArrayVar(&cfg.PharmacyDirs, "pharmacy", nil, "Directory of pharmacy CSV files (repeatable)")
	f.StringArrayVar(&cfg.ClaimDirs, "claims", nil, "Directory of claim JSON files (repeatable)")
	f.StringArrayVar(&cfg.RevertDirs, "reverts", nil, "Directory of revert JSON files (repeatable)")
	f.StringVar(&cfg.OutputDir, "output-dir", "output", "Directory for the report artifacts")
	f.StringVar(&cfg.ExportClaims, "export-claims", "", "Optional Parquet path for the enriched claims")
	f.StringVar(&configFile, "config", "", "Optional YAML config file")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		if err := cfg.LoadFromFile(configFile); err != nil {
			lg := logging.Setup(cfg.LogFormat)
			lg.Error().Err(err).Msg("config file load failed")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.Validate(); err != nil {
		lg := logging.Setup(cfg.LogFormat)
		lg.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		lg := logging.Setup(cfg.LogFormat)
		lg.Error().Err(err).Msg("cannot create output dir")
		os.Exit(exitcode.ValidationError)
	}

	log, closer, err := logging.SetupWithFile(cfg.LogFormat, cfg.OutputDir)
	if err != nil {
		lg := logging.Setup(cfg.LogFormat)
		lg.Error().Err(err).Msg("cannot open log file")
		os.Exit(exitcode.ValidationError)
	}
	defer closer.Close()

	log.Info().Msg("starting pharmacy analytics pipeline")

	summary, err := pipeline.Run(context.Background(), log, &cfg)
	if err != nil {
		var pe *pipeline.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("pipeline failed")
			if pe.Phase == "load" {
				os.Exit(exitcode.IngestError)
			}
			os.Exit(exitcode.ReportError)
		}
		log.Error().Err(err).Msg("pipeline failed")
		os.Exit(exitcode.ReportError)
	}

	fmt.Printf("Run complete: %d claims aggregated into %d metric, %d chain, %d quantity rows (%.1fs)\n",
		summary.ClaimsEnriched, summary.MetricRows, summary.ChainRows, summary.QuantityRows,
		summary.DurationTotal.Seconds())
	return nil
}
