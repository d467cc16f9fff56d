package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimstats/internal/aggregate"
	"github.com/gyeh/claimstats/internal/exitcode"
	"github.com/gyeh/claimstats/internal/ingest"
	"github.com/gyeh/claimstats/internal/logging"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and stats (no writes)",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringArrayVar(&cfg.PharmacyDirs, "pharmacy", nil, "Directory of pharmacy CSV files (repeatable)")
	f.StringArrayVar(&cfg.ClaimDirs, "claims", nil, "Directory of claim JSON files (repeatable)")
	f.StringArrayVar(&cfg.RevertDirs, "reverts", nil, "Directory of revert JSON files (repeatable)")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if len(cfg.PharmacyDirs) == 0 || len(cfg.ClaimDirs) == 0 || len(cfg.RevertDirs) == 0 {
		log.Error().Msg("--pharmacy, --claims, and --reverts are all required")
		os.Exit(exitcode.UsageError)
	}

	pharmacies, pharmacyRes, err := ingest.LoadPharmacies(cfg.PharmacyDirs, log)
	if err != nil {
		log.Error().Err(err).Msg("pharmacy scan failed")
		os.Exit(exitcode.IngestError)
	}
	claims, claimRes := ingest.LoadClaims(cfg.ClaimDirs, log)
	reverts, revertRes := ingest.LoadReverts(cfg.RevertDirs, log)

	kept := aggregate.FilterToKnownPharmacies(claims, pharmacies, log)
	enriched := aggregate.MarkReverted(kept, reverts)

	metricRows := aggregate.ComputeNPINDCMetrics(enriched)
	chainRows := aggregate.ComputeChainRecommendations(enriched, pharmacies)
	quantityRows := aggregate.ComputeQuantityInsights(enriched)

	reverted := 0
	for _, c := range enriched {
		if c.IsReverted {
			reverted++
		}
	}

	fmt.Println("=== claimstats plan ===")
	fmt.Printf("Pharmacies: %d (%d files, %d skipped, %d duplicates)\n",
		len(pharmacies), pharmacyRes.FilesScanned, pharmacyRes.FilesSkipped, pharmacyRes.DuplicatesDropped)
	fmt.Printf("Claims:     %d (%d files, %d skipped, %d duplicates)\n",
		len(claims), claimRes.FilesScanned, claimRes.FilesSkipped, claimRes.DuplicatesDropped)
	fmt.Printf("Reverts:    %d (%d files, %d skipped, %d duplicates)\n",
		len(reverts), revertRes.FilesScanned, revertRes.FilesSkipped, revertRes.DuplicatesDropped)
	fmt.Println()
	fmt.Printf("Claims with unknown npi: %d (would be dropped)\n", len(claims)-len(kept))
	fmt.Printf("Claims reverted:         %d\n", reverted)
	fmt.Println()
	fmt.Println("Projected report sizes:")
	fmt.Printf("  %-26s %d rows\n", "npi_metrics.json", len(metricRows))
	fmt.Printf("  %-26s %d rows\n", "chain_recommendations.json", len(chainRows))
	fmt.Printf("  %-26s %d rows\n", "quantity_insights.json", len(quantityRows))

	return nil
}
