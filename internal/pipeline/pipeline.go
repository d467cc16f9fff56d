// Package pipeline orchestrates a full analytics run: load the three record
// sources, enrich the claims, and emit the three report artifacts.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/claimstats/internal/aggregate"
	"github.com/gyeh/claimstats/internal/config"
	"github.com/gyeh/claimstats/internal/ingest"
	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/parquetexport"
	"github.com/gyeh/claimstats/internal/report"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// BuildReports is the aggregation entry point: given the three deduplicated
// record collections, it runs the join/enrichment stage once and the three
// aggregators independently, writing one artifact each into outDir. The
// aggregations share no state beyond the read-only enriched slice, so each
// runs in its own goroutine. Returns the enriched claims and per-artifact row
// counts.
func BuildReports(log zerolog.Logger, pharmacies []model.PharmacyRecord, claims []model.ClaimRecord, reverts []model.RevertRecord, outDir string) ([]model.EnrichedClaim, map[string]int, error) {
	kept := aggregate.FilterToKnownPharmacies(claims, pharmacies, log)
	enriched := aggregate.MarkReverted(kept, reverts)

	type reportResult struct {
		artifact string
		rows     int
		err      error
	}
	resCh := make(chan reportResult, 3)

	go func() {
		rows := aggregate.ComputeNPINDCMetrics(enriched)
		err := report.WriteJSON(filepath.Join(outDir, model.MetricsFile), rows)
		resCh <- reportResult{model.MetricsFile, len(rows), err}
	}()
	go func() {
		rows := aggregate.ComputeChainRecommendations(enriched, pharmacies)
		err := report.WriteJSON(filepath.Join(outDir, model.ChainsFile), rows)
		resCh <- reportResult{model.ChainsFile, len(rows), err}
	}()
	go func() {
		rows := aggregate.ComputeQuantityInsights(enriched)
		err := report.WriteJSON(filepath.Join(outDir, model.QuantitiesFile), rows)
		resCh <- reportResult{model.QuantitiesFile, len(rows), err}
	}()

	rowCounts := make(map[string]int, 3)
	for i := 0; i < 3; i++ {
		res := <-resCh
		if res.err != nil {
			return nil, nil, fmt.Errorf("%s: %w", res.artifact, res.err)
		}
		rowCounts[res.artifact] = res.rows
		log.Info().Str("artifact", res.artifact).Int("rows", res.rows).Msg("report written")
	}
	return enriched, rowCounts, nil
}

// Run executes the full pipeline: load → enrich/report → export.
func Run(ctx context.Context, log zerolog.Logger, cfg *config.Config) (*model.RunSummary, error) {
	totalStart := time.Now()
	runID := uuid.New()
	log = log.With().Str("run_id", runID.String()).Logger()

	// Phase 1: Load
	loadStart := time.Now()
	log.Info().
		Strs("pharmacy_dirs", cfg.PharmacyDirs).
		Strs("claim_dirs", cfg.ClaimDirs).
		Strs("revert_dirs", cfg.RevertDirs).
		Msg("loading record sources")

	pharmacies, _, err := ingest.LoadPharmacies(cfg.PharmacyDirs, log)
	if err != nil {
		return nil, &PipelineError{Phase: "load", Err: err}
	}
	claims, _ := ingest.LoadClaims(cfg.ClaimDirs, log)
	reverts, _ := ingest.LoadReverts(cfg.RevertDirs, log)
	loadDur := time.Since(loadStart)

	// Phase 2: Enrich + report
	reportStart := time.Now()
	enriched, rowCounts, err := BuildReports(log, pharmacies, claims, reverts, cfg.OutputDir)
	if err != nil {
		return nil, &PipelineError{Phase: "report", Err: err}
	}

	revertedCount := 0
	for _, c := range enriched {
		if c.IsReverted {
			revertedCount++
		}
	}
	reportDur := time.Since(reportStart)
	log.Info().
		Int("claims", len(enriched)).
		Int("dropped", len(claims)-len(enriched)).
		Int("reverted", revertedCount).
		Dur("duration", reportDur).
		Msg("enrichment and reports complete")

	// Phase 4: Optional Parquet export of the enriched claims
	var exportDur time.Duration
	exported := 0
	if cfg.ExportClaims != "" {
		exportStart := time.Now()
		exported, err = parquetexport.Write(cfg.ExportClaims, enriched)
		if err != nil {
			return nil, &PipelineError{Phase: "export", Err: err}
		}
		exportDur = time.Since(exportStart)
		log.Info().Str("file", cfg.ExportClaims).Int("rows", exported).Msg("enriched claims exported")
	}

	summary := &model.RunSummary{
		RunID:            runID.String(),
		PharmaciesLoaded: len(pharmacies),
		ClaimsLoaded:     len(claims),
		RevertsLoaded:    len(reverts),
		ClaimsDropped:    len(claims) - len(enriched),
		ClaimsEnriched:   len(enriched),
		ClaimsReverted:   revertedCount,
		MetricRows:       rowCounts[model.MetricsFile],
		ChainRows:        rowCounts[model.ChainsFile],
		QuantityRows:     rowCounts[model.QuantitiesFile],
		ClaimsExported:   exported,
		DurationLoad:     loadDur,
		DurationReport:   reportDur,
		DurationExport:   exportDur,
		DurationTotal:    time.Since(totalStart),
	}

	log.Info().
		Int("pharmacies", summary.PharmaciesLoaded).
		Int("claims", summary.ClaimsLoaded).
		Int("reverts", summary.RevertsLoaded).
		Int("metric_rows", summary.MetricRows).
		Int("chain_rows", summary.ChainRows).
		Int("quantity_rows", summary.QuantityRows).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("pipeline complete")

	return summary, nil
}
