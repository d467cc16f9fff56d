// Package publish loads previously generated report artifacts into the
// Postgres report warehouse via the COPY protocol.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/claimstats/internal/db"
	"github.com/gyeh/claimstats/internal/model"
)

// Result holds metrics from a publish run.
type Result struct {
	BatchID      uuid.UUID
	MetricRows   int64
	ChainRows    int64
	QuantityRows int64
	Duration     time.Duration
}

// metricCopyRow adapts a MetricRow plus its batch id to COPY column order.
type metricCopyRow struct {
	batchID uuid.UUID
	row     model.MetricRow
}

func (m metricCopyRow) CopyValues() []any {
	return []any{m.batchID, m.row.NPI, m.row.NDC, m.row.Fills, m.row.Reverted, m.row.AvgPrice, m.row.TotalPrice}
}

// chainCopyRow is one ranked chain entry for a drug.
type chainCopyRow struct {
	batchID uuid.UUID
	ndc     string
	rank    int16
	chain   model.ChainPrice
}

func (c chainCopyRow) CopyValues() []any {
	return []any{c.batchID, c.ndc, c.rank, c.chain.Name, c.chain.AvgPrice}
}

// quantityCopyRow is one (ndc, quantity) mode entry.
type quantityCopyRow struct {
	batchID  uuid.UUID
	ndc      string
	quantity float64
}

func (q quantityCopyRow) CopyValues() []any {
	return []any{q.batchID, q.ndc, q.quantity}
}

// Run reads the three report artifacts from inputDir and COPY-loads them into
// the warehouse under a fresh batch id.
func Run(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, inputDir string) (*Result, error) {
	start := time.Now()

	metrics, err := readReport[model.MetricRow](filepath.Join(inputDir, model.MetricsFile))
	if err != nil {
		return nil, err
	}
	chains, err := readReport[model.DrugChainRec](filepath.Join(inputDir, model.ChainsFile))
	if err != nil {
		return nil, err
	}
	quantities, err := readReport[model.QuantityInsight](filepath.Join(inputDir, model.QuantitiesFile))
	if err != nil {
		return nil, err
	}

	batchID := uuid.New()
	if _, err := pool.Exec(ctx,
		"INSERT INTO rx.publish_batches (batch_id, source_dir) VALUES ($1, $2)",
		batchID, inputDir,
	); err != nil {
		return nil, fmt.Errorf("insert publish batch: %w", err)
	}

	metricRows := make([]metricCopyRow, len(metrics))
	for i, r := range metrics {
		metricRows[i] = metricCopyRow{batchID: batchID, row: r}
	}
	nMetrics, err := copyRows(ctx, pool,
		pgx.Identifier{"rx", "npi_metrics"},
		[]string{"batch_id", "npi", "ndc", "fills", "reverted", "avg_price", "total_price"},
		metricRows,
	)
	if err != nil {
		return nil, fmt.Errorf("copy npi_metrics: %w", err)
	}

	var chainRows []chainCopyRow
	for _, rec := range chains {
		for i, c := range rec.Chain {
			chainRows = append(chainRows, chainCopyRow{
				batchID: batchID, ndc: rec.NDC, rank: int16(i + 1), chain: c,
			})
		}
	}
	nChains, err := copyRows(ctx, pool,
		pgx.Identifier{"rx", "chain_recommendations"},
		[]string{"batch_id", "ndc", "rank", "chain_name", "avg_price"},
		chainRows,
	)
	if err != nil {
		return nil, fmt.Errorf("copy chain_recommendations: %w", err)
	}

	var quantityRows []quantityCopyRow
	for _, q := range quantities {
		for _, qty := range q.MostPrescribedQuantity {
			quantityRows = append(quantityRows, quantityCopyRow{
				batchID: batchID, ndc: q.NDC, quantity: qty,
			})
		}
	}
	nQuantities, err := copyRows(ctx, pool,
		pgx.Identifier{"rx", "quantity_insights"},
		[]string{"batch_id", "ndc", "quantity"},
		quantityRows,
	)
	if err != nil {
		return nil, fmt.Errorf("copy quantity_insights: %w", err)
	}

	dur := time.Since(start)
	log.Info().
		Str("batch_id", batchID.String()).
		Int64("metric_rows", nMetrics).
		Int64("chain_rows", nChains).
		Int64("quantity_rows", nQuantities).
		Dur("duration", dur).
		Msg("publish complete")

	return &Result{
		BatchID:      batchID,
		MetricRows:   nMetrics,
		ChainRows:    nChains,
		QuantityRows: nQuantities,
		Duration:     dur,
	}, nil
}

// copyRows streams rows into table through a channel-backed CopyFromSource.
func copyRows[T db.CopyRow](ctx context.Context, pool *pgxpool.Pool, table pgx.Identifier, columns []string, rows []T) (int64, error) {
	ch := make(chan T, len(rows))
	for _, r := range rows {
		ch <- r
	}
	close(ch)
	return pool.CopyFrom(ctx, table, columns, db.NewChannelSource(ch))
}

func readReport[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report artifact: %w", err)
	}
	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse report artifact %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}
