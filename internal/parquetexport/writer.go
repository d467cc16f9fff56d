// Package parquetexport writes the enriched-claim collection as a Parquet
// file for downstream analytical tooling.
package parquetexport

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/claimstats/internal/model"
)

const writeBatchSize = 1024

// Write serializes claims to a Parquet file at path and returns the number
// of rows written.
func Write(path string, claims []model.EnrichedClaim) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create parquet file: %w", err)
	}

	w := parquet.NewGenericWriter[model.ClaimExportRow](f)

	written := 0
	buf := make([]model.ClaimExportRow, 0, writeBatchSize)
	for start := 0; start < len(claims); start += writeBatchSize {
		end := start + writeBatchSize
		if end > len(claims) {
			end = len(claims)
		}
		buf = buf[:0]
		for _, c := range claims[start:end] {
			buf = append(buf, model.ExportRow(c))
		}
		n, err := w.Write(buf)
		written += n
		if err != nil {
			w.Close()
			f.Close()
			return written, fmt.Errorf("write parquet rows: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		f.Close()
		return written, fmt.Errorf("close parquet writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return written, fmt.Errorf("close parquet file: %w", err)
	}
	return written, nil
}
