package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gyeh/claimstats/internal/model"
)

// LoadResult holds counters for one source kind across all scanned directories.
type LoadResult struct {
	FilesScanned      int
	FilesSkipped      int
	RecordsLoaded     int
	DuplicatesDropped int
}

// LoadPharmacies scans each directory for CSV files and parses pharmacy
// records from them. Missing directories and malformed files are skipped with
// a warning. Records are deduplicated by npi; the first occurrence wins (the
// precedence between sources that disagree on chain is not defined upstream).
// Returns an error only when no pharmacy data was loaded at all.
func LoadPharmacies(dirs []string, log zerolog.Logger) ([]model.PharmacyRecord, *LoadResult, error) {
	res := &LoadResult{}
	var pharmacies []model.PharmacyRecord
	seen := make(map[string]struct{})

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Warn().Str("dir", dir).Msg("pharmacy directory not found")
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
				continue
			}
			res.FilesScanned++
			path := filepath.Join(dir, entry.Name())

			records, err := readPharmacyCSV(path)
			if err != nil {
				res.FilesSkipped++
				log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping pharmacy file")
				continue
			}

			loaded := 0
			for _, p := range records {
				if _, dup := seen[p.NPI]; dup {
					res.DuplicatesDropped++
					continue
				}
				seen[p.NPI] = struct{}{}
				pharmacies = append(pharmacies, p)
				loaded++
			}
			res.RecordsLoaded += loaded
			log.Info().Int("pharmacies", loaded).Str("file", entry.Name()).Msg("loaded pharmacy file")
		}
	}

	if len(pharmacies) == 0 {
		return nil, res, fmt.Errorf("no valid pharmacy data found in %v", dirs)
	}
	log.Info().Int("total", len(pharmacies)).Msg("pharmacies loaded")
	return pharmacies, res, nil
}

// readPharmacyCSV parses one CSV file with a header row containing at least
// the npi and chain columns.
func readPharmacyCSV(path string) ([]model.PharmacyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	npiCol, chainCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "npi":
			npiCol = i
		case "chain":
			chainCol = i
		}
	}
	if npiCol < 0 || chainCol < 0 {
		return nil, fmt.Errorf("missing 'npi' or 'chain' column")
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv rows: %w", err)
	}

	records := make([]model.PharmacyRecord, 0, len(rows))
	for _, row := range rows {
		npi := strings.TrimSpace(row[npiCol])
		if npi == "" {
			continue
		}
		records = append(records, model.PharmacyRecord{
			NPI:   npi,
			Chain: strings.TrimSpace(row[chainCol]),
		})
	}
	return records, nil
}
