package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gyeh/claimstats/internal/model"
)

// LoadClaims scans each directory for JSON files holding arrays of claim
// events, deduplicated by id within and across files. Missing data is a
// warning, not an error: an empty claim set is valid pipeline input.
func LoadClaims(dirs []string, log zerolog.Logger) ([]model.ClaimRecord, *LoadResult) {
	return loadEvents(dirs, log, "claim", func(c model.ClaimRecord) string { return c.ID })
}

// LoadReverts scans each directory for JSON files holding arrays of revert
// events, deduplicated by id within and across files.
func LoadReverts(dirs []string, log zerolog.Logger) ([]model.RevertRecord, *LoadResult) {
	return loadEvents(dirs, log, "revert", func(r model.RevertRecord) string { return r.ID })
}

// loadEvents is the shared directory scanner for JSON event sources. Files
// that fail to parse are skipped and logged; the scan continues.
func loadEvents[T any](dirs []string, log zerolog.Logger, kind string, key func(T) string) ([]T, *LoadResult) {
	res := &LoadResult{}
	var events []T
	seen := make(map[string]struct{})

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Warn().Str("dir", dir).Str("kind", kind).Msg("event directory not found")
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
				continue
			}
			res.FilesScanned++
			path := filepath.Join(dir, entry.Name())

			records, err := readEventJSON[T](path)
			if err != nil {
				res.FilesSkipped++
				log.Warn().Err(err).Str("file", entry.Name()).Str("kind", kind).Msg("skipping event file")
				continue
			}

			loaded := 0
			for _, e := range records {
				id := key(e)
				if _, dup := seen[id]; dup {
					res.DuplicatesDropped++
					continue
				}
				seen[id] = struct{}{}
				events = append(events, e)
				loaded++
			}
			res.RecordsLoaded += loaded
			log.Info().Int(kind+"s", loaded).Str("file", entry.Name()).Msg("loaded event file")
		}
	}

	if len(events) == 0 {
		log.Warn().Str("kind", kind).Msg("no event data loaded")
	}
	return events, res
}

func readEventJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return records, nil
}
