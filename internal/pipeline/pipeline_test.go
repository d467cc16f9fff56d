package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gyeh/claimstats/internal/config"
	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/pipeline"
)

// writeFixture lays out pharmacy/claims/reverts source dirs under root.
func writeFixture(t *testing.T, root string) *config.Config {
	t.Helper()
	pharmacyDir := filepath.Join(root, "pharmacies")
	claimDir := filepath.Join(root, "claims")
	revertDir := filepath.Join(root, "reverts")
	outDir := filepath.Join(root, "output")
	for _, d := range []string{pharmacyDir, claimDir, revertDir, outDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}

	write := func(path, content string) {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	write(filepath.Join(pharmacyDir, "pharmacies.csv"),
		"npi,chain\n1,A\n2,B\n")
	write(filepath.Join(claimDir, "claims.json"), `[
  {"id": "c1", "npi": "1", "ndc": "d1", "price": 10, "quantity": 2, "timestamp": "2024-03-01T12:00:00"},
  {"id": "c2", "npi": "2", "ndc": "d1", "price": 9, "quantity": 3, "timestamp": "2024-03-01T13:00:00"},
  {"id": "c3", "npi": "9", "ndc": "d1", "price": 100, "quantity": 1, "timestamp": "2024-03-01T14:00:00"}
]`)
	write(filepath.Join(revertDir, "reverts.json"), `[
  {"id": "r1", "claim_id": "c1", "timestamp": "2024-03-02T09:00:00"}
]`)

	return &config.Config{
		PharmacyDirs: []string{pharmacyDir},
		ClaimDirs:    []string{claimDir},
		RevertDirs:   []string{revertDir},
		OutputDir:    outDir,
	}
}

func TestRun(t *testing.T) {
	cfg := writeFixture(t, t.TempDir())

	summary, err := pipeline.Run(context.Background(), zerolog.Nop(), cfg)
	if err != nil {
		t.Fatalf("pipeline.Run: %v", err)
	}

	if summary.PharmaciesLoaded != 2 || summary.ClaimsLoaded != 3 || summary.RevertsLoaded != 1 {
		t.Errorf("unexpected load counts: %+v", summary)
	}
	if summary.ClaimsDropped != 1 {
		t.Errorf("expected 1 dropped claim, got %d", summary.ClaimsDropped)
	}
	if summary.ClaimsEnriched != 2 || summary.ClaimsReverted != 1 {
		t.Errorf("unexpected enrichment counts: %+v", summary)
	}
	if summary.MetricRows != 2 || summary.ChainRows != 1 || summary.QuantityRows != 1 {
		t.Errorf("unexpected report counts: %+v", summary)
	}

	for _, name := range []string{model.MetricsFile, model.ChainsFile, model.QuantitiesFile} {
		data, err := os.ReadFile(filepath.Join(cfg.OutputDir, name))
		if err != nil {
			t.Fatalf("artifact %s missing: %v", name, err)
		}
		if len(data) == 0 || data[0] != '[' {
			t.Errorf("artifact %s is not a JSON array", name)
		}
	}
}

func TestRun_Deterministic(t *testing.T) {
	cfg1 := writeFixture(t, t.TempDir())
	cfg2 := writeFixture(t, t.TempDir())

	if _, err := pipeline.Run(context.Background(), zerolog.Nop(), cfg1); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := pipeline.Run(context.Background(), zerolog.Nop(), cfg2); err != nil {
		t.Fatalf("second run: %v", err)
	}

	for _, name := range []string{model.MetricsFile, model.ChainsFile, model.QuantitiesFile} {
		a, err := os.ReadFile(filepath.Join(cfg1.OutputDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		b, err := os.ReadFile(filepath.Join(cfg2.OutputDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("artifact %s differs between identical runs", name)
		}
	}
}

func TestRun_ParquetExport(t *testing.T) {
	root := t.TempDir()
	cfg := writeFixture(t, root)
	cfg.ExportClaims = filepath.Join(root, "claims.parquet")

	summary, err := pipeline.Run(context.Background(), zerolog.Nop(), cfg)
	if err != nil {
		t.Fatalf("pipeline.Run: %v", err)
	}
	if summary.ClaimsExported != 2 {
		t.Errorf("expected 2 claims exported, got %d", summary.ClaimsExported)
	}
	if _, err := os.Stat(cfg.ExportClaims); err != nil {
		t.Errorf("parquet export missing: %v", err)
	}
}

func TestRun_NoPharmacyData(t *testing.T) {
	root := t.TempDir()
	cfg := writeFixture(t, root)
	cfg.PharmacyDirs = []string{filepath.Join(root, "empty")}

	_, err := pipeline.Run(context.Background(), zerolog.Nop(), cfg)
	if err == nil {
		t.Fatal("expected load error without pharmacy data")
	}
	var pe *pipeline.PipelineError
	if !errors.As(err, &pe) || pe.Phase != "load" {
		t.Errorf("expected load-phase PipelineError, got %v", err)
	}
}

func TestRun_EmptyEvents(t *testing.T) {
	root := t.TempDir()
	cfg := writeFixture(t, root)
	// Point claims and reverts at empty dirs: artifacts must still be
	// produced as empty arrays.
	empty := filepath.Join(root, "none")
	os.MkdirAll(empty, 0o755)
	cfg.ClaimDirs = []string{empty}
	cfg.RevertDirs = []string{empty}

	summary, err := pipeline.Run(context.Background(), zerolog.Nop(), cfg)
	if err != nil {
		t.Fatalf("pipeline.Run: %v", err)
	}
	if summary.MetricRows != 0 || summary.ChainRows != 0 || summary.QuantityRows != 0 {
		t.Errorf("expected empty reports, got %+v", summary)
	}

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, model.MetricsFile))
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if string(data) != "[]\n" {
		t.Errorf("empty metrics artifact: got %q, want %q", data, "[]\n")
	}
}
