package publish_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/claimstats/internal/db"
	"github.com/gyeh/claimstats/internal/logging"
	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/publish"
	"github.com/gyeh/claimstats/internal/report"
)

const (
	testPort     = 15433
	testDB       = "claimstest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var (
	testDSN string
	pg      *embeddedpostgres.EmbeddedPostgres
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		fmt.Fprintln(os.Stderr, "SKIP: publish integration tests in -short mode")
		os.Exit(0)
	}

	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg = embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30*time.Second),
	)

	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}

	os.Exit(code)
}

// setupDB creates a connection pool and applies migrations from a clean slate.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, testDSN)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	if _, err := pool.Exec(ctx, "DROP SCHEMA IF EXISTS rx CASCADE"); err != nil {
		t.Fatalf("drop schema: %v", err)
	}

	log := logging.Setup("text")
	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}

	t.Cleanup(func() { pool.Close() })
	return pool
}

// writeArtifacts writes the three report files into a temp dir and returns it.
func writeArtifacts(t *testing.T, metrics []model.MetricRow, chains []model.DrugChainRec, quantities []model.QuantityInsight) string {
	t.Helper()
	dir := t.TempDir()
	if err := report.WriteJSON(dir+"/"+model.MetricsFile, metrics); err != nil {
		t.Fatalf("write metrics: %v", err)
	}
	if err := report.WriteJSON(dir+"/"+model.ChainsFile, chains); err != nil {
		t.Fatalf("write chains: %v", err)
	}
	if err := report.WriteJSON(dir+"/"+model.QuantitiesFile, quantities); err != nil {
		t.Fatalf("write quantities: %v", err)
	}
	return dir
}

func TestMigrations_Idempotent(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	log := logging.Setup("text")

	// Apply again, everything uses IF NOT EXISTS.
	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		t.Fatalf("second migration run should be idempotent: %v", err)
	}

	for _, tbl := range []string{
		"rx.publish_batches", "rx.npi_metrics",
		"rx.chain_recommendations", "rx.quantity_insights",
	} {
		var exists bool
		err := pool.QueryRow(ctx, fmt.Sprintf(
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema || '.' || table_name = '%s')", tbl)).
			Scan(&exists)
		if err != nil {
			t.Fatalf("check table %s: %v", tbl, err)
		}
		if !exists {
			t.Errorf("table %s should exist after migrations", tbl)
		}
	}
}

func TestPublish_Run(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	log := logging.Setup("text")

	dir := writeArtifacts(t,
		[]model.MetricRow{
			{NPI: "1", NDC: "d1", Fills: 1, Reverted: 1, AvgPrice: 5, TotalPrice: 10},
			{NPI: "2", NDC: "d1", Fills: 1, Reverted: 0, AvgPrice: 3, TotalPrice: 9},
		},
		[]model.DrugChainRec{
			{NDC: "d1", Chain: []model.ChainPrice{
				{Name: "B", AvgPrice: 3}, {Name: "A", AvgPrice: 5},
			}},
		},
		[]model.QuantityInsight{
			{NDC: "d1", MostPrescribedQuantity: []float64{2, 3}},
		},
	)

	res, err := publish.Run(ctx, pool, log, dir)
	if err != nil {
		t.Fatalf("publish.Run: %v", err)
	}
	if res.MetricRows != 2 || res.ChainRows != 2 || res.QuantityRows != 2 {
		t.Errorf("unexpected row counts: %+v", res)
	}

	var batches int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM rx.publish_batches").Scan(&batches); err != nil {
		t.Fatalf("count batches: %v", err)
	}
	if batches != 1 {
		t.Errorf("expected 1 batch, got %d", batches)
	}

	// The cheapest chain for d1 must be rank 1.
	var name string
	var avg float64
	err = pool.QueryRow(ctx,
		"SELECT chain_name, avg_price FROM rx.chain_recommendations WHERE batch_id = $1 AND ndc = 'd1' AND rank = 1",
		res.BatchID).Scan(&name, &avg)
	if err != nil {
		t.Fatalf("query rank 1 chain: %v", err)
	}
	if name != "B" || avg != 3 {
		t.Errorf("rank 1 chain: got %s@%v, want B@3", name, avg)
	}
}

func TestPublish_EmptyArtifacts(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	log := logging.Setup("text")

	dir := writeArtifacts(t, []model.MetricRow{}, []model.DrugChainRec{}, []model.QuantityInsight{})

	res, err := publish.Run(ctx, pool, log, dir)
	if err != nil {
		t.Fatalf("publish.Run with empty artifacts: %v", err)
	}
	if res.MetricRows != 0 || res.ChainRows != 0 || res.QuantityRows != 0 {
		t.Errorf("expected zero rows, got %+v", res)
	}
}

func TestPublish_MissingArtifact(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	log := logging.Setup("text")

	if _, err := publish.Run(ctx, pool, log, t.TempDir()); err == nil {
		t.Fatal("expected error for missing artifacts")
	}
}
