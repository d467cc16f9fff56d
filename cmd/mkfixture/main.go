// mkfixture generates a synthetic pharmacy/claims/reverts dataset for demos
// and tests. Output layout matches what `claimstats run` expects:
// <out>/pharmacies/pharmacies.csv, <out>/claims/claims.json,
// <out>/reverts/reverts.json.
// Usage: go run ./cmd/mkfixture --out testdata/fixture --pharmacies 20 --claims 500
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/gyeh/claimstats/internal/model"
)

var chains = []string{"health", "saint", "doctorsal", "medtrust", "corner"}

var ndcs = []string{
	"00002323401", "00015066230", "00069042530", "00093720198",
	"00378180110", "00591355205", "49884073502", "65862042001",
}

var quantities = []float64{30, 60, 90, 120, 8.5}

func main() {
	out := flag.String("out", "testdata/fixture", "output directory")
	nPharmacies := flag.Int("pharmacies", 20, "number of pharmacies")
	nClaims := flag.Int("claims", 500, "number of claims")
	revertRate := flag.Float64("revert-rate", 0.1, "fraction of claims reverted")
	unknownRate := flag.Float64("unknown-rate", 0.05, "fraction of claims with an npi outside the pharmacy set")
	seed := flag.Int64("seed", 1, "rng seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	pharmacyDir := filepath.Join(*out, "pharmacies")
	claimDir := filepath.Join(*out, "claims")
	revertDir := filepath.Join(*out, "reverts")
	for _, d := range []string{pharmacyDir, claimDir, revertDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", d, err)
			os.Exit(1)
		}
	}

	// Pharmacies
	pharmacies := make([]model.PharmacyRecord, *nPharmacies)
	for i := range pharmacies {
		pharmacies[i] = model.PharmacyRecord{
			NPI:   fmt.Sprintf("%010d", 1000000000+rng.Intn(900000000)),
			Chain: chains[rng.Intn(len(chains))],
		}
	}
	if err := writePharmacyCSV(filepath.Join(pharmacyDir, "pharmacies.csv"), pharmacies); err != nil {
		fmt.Fprintf(os.Stderr, "write pharmacies: %v\n", err)
		os.Exit(1)
	}

	// Claims
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	claims := make([]model.ClaimRecord, *nClaims)
	for i := range claims {
		npi := pharmacies[rng.Intn(len(pharmacies))].NPI
		if rng.Float64() < *unknownRate {
			npi = fmt.Sprintf("%010d", rng.Intn(999999999))
		}
		qty := quantities[rng.Intn(len(quantities))]
		claims[i] = model.ClaimRecord{
			ID:        uuid.New().String(),
			NPI:       npi,
			NDC:       ndcs[rng.Intn(len(ndcs))],
			Price:     float64(rng.Intn(40000)) / 100,
			Quantity:  qty,
			Timestamp: base.Add(time.Duration(rng.Intn(86400*30)) * time.Second).Format("2006-01-02T15:04:05"),
		}
	}
	if err := writeJSON(filepath.Join(claimDir, "claims.json"), claims); err != nil {
		fmt.Fprintf(os.Stderr, "write claims: %v\n", err)
		os.Exit(1)
	}

	// Reverts
	var reverts []model.RevertRecord
	for _, c := range claims {
		if rng.Float64() < *revertRate {
			reverts = append(reverts, model.RevertRecord{
				ID:        uuid.New().String(),
				ClaimID:   c.ID,
				Timestamp: base.Add(time.Duration(rng.Intn(86400*31)) * time.Second).Format("2006-01-02T15:04:05"),
			})
		}
	}
	if reverts == nil {
		reverts = []model.RevertRecord{}
	}
	if err := writeJSON(filepath.Join(revertDir, "reverts.json"), reverts); err != nil {
		fmt.Fprintf(os.Stderr, "write reverts: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d pharmacies, %d claims, %d reverts to %s\n",
		len(pharmacies), len(claims), len(reverts), *out)
}

func writePharmacyCSV(path string, pharmacies []model.PharmacyRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"npi", "chain"}); err != nil {
		return err
	}
	for _, p := range pharmacies {
		if err := w.Write([]string{p.NPI, p.Chain}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
