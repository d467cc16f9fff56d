package aggregate

import (
	"sort"

	"github.com/gyeh/claimstats/internal/model"
)

type metricAcc struct {
	fills         int64
	reverted      int64
	totalPrice    float64
	totalQuantity float64
}

// ComputeNPINDCMetrics groups enriched claims by (npi, ndc) and computes fill
// and price statistics per group. avg_price is derived from the unrounded
// accumulators so rounding error does not compound, and defaults to 0.0 when
// the group dispensed zero quantity. Rows come back sorted by (npi, ndc).
func ComputeNPINDCMetrics(claims []model.EnrichedClaim) []model.MetricRow {
	type key struct {
		npi, ndc string
	}
	accs := make(map[key]*metricAcc)
	for _, c := range claims {
		k := key{c.NPI, c.NDC}
		a := accs[k]
		if a == nil {
			a = &metricAcc{}
			accs[k] = a
		}
		a.fills++
		if c.IsReverted {
			a.reverted++
		}
		a.totalPrice += c.Price
		a.totalQuantity += c.Quantity
	}

	rows := make([]model.MetricRow, 0, len(accs))
	for k, a := range accs {
		avg := 0.0
		if a.totalQuantity > 0 {
			avg = Round2(a.totalPrice / a.totalQuantity)
		}
		rows = append(rows, model.MetricRow{
			NPI:        k.npi,
			NDC:        k.ndc,
			Fills:      a.fills,
			Reverted:   a.reverted,
			AvgPrice:   avg,
			TotalPrice: Round2(a.totalPrice),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].NPI != rows[j].NPI {
			return rows[i].NPI < rows[j].NPI
		}
		return rows[i].NDC < rows[j].NDC
	})
	return rows
}
