package aggregate

import (
	"sort"

	"github.com/gyeh/claimstats/internal/model"
)

// ComputeQuantityInsights computes, per drug, the mode of dispensed quantity
// with ties kept: every quantity whose claim count equals the drug's maximum
// count is listed, sorted ascending. Output rows are sorted by ndc.
func ComputeQuantityInsights(claims []model.EnrichedClaim) []model.QuantityInsight {
	counts := make(map[string]map[float64]int64)
	for _, c := range claims {
		byQty := counts[c.NDC]
		if byQty == nil {
			byQty = make(map[float64]int64)
			counts[c.NDC] = byQty
		}
		byQty[c.Quantity]++
	}

	rows := make([]model.QuantityInsight, 0, len(counts))
	for ndc, byQty := range counts {
		var maxCount int64
		for _, n := range byQty {
			if n > maxCount {
				maxCount = n
			}
		}
		modes := make([]float64, 0, 1)
		for q, n := range byQty {
			if n == maxCount {
				modes = append(modes, q)
			}
		}
		if len(modes) == 0 {
			continue
		}
		sort.Float64s(modes)
		rows = append(rows, model.QuantityInsight{NDC: ndc, MostPrescribedQuantity: modes})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].NDC < rows[j].NDC })
	return rows
}
