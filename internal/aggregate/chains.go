package aggregate

import (
	"sort"

	"github.com/gyeh/claimstats/internal/model"
)

// maxChainsPerDrug bounds the recommendation list per ndc.
const maxChainsPerDrug = 2

// ComputeChainRecommendations picks, per drug, the two chains with the lowest
// average unit price. Claims are associated with their pharmacy's chain via a
// left join on NPI; an unmatched claim carries no chain and is excluded, as
// is any (ndc, chain) group that dispensed zero quantity. Candidates are
// sorted by (avg_price, chain name) so ties select reproducibly, then the
// first two survive. Output rows are sorted by ndc.
func ComputeChainRecommendations(claims []model.EnrichedClaim, pharmacies []model.PharmacyRecord) []model.DrugChainRec {
	chainByNPI := make(map[string]string, len(pharmacies))
	for _, p := range pharmacies {
		chainByNPI[p.NPI] = p.Chain
	}

	type key struct {
		ndc, chain string
	}
	type priceAcc struct {
		totalPrice    float64
		totalQuantity float64
	}
	accs := make(map[key]*priceAcc)
	for _, c := range claims {
		chain, ok := chainByNPI[c.NPI]
		if !ok {
			continue
		}
		k := key{c.NDC, chain}
		a := accs[k]
		if a == nil {
			a = &priceAcc{}
			accs[k] = a
		}
		a.totalPrice += c.Price
		a.totalQuantity += c.Quantity
	}

	candidates := make(map[string][]model.ChainPrice)
	for k, a := range accs {
		if a.totalQuantity <= 0 {
			continue
		}
		candidates[k.ndc] = append(candidates[k.ndc], model.ChainPrice{
			Name:     k.chain,
			AvgPrice: Round2(a.totalPrice / a.totalQuantity),
		})
	}

	recs := make([]model.DrugChainRec, 0, len(candidates))
	for ndc, chains := range candidates {
		sort.Slice(chains, func(i, j int) bool {
			if chains[i].AvgPrice != chains[j].AvgPrice {
				return chains[i].AvgPrice < chains[j].AvgPrice
			}
			return chains[i].Name < chains[j].Name
		})
		if len(chains) > maxChainsPerDrug {
			chains = chains[:maxChainsPerDrug]
		}
		recs = append(recs, model.DrugChainRec{NDC: ndc, Chain: chains})
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].NDC < recs[j].NDC })
	return recs
}
