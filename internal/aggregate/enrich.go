package aggregate

import (
	"github.com/rs/zerolog"

	"github.com/gyeh/claimstats/internal/model"
)

// FilterToKnownPharmacies performs an inner join on NPI: claims whose NPI has
// no pharmacy record are dropped. Dropping is expected, lossy-by-design
// filtering, so it is logged rather than reported as an error.
func FilterToKnownPharmacies(claims []model.ClaimRecord, pharmacies []model.PharmacyRecord, log zerolog.Logger) []model.ClaimRecord {
	known := make(map[string]struct{}, len(pharmacies))
	for _, p := range pharmacies {
		known[p.NPI] = struct{}{}
	}

	kept := make([]model.ClaimRecord, 0, len(claims))
	for _, c := range claims {
		if _, ok := known[c.NPI]; ok {
			kept = append(kept, c)
		}
	}

	if dropped := len(claims) - len(kept); dropped > 0 {
		log.Info().Int("dropped", dropped).Msg("dropped claims with unknown npi")
	}
	return kept
}

// MarkReverted produces one enriched claim per input claim, with IsReverted
// set iff some revert references the claim's id. Presence is all that
// matters; repeat reverts of the same claim do not change the result.
func MarkReverted(claims []model.ClaimRecord, reverts []model.RevertRecord) []model.EnrichedClaim {
	reverted := make(map[string]struct{}, len(reverts))
	for _, r := range reverts {
		reverted[r.ClaimID] = struct{}{}
	}

	enriched := make([]model.EnrichedClaim, len(claims))
	for i, c := range claims {
		_, isReverted := reverted[c.ID]
		enriched[i] = model.EnrichedClaim{ClaimRecord: c, IsReverted: isReverted}
	}
	return enriched
}
