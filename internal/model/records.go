package model

// PharmacyRecord is one pharmacy directory entry. NPI is the identity key;
// ingestion guarantees at most one record per NPI.
type PharmacyRecord struct {
	NPI   string `json:"npi"`
	Chain string `json:"chain"`
}

// ClaimRecord is one drug claim event as read from the claim sources.
// ID is unique across all sources after ingestion-level dedup.
type ClaimRecord struct {
	ID        string  `json:"id"`
	NPI       string  `json:"npi"`
	NDC       string  `json:"ndc"`
	Price     float64 `json:"price"`
	Quantity  float64 `json:"quantity"`
	Timestamp string  `json:"timestamp"`
}

// RevertRecord marks claim ClaimID as reverted. Multiple reverts may
// reference the same claim; only presence matters downstream.
type RevertRecord struct {
	ID        string `json:"id"`
	ClaimID   string `json:"claim_id"`
	Timestamp string `json:"timestamp"`
}

// EnrichedClaim is a claim restricted to known pharmacies and tagged with
// its revert status. It is built fresh per run and never persisted.
type EnrichedClaim struct {
	ClaimRecord
	IsReverted bool `json:"is_reverted"`
}
