package model

// ClaimExportRow mirrors the Parquet schema for the optional enriched-claim
// export. Price and quantity stay float64 to match the source records.
type ClaimExportRow struct {
	ID         string  `parquet:"id"`
	NPI        string  `parquet:"npi"`
	NDC        string  `parquet:"ndc"`
	Price      float64 `parquet:"price"`
	Quantity   float64 `parquet:"quantity"`
	Timestamp  string  `parquet:"timestamp"`
	IsReverted bool    `parquet:"is_reverted"`
}

// ExportRow converts an enriched claim to its Parquet representation.
func ExportRow(c EnrichedClaim) ClaimExportRow {
	return ClaimExportRow{
		ID:         c.ID,
		NPI:        c.NPI,
		NDC:        c.NDC,
		Price:      c.Price,
		Quantity:   c.Quantity,
		Timestamp:  c.Timestamp,
		IsReverted: c.IsReverted,
	}
}
