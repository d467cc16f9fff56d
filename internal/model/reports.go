package model

// MetricRow is one row of the npi_metrics report: fill and price statistics
// for a single (npi, ndc) pair.
type MetricRow struct {
	NPI        string  `json:"npi"`
	NDC        string  `json:"ndc"`
	Fills      int64   `json:"fills"`
	Reverted   int64   `json:"reverted"`
	AvgPrice   float64 `json:"avg_price"`
	TotalPrice float64 `json:"total_price"`
}

// ChainPrice is one chain candidate with its average unit price for a drug.
type ChainPrice struct {
	Name     string  `json:"name"`
	AvgPrice float64 `json:"avg_price"`
}

// DrugChainRec recommends up to two chains per drug, cheapest first.
type DrugChainRec struct {
	NDC   string       `json:"ndc"`
	Chain []ChainPrice `json:"chain"`
}

// QuantityInsight lists the most commonly dispensed quantities for a drug.
// Ties are kept, sorted ascending.
type QuantityInsight struct {
	NDC                    string    `json:"ndc"`
	MostPrescribedQuantity []float64 `json:"most_prescribed_quantity"`
}

// Report artifact file names, relative to the output directory.
const (
	MetricsFile    = "npi_metrics.json"
	ChainsFile     = "chain_recommendations.json"
	QuantitiesFile = "quantity_insights.json"
)
