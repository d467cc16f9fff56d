package model

import "time"

// RunSummary captures metrics from a single pipeline run.
type RunSummary struct {
	RunID            string
	PharmaciesLoaded int
	ClaimsLoaded     int
	RevertsLoaded    int
	ClaimsDropped    int
	ClaimsEnriched   int
	ClaimsReverted   int
	MetricRows       int
	ChainRows        int
	QuantityRows     int
	ClaimsExported   int
	DurationLoad     time.Duration
	DurationReport   time.Duration
	DurationExport   time.Duration
	DurationTotal    time.Duration
}
