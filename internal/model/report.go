package model

// AggregateReport is the finalized result of one aggregation pass over a
// suite's run logs. CrashedTests and DiagnosticTests preserve first-ingestion
// order; a test ID appears in at most one of them.
type AggregateReport struct {
	CrashedTests    []string       `json:"crashed_tests"`
	DiagnosticTests []string       `json:"diagnostic_tests"`
	ErrorFrequency  map[string]int `json:"error_frequency"`
	TotalRuns       int            `json:"total_runs"`
	CleanRuns       int            `json:"clean_runs"`
}

// RankedError is one row of the frequency-ranked error table.
type RankedError struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}
