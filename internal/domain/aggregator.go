package domain

import (
	"fmt"
	"sync"

	m "logsift.dev/pkg/logsift/internal/model"
)

// Aggregator accumulates classified runs into an AggregateReport. Ingest and
// Finalize are safe for concurrent use; Ingest is the only serialization
// point of a triage pass. Finalize closes the report, after which further
// Ingest calls fail with ErrReportFinalized.
type Aggregator struct {
	mu         sync.Mutex
	finalized  bool
	seen       map[string]struct{}
	crashed    []string
	diagnostic []string
	frequency  map[string]int
	totalRuns  int
	cleanRuns  int
}

// NewAggregator creates an empty Aggregator for a single aggregation pass.
func NewAggregator() *Aggregator {
	return &Aggregator{
		seen:      make(map[string]struct{}),
		frequency: make(map[string]int),
	}
}

// Ingest records the outcome of one run. Re-ingesting a test ID that has
// already been recorded is a no-op, so retried runs never double-count.
func (a *Aggregator) Ingest(testID string, outcome m.Outcome) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.finalized {
		return fmt.Errorf("ingest %s: %w", testID, m.ErrReportFinalized)
	}

	if _, ok := a.seen[testID]; ok {
		return nil
	}

	a.seen[testID] = struct{}{}
	a.totalRuns++

	switch outcome.Verdict {
	case m.Crashed:
		a.crashed = append(a.crashed, testID)
	case m.UnexpectedDiagnostic:
		a.diagnostic = append(a.diagnostic, testID)

		for _, message := range outcome.Messages {
			a.frequency[NormalizeMessage(message)]++
		}
	case m.Clean:
		a.cleanRuns++
	}

	return nil
}

// Finalize returns an immutable snapshot of the accumulated report and closes
// the aggregator for further mutation. At most one caller may finalize a
// given aggregator.
func (a *Aggregator) Finalize() (*m.AggregateReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.finalized {
		return nil, fmt.Errorf("finalize: %w", m.ErrReportFinalized)
	}

	a.finalized = true

	report := &m.AggregateReport{
		CrashedTests:    make([]string, len(a.crashed)),
		DiagnosticTests: make([]string, len(a.diagnostic)),
		ErrorFrequency:  make(map[string]int, len(a.frequency)),
		TotalRuns:       a.totalRuns,
		CleanRuns:       a.cleanRuns,
	}

	copy(report.CrashedTests, a.crashed)
	copy(report.DiagnosticTests, a.diagnostic)

	for message, count := range a.frequency {
		report.ErrorFrequency[message] = count
	}

	return report, nil
}
