package domain

import (
	"sort"

	m "logsift.dev/pkg/logsift/internal/model"
)

// RankErrors orders error signatures by descending occurrence count; ties
// fall back to ascending message text so repeated runs over identical input
// produce byte-identical rankings.
func RankErrors(frequency map[string]int) []m.RankedError {
	ranked := make([]m.RankedError, 0, len(frequency))

	for message, count := range frequency {
		ranked = append(ranked, m.RankedError{Message: message, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}

		return ranked[i].Message < ranked[j].Message
	})

	return ranked
}

// MergeReports combines shard reports into a single report. Test lists keep
// shard order with duplicates dropped, crash classification takes precedence
// over diagnostic classification across shards, and message counts are
// summed.
func MergeReports(parts []*m.AggregateReport) *m.AggregateReport {
	merged := &m.AggregateReport{
		CrashedTests:    []string{},
		DiagnosticTests: []string{},
		ErrorFrequency:  map[string]int{},
	}

	crashed := make(map[string]struct{})

	for _, part := range parts {
		for _, testID := range part.CrashedTests {
			if _, ok := crashed[testID]; ok {
				continue
			}

			crashed[testID] = struct{}{}
			merged.CrashedTests = append(merged.CrashedTests, testID)
		}
	}

	diagnostic := make(map[string]struct{})

	for _, part := range parts {
		for _, testID := range part.DiagnosticTests {
			if _, ok := crashed[testID]; ok {
				continue
			}

			if _, ok := diagnostic[testID]; ok {
				continue
			}

			diagnostic[testID] = struct{}{}
			merged.DiagnosticTests = append(merged.DiagnosticTests, testID)
		}

		for message, count := range part.ErrorFrequency {
			merged.ErrorFrequency[message] += count
		}

		merged.TotalRuns += part.TotalRuns
		merged.CleanRuns += part.CleanRuns
	}

	return merged
}
