package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "logsift.dev/pkg/logsift/internal/model"
)

func TestRankErrors_OrdersByCountThenMessage(t *testing.T) {
	ranking := RankErrors(map[string]int{
		"error: zeta":  3,
		"error: alpha": 3,
		"error: rare":  1,
		"error: top":   7,
	})

	require.Equal(t, []m.RankedError{
		{Message: "error: top", Count: 7},
		{Message: "error: alpha", Count: 3},
		{Message: "error: zeta", Count: 3},
		{Message: "error: rare", Count: 1},
	}, ranking)
}

func TestRankErrors_Deterministic(t *testing.T) {
	frequency := map[string]int{
		"error: a": 2, "error: b": 2, "error: c": 2,
		"error: d": 1, "error: e": 5,
	}

	first := RankErrors(frequency)

	// Map iteration order varies between passes; the ranking must not.
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, RankErrors(frequency))
	}
}

func TestRankErrors_Empty(t *testing.T) {
	assert.Empty(t, RankErrors(nil))
	assert.Empty(t, RankErrors(map[string]int{}))
}

func TestMergeReports_SumsAndDeduplicates(t *testing.T) {
	merged := MergeReports([]*m.AggregateReport{
		{
			CrashedTests:    []string{"t1"},
			DiagnosticTests: []string{"t2"},
			ErrorFrequency:  map[string]int{"error: foo": 2},
			TotalRuns:       3,
			CleanRuns:       1,
		},
		{
			CrashedTests:    []string{"t4"},
			DiagnosticTests: []string{"t5"},
			ErrorFrequency:  map[string]int{"error: foo": 1, "error: bar": 1},
			TotalRuns:       3,
			CleanRuns:       1,
		},
	})

	assert.Equal(t, []string{"t1", "t4"}, merged.CrashedTests)
	assert.Equal(t, []string{"t2", "t5"}, merged.DiagnosticTests)
	assert.Equal(t, map[string]int{"error: foo": 3, "error: bar": 1}, merged.ErrorFrequency)
	assert.Equal(t, 6, merged.TotalRuns)
	assert.Equal(t, 2, merged.CleanRuns)
}

func TestMergeReports_CrashWinsAcrossShards(t *testing.T) {
	// The same test may land in different shards of a re-run; if any shard saw
	// it crash it belongs on the crash list only.
	merged := MergeReports([]*m.AggregateReport{
		{
			CrashedTests:    []string{"t1"},
			DiagnosticTests: []string{},
			ErrorFrequency:  map[string]int{},
		},
		{
			CrashedTests:    []string{},
			DiagnosticTests: []string{"t1", "t2"},
			ErrorFrequency:  map[string]int{},
		},
	})

	assert.Equal(t, []string{"t1"}, merged.CrashedTests)
	assert.Equal(t, []string{"t2"}, merged.DiagnosticTests)
}

func TestMergeReports_DuplicateIDsAcrossShards(t *testing.T) {
	merged := MergeReports([]*m.AggregateReport{
		{CrashedTests: []string{"t1"}, DiagnosticTests: []string{"t2"}, ErrorFrequency: map[string]int{}},
		{CrashedTests: []string{"t1"}, DiagnosticTests: []string{"t2"}, ErrorFrequency: map[string]int{}},
	})

	assert.Equal(t, []string{"t1"}, merged.CrashedTests)
	assert.Equal(t, []string{"t2"}, merged.DiagnosticTests)
}

func TestMergeReports_Empty(t *testing.T) {
	merged := MergeReports(nil)

	require.NotNil(t, merged)
	assert.Empty(t, merged.CrashedTests)
	assert.Empty(t, merged.DiagnosticTests)
	assert.Empty(t, merged.ErrorFrequency)
	assert.Zero(t, merged.TotalRuns)
}
