package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "logsift.dev/pkg/logsift/internal/model"
)

func sampleReport() *m.AggregateReport {
	return &m.AggregateReport{
		CrashedTests:    []string{"suite/crash"},
		DiagnosticTests: []string{"suite/diag"},
		ErrorFrequency:  map[string]int{"error: foo": 2},
		TotalRuns:       3,
		CleanRuns:       1,
	}
}

func TestLocalReportStore_SaveAndLoad(t *testing.T) {
	store := NewLocalReportStore()
	dir := m.Path(filepath.Join(t.TempDir(), "reports"))

	require.NoError(t, store.SaveReport(dir, sampleReport()))

	loaded, err := store.LoadReport(dir)
	require.NoError(t, err)
	assert.Equal(t, sampleReport(), loaded)
}

func TestLocalReportStore_SaveOverwritesPrevious(t *testing.T) {
	store := NewLocalReportStore()
	dir := m.Path(t.TempDir())

	require.NoError(t, store.SaveReport(dir, sampleReport()))

	updated := sampleReport()
	updated.TotalRuns = 42
	require.NoError(t, store.SaveReport(dir, updated))

	loaded, err := store.LoadReport(dir)
	require.NoError(t, err)
	assert.Equal(t, 42, loaded.TotalRuns)
}

func TestLocalReportStore_SaveLeavesNoTempFiles(t *testing.T) {
	store := NewLocalReportStore()
	dir := t.TempDir()

	require.NoError(t, store.SaveReport(m.Path(dir), sampleReport()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report.json", entries[0].Name())
}

func TestLocalReportStore_LoadMissingReport(t *testing.T) {
	store := NewLocalReportStore()

	_, err := store.LoadReport(m.Path(t.TempDir()))
	require.ErrorIs(t, err, m.ErrInputNotFound)
}

func TestLocalReportStore_LoadCorruptReport(t *testing.T) {
	store := NewLocalReportStore()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.json"), []byte("{nope"), 0o600))

	_, err := store.LoadReport(m.Path(dir))
	require.Error(t, err)
	require.NotErrorIs(t, err, m.ErrInputNotFound)
}

func TestLocalReportStore_LoadShardReports(t *testing.T) {
	store := NewLocalReportStore()
	root := t.TempDir()

	first := sampleReport()
	second := sampleReport()
	second.TotalRuns = 7

	require.NoError(t, store.SaveReport(m.Path(filepath.Join(root, "shard_0")), first))
	require.NoError(t, store.SaveReport(m.Path(filepath.Join(root, "shard_1")), second))

	reports, err := store.LoadShardReports(m.Path(root))
	require.NoError(t, err)
	require.Len(t, reports, 2)

	// Shard order is part of the merge contract.
	assert.Equal(t, 3, reports[0].TotalRuns)
	assert.Equal(t, 7, reports[1].TotalRuns)
}

func TestLocalReportStore_LoadShardReports_NoneFound(t *testing.T) {
	store := NewLocalReportStore()

	_, err := store.LoadShardReports(m.Path(t.TempDir()))
	require.ErrorIs(t, err, m.ErrInputNotFound)
}
