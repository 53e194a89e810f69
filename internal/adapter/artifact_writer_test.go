package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "logsift.dev/pkg/logsift/internal/model"
)

func readArtifact(t *testing.T, dir m.Path, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(string(dir), name))
	require.NoError(t, err)

	return string(data)
}

func TestLocalArtifactWriter_WriteArtifacts(t *testing.T) {
	writer := NewLocalArtifactWriter()
	dir := m.Path(filepath.Join(t.TempDir(), "reports"))

	report := &m.AggregateReport{
		CrashedTests:    []string{"suite/crash_a", "suite/crash_b"},
		DiagnosticTests: []string{"suite/diag"},
		ErrorFrequency:  map[string]int{"error: foo": 3, "error: bar": 1},
		TotalRuns:       5,
		CleanRuns:       2,
	}

	ranking := []m.RankedError{
		{Message: "error: foo", Count: 3},
		{Message: "error: bar", Count: 1},
	}

	require.NoError(t, writer.WriteArtifacts(dir, report, ranking, false))

	assert.Equal(t, "suite/crash_a\nsuite/crash_b\n", readArtifact(t, dir, "crashed.txt"))
	assert.Equal(t, "suite/diag\n", readArtifact(t, dir, "diagnostics.txt"))
	assert.Equal(t, "3 error: foo\n1 error: bar\n", readArtifact(t, dir, "ranking.txt"))
	assert.NoFileExists(t, filepath.Join(string(dir), "index.html"))
}

func TestLocalArtifactWriter_EmptyReport(t *testing.T) {
	writer := NewLocalArtifactWriter()
	dir := m.Path(t.TempDir())

	report := &m.AggregateReport{
		CrashedTests:    []string{},
		DiagnosticTests: []string{},
		ErrorFrequency:  map[string]int{},
	}

	require.NoError(t, writer.WriteArtifacts(dir, report, nil, false))

	// Empty artifacts are still written so consumers can distinguish "no
	// failures" from "no report".
	assert.Equal(t, "", readArtifact(t, dir, "crashed.txt"))
	assert.Equal(t, "", readArtifact(t, dir, "diagnostics.txt"))
	assert.Equal(t, "", readArtifact(t, dir, "ranking.txt"))
}

func TestLocalArtifactWriter_HTMLIndex(t *testing.T) {
	writer := NewLocalArtifactWriter()
	dir := m.Path(t.TempDir())

	report := &m.AggregateReport{
		CrashedTests:    []string{"suite/crash"},
		DiagnosticTests: []string{"suite/diag"},
		ErrorFrequency:  map[string]int{"error: <script>": 1},
		TotalRuns:       2,
	}

	ranking := []m.RankedError{{Message: "error: <script>", Count: 1}}

	require.NoError(t, writer.WriteArtifacts(dir, report, ranking, true))

	html := readArtifact(t, dir, "index.html")
	assert.Contains(t, html, "suite/crash")
	assert.Contains(t, html, "suite/diag")
	assert.Contains(t, html, "error: &lt;script&gt;", "messages must be HTML-escaped")
	assert.NotContains(t, html, "<script>")
}

func TestLocalArtifactWriter_OverwritesPreviousRun(t *testing.T) {
	writer := NewLocalArtifactWriter()
	dir := m.Path(t.TempDir())

	first := &m.AggregateReport{
		CrashedTests:    []string{"old/crash"},
		DiagnosticTests: []string{},
		ErrorFrequency:  map[string]int{},
	}
	require.NoError(t, writer.WriteArtifacts(dir, first, nil, false))

	second := &m.AggregateReport{
		CrashedTests:    []string{"new/crash"},
		DiagnosticTests: []string{},
		ErrorFrequency:  map[string]int{},
	}
	require.NoError(t, writer.WriteArtifacts(dir, second, nil, false))

	assert.Equal(t, "new/crash\n", readArtifact(t, dir, "crashed.txt"))
}

func TestWriteFileAtomic_CreatesTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")

	require.NoError(t, writeFileAtomic(target, []byte("payload")))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files may survive a successful publish")
}

func TestWriteFileAtomic_MissingDirectory(t *testing.T) {
	err := writeFileAtomic(filepath.Join(t.TempDir(), "nope", "out.txt"), []byte("x"))
	require.Error(t, err)
}
