package adapter

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	m "logsift.dev/pkg/logsift/internal/model"
)

// ArtifactWriter publishes the plain-text and HTML report artifacts.
type ArtifactWriter interface {
	WriteArtifacts(dir m.Path, report *m.AggregateReport, ranking []m.RankedError, includeHTML bool) error
}

const (
	crashedFileName     = "crashed.txt"
	diagnosticsFileName = "diagnostics.txt"
	rankingFileName     = "ranking.txt"
	htmlIndexFileName   = "index.html"
)

// LocalArtifactWriter writes artifacts into the reports directory. Every
// artifact is published atomically so a failed run never corrupts a previous
// report.
type LocalArtifactWriter struct{}

// NewLocalArtifactWriter constructs a LocalArtifactWriter.
func NewLocalArtifactWriter() *LocalArtifactWriter {
	return &LocalArtifactWriter{}
}

// WriteArtifacts writes the crash list, the diagnostic list, the ranked
// error table, and optionally the HTML index for the finalized report.
func (w *LocalArtifactWriter) WriteArtifacts(dir m.Path, report *m.AggregateReport, ranking []m.RankedError, includeHTML bool) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create reports directory %s: %w", dir, err)
	}

	if err := w.writeList(dir, crashedFileName, report.CrashedTests); err != nil {
		return err
	}

	if err := w.writeList(dir, diagnosticsFileName, report.DiagnosticTests); err != nil {
		return err
	}

	if err := w.writeRanking(dir, ranking); err != nil {
		return err
	}

	if includeHTML {
		if err := w.writeHTMLIndex(dir, report, ranking); err != nil {
			return err
		}
	}

	return nil
}

// writeList emits one test ID per line, in the aggregator's insertion order.
func (w *LocalArtifactWriter) writeList(dir m.Path, name string, testIDs []string) error {
	var b strings.Builder

	for _, testID := range testIDs {
		b.WriteString(testID)
		b.WriteByte('\n')
	}

	return writeFileAtomic(filepath.Join(string(dir), name), []byte(b.String()))
}

// writeRanking emits `<count> <message>` lines in ranking order.
func (w *LocalArtifactWriter) writeRanking(dir m.Path, ranking []m.RankedError) error {
	var b strings.Builder

	for _, entry := range ranking {
		fmt.Fprintf(&b, "%d %s\n", entry.Count, entry.Message)
	}

	return writeFileAtomic(filepath.Join(string(dir), rankingFileName), []byte(b.String()))
}

func (w *LocalArtifactWriter) writeHTMLIndex(dir m.Path, report *m.AggregateReport, ranking []m.RankedError) error {
	var buf bytes.Buffer

	data := htmlIndexData{
		Report:  report,
		Ranking: ranking,
	}

	if err := htmlIndexTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("render HTML index: %w", err)
	}

	return writeFileAtomic(filepath.Join(string(dir), htmlIndexFileName), buf.Bytes())
}

type htmlIndexData struct {
	Report  *m.AggregateReport
	Ranking []m.RankedError
}

// The HTML index is a static rendering of the finalized report; it never
// re-derives ranking or classification.
var htmlIndexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>logsift report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #999; padding: 0.3em 0.8em; text-align: left; }
th { background: #eee; }
caption { font-weight: bold; padding: 0.5em; text-align: left; }
</style>
</head>
<body>
<h1>logsift report</h1>
<table>
<caption>Summary</caption>
<tr><th>Total runs</th><td>{{.Report.TotalRuns}}</td></tr>
<tr><th>Crashed</th><td>{{len .Report.CrashedTests}}</td></tr>
<tr><th>Unexpected diagnostics</th><td>{{len .Report.DiagnosticTests}}</td></tr>
<tr><th>Clean</th><td>{{.Report.CleanRuns}}</td></tr>
</table>
<table>
<caption>Error ranking</caption>
<tr><th>Count</th><th>Message</th></tr>
{{range .Ranking}}<tr><td>{{.Count}}</td><td>{{.Message}}</td></tr>
{{end}}</table>
<table>
<caption>Crashed tests</caption>
{{range .Report.CrashedTests}}<tr><td>{{.}}</td></tr>
{{end}}</table>
<table>
<caption>Tests with unexpected diagnostics</caption>
{{range .Report.DiagnosticTests}}<tr><td>{{.}}</td></tr>
{{end}}</table>
</body>
</html>
`))
