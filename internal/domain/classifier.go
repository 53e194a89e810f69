// Package domain implements the log triage engine: classification of
// captured compiler output, aggregation of verdicts, and error ranking.
package domain

import (
	"fmt"
	"regexp"
	"strings"

	m "logsift.dev/pkg/logsift/internal/model"
)

// DefaultCrashSignatures are the fault-handler banners an LLVM-based compiler
// prints when it terminates abnormally. A match on any of them marks the run
// as crashed.
var DefaultCrashSignatures = []string{
	"PLEASE submit a bug report",
	"Stack dump:",
}

// DefaultDiagnosticPattern matches compiler diagnostic lines: an "error:" or
// "warning:" token delimited by whitespace or a line boundary.
const DefaultDiagnosticPattern = `(^|\s)(error|warning):(\s|$)`

// locationPrefix matches the leading "file:line:" or "file:line:col:"
// location a compiler prepends to diagnostics. Stripping it lets the same
// message from different tests count as one signature.
var locationPrefix = regexp.MustCompile(`^\S+:\d+(:\d+)?:\s*`)

// Classifier produces a single Outcome verdict for one run's captured output.
type Classifier struct {
	signatures []string
	diagnostic *regexp.Regexp
}

// NewClassifier builds a Classifier from the configured crash signatures and
// diagnostic pattern. Empty values fall back to the defaults.
func NewClassifier(signatures []string, diagnosticPattern string) (*Classifier, error) {
	if len(signatures) == 0 {
		signatures = DefaultCrashSignatures
	}

	if diagnosticPattern == "" {
		diagnosticPattern = DefaultDiagnosticPattern
	}

	diagnostic, err := regexp.Compile(diagnosticPattern)
	if err != nil {
		return nil, fmt.Errorf("compile diagnostic pattern %q: %w", diagnosticPattern, err)
	}

	return &Classifier{
		signatures: signatures,
		diagnostic: diagnostic,
	}, nil
}

// Classify scans one run's output lines and returns its verdict. A crash
// signature wins over everything else: a crashing compiler is a defect even
// on a test that is expected to fail, so crash detection short-circuits the
// diagnostic scan. Diagnostics on an expected-to-fail test are tolerated and
// classified Clean.
func (c *Classifier) Classify(lines []string, expectedToFail bool) m.Outcome {
	for _, line := range lines {
		for _, signature := range c.signatures {
			if strings.Contains(line, signature) {
				return m.Outcome{Verdict: m.Crashed}
			}
		}
	}

	var diagnostics []string

	for _, line := range lines {
		if c.diagnostic.MatchString(line) {
			diagnostics = append(diagnostics, line)
		}
	}

	if len(diagnostics) == 0 || expectedToFail {
		return m.Outcome{Verdict: m.Clean}
	}

	return m.Outcome{Verdict: m.UnexpectedDiagnostic, Messages: diagnostics}
}

// NormalizeMessage strips run-specific location prefixes and surrounding
// whitespace from a diagnostic line so occurrences can be counted across runs.
func NormalizeMessage(message string) string {
	return locationPrefix.ReplaceAllString(strings.TrimSpace(message), "")
}
