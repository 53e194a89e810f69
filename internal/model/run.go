// Package model defines the data structures for test-log triage.
package model

// Path represents a file system path.
type Path string

// Verdict classifies the outcome of a single compiler run.
type Verdict int

const (
	// Clean indicates the run produced no unexpected diagnostics.
	Clean Verdict = iota
	// Crashed indicates the compiler terminated abnormally.
	Crashed
	// UnexpectedDiagnostic indicates the run emitted error or warning
	// lines on a test that was expected to pass.
	UnexpectedDiagnostic
)

func (v Verdict) String() string {
	switch v {
	case Clean:
		return "clean"
	case Crashed:
		return "crashed"
	case UnexpectedDiagnostic:
		return "diagnostic"
	default:
		return "unknown"
	}
}

// Outcome is the verdict for one run log. Messages is populated only for
// UnexpectedDiagnostic and preserves the order the lines appeared in the log.
type Outcome struct {
	Verdict  Verdict
	Messages []string
}

// RunLog identifies one captured test execution. It is immutable once
// captured; the classifier reads it and discards it after producing an
// Outcome.
type RunLog struct {
	TestID         string
	Origin         Path
	Lines          []string
	ExpectedToFail bool
}

// ClassifiedRun pairs a test with its classification verdict. Seq records the
// position of the run in scan order so reports stay reproducible even when
// classification ran on multiple workers.
type ClassifiedRun struct {
	Seq     uint64
	TestID  string
	Outcome Outcome
}
