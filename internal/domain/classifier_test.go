package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "logsift.dev/pkg/logsift/internal/model"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()

	classifier, err := NewClassifier(nil, "")
	require.NoError(t, err)

	return classifier
}

func TestNewClassifier_RejectsInvalidPattern(t *testing.T) {
	_, err := NewClassifier(nil, "(unclosed")
	require.Error(t, err)
}

func TestClassify_CleanRun(t *testing.T) {
	classifier := newTestClassifier(t)

	outcome := classifier.Classify([]string{
		"compiling foo.mlir",
		"0 errors, 0 warnings",
		"done",
	}, false)

	assert.Equal(t, m.Clean, outcome.Verdict)
	assert.Empty(t, outcome.Messages)
}

func TestClassify_CrashSignature(t *testing.T) {
	classifier := newTestClassifier(t)

	outcome := classifier.Classify([]string{
		"lowering pipeline started",
		"PLEASE submit a bug report to https://github.com/llvm/llvm-project/issues/",
		"Stack dump:",
		"0. Program arguments: ...",
	}, false)

	assert.Equal(t, m.Crashed, outcome.Verdict)
	assert.Empty(t, outcome.Messages, "crash outcomes carry no diagnostic messages")
}

func TestClassify_CrashWinsOverDiagnostics(t *testing.T) {
	classifier := newTestClassifier(t)

	// A run can emit diagnostics before crashing; the crash is the verdict.
	outcome := classifier.Classify([]string{
		"foo.mlir:3:1: error: unknown operation",
		"Stack dump:",
	}, false)

	assert.Equal(t, m.Crashed, outcome.Verdict)
}

func TestClassify_CrashReportedEvenWhenExpectedToFail(t *testing.T) {
	classifier := newTestClassifier(t)

	outcome := classifier.Classify([]string{"Stack dump:"}, true)

	assert.Equal(t, m.Crashed, outcome.Verdict)
}

func TestClassify_UnexpectedDiagnostics(t *testing.T) {
	classifier := newTestClassifier(t)

	outcome := classifier.Classify([]string{
		"foo.mlir:3:1: error: unknown operation 'hw.bogus'",
		"some unrelated line",
		"foo.mlir:9:5: warning: unused wire",
	}, false)

	require.Equal(t, m.UnexpectedDiagnostic, outcome.Verdict)
	assert.Equal(t, []string{
		"foo.mlir:3:1: error: unknown operation 'hw.bogus'",
		"foo.mlir:9:5: warning: unused wire",
	}, outcome.Messages)
}

func TestClassify_ExpectedFailToleratesDiagnostics(t *testing.T) {
	classifier := newTestClassifier(t)

	outcome := classifier.Classify([]string{
		"foo.mlir:3:1: error: unknown operation",
	}, true)

	assert.Equal(t, m.Clean, outcome.Verdict)
	assert.Empty(t, outcome.Messages)
}

func TestClassify_DiagnosticTokenMustBeDelimited(t *testing.T) {
	classifier := newTestClassifier(t)

	tests := []struct {
		name    string
		line    string
		matches bool
	}{
		{"plain error line", "error: something broke", true},
		{"location-prefixed error", "a.mlir:1:2: error: bad op", true},
		{"warning token", "a.mlir:4: warning: unused", true},
		{"embedded in identifier", "my_error:handler fired", false},
		{"no colon", "there was an error here", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := classifier.Classify([]string{tt.line}, false)

			if tt.matches {
				assert.Equal(t, m.UnexpectedDiagnostic, outcome.Verdict)
			} else {
				assert.Equal(t, m.Clean, outcome.Verdict)
			}
		})
	}
}

func TestClassify_CustomSignatures(t *testing.T) {
	classifier, err := NewClassifier([]string{"FATAL INTERNAL ERROR"}, "")
	require.NoError(t, err)

	outcome := classifier.Classify([]string{"FATAL INTERNAL ERROR in pass"}, false)
	assert.Equal(t, m.Crashed, outcome.Verdict)

	// The default signatures no longer apply once overridden.
	outcome = classifier.Classify([]string{"Stack dump:"}, false)
	assert.Equal(t, m.Clean, outcome.Verdict)
}

func TestNormalizeMessage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"file line col prefix", "foo.mlir:3:1: error: unknown operation", "error: unknown operation"},
		{"file line prefix", "bar.sv:12: error: syntax error", "error: syntax error"},
		{"no prefix", "error: unknown operation", "error: unknown operation"},
		{"surrounding whitespace", "  error: trailing  ", "error: trailing"},
		{"bare colon word is kept", "note: see above", "note: see above"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMessage(tt.in))
		})
	}
}

func TestNormalizeMessage_SameErrorAcrossTestsCollapses(t *testing.T) {
	a := NormalizeMessage("suite/a.mlir:3:1: error: unknown operation 'hw.bogus'")
	b := NormalizeMessage("suite/b.mlir:17:9: error: unknown operation 'hw.bogus'")

	assert.Equal(t, a, b)
}
