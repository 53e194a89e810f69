// Package controller provides output adapters for displaying triage results.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "logsift.dev/pkg/logsift/internal/model"
)

// UI defines the interface for presenting triage progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	DisplayScanInfo(ctx context.Context, runs int, workers int, shardIndex int, shardCount int)
	DisplayRunClassified(ctx context.Context, testID string, verdict m.Verdict)
	DisplaySummary(ctx context.Context, report *m.AggregateReport) error
	DisplayRanking(ctx context.Context, ranking []m.RankedError) error
}

// NewUI picks the interactive TUI when writing to a terminal and falls back
// to plain output otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
