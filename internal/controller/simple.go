package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "logsift.dev/pkg/logsift/internal/model"
)

// SimpleUI implements UI using cobra Command's output stream. It is the
// non-interactive fallback used in pipelines and CI.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayScanInfo prints how many run logs were found and how they will be
// processed.
func (s *SimpleUI) DisplayScanInfo(ctx context.Context, runs int, workers int, shardIndex int, shardCount int) {
	if err := ctx.Err(); err != nil {
		return
	}

	if shardCount > 1 {
		s.printf("Classifying %d run log(s) with %d worker(s) (shard %d/%d)\n", runs, workers, shardIndex, shardCount)
		return
	}

	s.printf("Classifying %d run log(s) with %d worker(s)\n", runs, workers)
}

// DisplayRunClassified prints one run's verdict. Clean runs stay quiet to
// keep suite-sized output readable.
func (s *SimpleUI) DisplayRunClassified(ctx context.Context, testID string, verdict m.Verdict) {
	if err := ctx.Err(); err != nil {
		return
	}

	if verdict == m.Clean {
		return
	}

	s.printf("%s: %s\n", verdict, testID)
}

// DisplaySummary prints the suite totals of a finalized report.
func (s *SimpleUI) DisplaySummary(ctx context.Context, report *m.AggregateReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\nTotal: %d | Crashed: %d | Diagnostics: %d | Clean: %d\n",
		report.TotalRuns, len(report.CrashedTests), len(report.DiagnosticTests), report.CleanRuns)

	return nil
}

// DisplayRanking renders the frequency-ranked error table.
func (s *SimpleUI) DisplayRanking(ctx context.Context, ranking []m.RankedError) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(ranking) == 0 {
		s.printf("No unexpected errors recorded.\n")
		return nil
	}

	s.printf("\n%s", renderRankingTable(ranking))

	return nil
}

func renderRankingTable(ranking []m.RankedError) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Count", "Error"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	total := 0

	for _, entry := range ranking {
		table.Append([]string{fmt.Sprintf("%d", entry.Count), entry.Message})

		total += entry.Count
	}

	table.SetFooter([]string{
		fmt.Sprintf("%d", total),
		fmt.Sprintf("%d distinct error(s)", len(ranking)),
	})

	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
