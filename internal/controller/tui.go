package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	m "logsift.dev/pkg/logsift/internal/model"
)

const (
	// ANSI color codes for verdict highlighting.
	redColor    = "\033[31m"
	yellowColor = "\033[33m"
	resetColor  = "\033[0m"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// DisplayScanInfo prints how many run logs were found.
func (t *TUI) DisplayScanInfo(ctx context.Context, runs int, workers int, shardIndex int, shardCount int) {
	if err := ctx.Err(); err != nil {
		return
	}

	if shardCount > 1 {
		fmt.Fprintf(t.output, "  🔍 %d run log(s), %d worker(s), shard %d/%d\n", runs, workers, shardIndex, shardCount)
		return
	}

	fmt.Fprintf(t.output, "  🔍 %d run log(s), %d worker(s)\n", runs, workers)
}

// DisplayRunClassified highlights crashed and diagnostic runs as they are
// classified. Clean runs stay quiet.
func (t *TUI) DisplayRunClassified(ctx context.Context, testID string, verdict m.Verdict) {
	if err := ctx.Err(); err != nil {
		return
	}

	switch verdict {
	case m.Crashed:
		fmt.Fprintf(t.output, "  %s💥 %s%s\n", redColor, testID, resetColor)
	case m.UnexpectedDiagnostic:
		fmt.Fprintf(t.output, "  %s⚠ %s%s\n", yellowColor, testID, resetColor)
	case m.Clean:
	}
}

// DisplaySummary prints the suite totals of a finalized report.
func (t *TUI) DisplaySummary(ctx context.Context, report *m.AggregateReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(t.output, "\n  📊 Total: %d | Crashed: %d | Diagnostics: %d | Clean: %d\n",
		report.TotalRuns, len(report.CrashedTests), len(report.DiagnosticTests), report.CleanRuns)

	return err
}

// DisplayRanking shows the ranked error table, paginated interactively when
// it does not fit on screen.
func (t *TUI) DisplayRanking(ctx context.Context, ranking []m.RankedError) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model := newRankingModel(ranking)

	// Get initial terminal size
	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.height = height
			model.width = width
		}
	}

	// If the table is small, just print and exit
	if !model.needsPagination() {
		_, err := fmt.Fprint(t.output, model.View())
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// rankingModel is the Bubble Tea model for paging through ranked errors.
type rankingModel struct {
	ranking  []m.RankedError
	total    int
	height   int
	width    int
	offset   int // Current scroll offset
	quitting bool
}

func newRankingModel(ranking []m.RankedError) rankingModel {
	total := 0
	for _, entry := range ranking {
		total += entry.Count
	}

	return rankingModel{
		ranking: ranking,
		total:   total,
	}
}

func (rm rankingModel) Init() tea.Cmd {
	return nil
}

func (rm rankingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.height = msg.Height
		rm.width = msg.Width

		return rm, nil

	case tea.KeyMsg:
		return rm.handleKeyPress(msg)
	}

	return rm, nil
}

//nolint:cyclop,exhaustive // Key handling requires multiple cases for UI navigation
func (rm rankingModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		rm.quitting = true
		return rm, tea.Quit
	default:
		// Handle other key types in the string switch below
	}

	switch msg.String() {
	case "q":
		rm.quitting = true
		return rm, tea.Quit

	case "down", "j":
		rm.offset++

		if maxOffset := rm.maxOffset(); rm.offset > maxOffset {
			rm.offset = maxOffset
		}

		return rm, nil

	case "up", "k":
		rm.offset--
		if rm.offset < 0 {
			rm.offset = 0
		}

		return rm, nil

	case "g", "home":
		rm.offset = 0

		return rm, nil

	case "G", "end":
		rm.offset = rm.maxOffset()

		return rm, nil

	case "d", "pgdown":
		rm.offset += rm.itemsPerPage()

		if maxOffset := rm.maxOffset(); rm.offset > maxOffset {
			rm.offset = maxOffset
		}

		return rm, nil

	case "u", "pgup":
		rm.offset -= rm.itemsPerPage()
		if rm.offset < 0 {
			rm.offset = 0
		}

		return rm, nil
	}

	return rm, nil
}

// itemsPerPage calculates how many ranking rows fit on screen.
func (rm rankingModel) itemsPerPage() int {
	if rm.height == 0 {
		return 10 // Default
	}
	// Reserve space for the header box, the title, the total line, and the
	// navigation footer.
	reserved := 12

	available := rm.height - reserved
	if available < 1 {
		return 1
	}

	return available
}

// maxOffset returns the maximum scroll offset.
func (rm rankingModel) maxOffset() int {
	perPage := rm.itemsPerPage()
	if perPage <= 0 {
		return 0
	}

	maxOff := len(rm.ranking) - perPage
	if maxOff < 0 {
		return 0
	}

	return maxOff
}

// needsPagination returns true if the table is too large to fit on screen.
func (rm rankingModel) needsPagination() bool {
	if len(rm.ranking) == 0 {
		return false
	}

	return len(rm.ranking) > rm.itemsPerPage() && rm.height > 0
}

func (rm rankingModel) View() string {
	var b strings.Builder

	rm.renderHeader(&b)

	if len(rm.ranking) == 0 {
		b.WriteString("  ✅ No unexpected errors recorded\n")
		return b.String()
	}

	rm.renderRankingList(&b)

	return b.String()
}

func (rm rankingModel) renderHeader(b *strings.Builder) {
	b.WriteString("╔════════════════════════════════════════════════════════════════╗\n")
	b.WriteString("║                    Logsift - Test Log Triage                   ║\n")
	b.WriteString("╚════════════════════════════════════════════════════════════════╝\n\n")
}

func (rm rankingModel) renderRankingList(b *strings.Builder) {
	totalRows := len(rm.ranking)

	b.WriteString("  🔢 Recurring error messages:\n\n")

	itemsPerPage := rm.itemsPerPage()
	needsPagination := totalRows > itemsPerPage && rm.height > 0

	start := rm.offset

	end := start + itemsPerPage
	if end > totalRows {
		end = totalRows
	}

	if start >= totalRows {
		start = totalRows - 1
		if start < 0 {
			start = 0
		}
	}

	displayRows := rm.ranking
	if needsPagination {
		displayRows = rm.ranking[start:end]
	}

	for _, entry := range displayRows {
		fmt.Fprintf(b, "  %6d  %s\n", entry.Count, entry.Message)
	}

	b.WriteString("\n")
	fmt.Fprintf(b, "  📊 Total: %d occurrence(s) across %d distinct error(s)\n", rm.total, totalRows)

	if needsPagination {
		b.WriteString("\n")

		currentPage := (rm.offset / itemsPerPage) + 1
		totalPages := (totalRows + itemsPerPage - 1) / itemsPerPage
		fmt.Fprintf(b, "  Page %d/%d | Showing %d-%d of %d\n",
			currentPage, totalPages, start+1, end, totalRows)
		b.WriteString("  ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit\n")
	}
}
