package domain

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"logsift.dev/pkg/logsift/internal/adapter"
	m "logsift.dev/pkg/logsift/internal/model"
	"logsift.dev/pkg/logsift/pkg"
)

// classifyLogs fans the log files out to a bounded worker pool. Classification
// is pure and shares no state, so workers only synchronize on the spill
// buffer. Results land in completion order; aggregate restores scan order.
func (w *workflow) classifyLogs(
	ctx context.Context,
	root m.Path,
	logs []m.Path,
	metadata adapter.MetadataStore,
	workers int,
) (pkg.Spill[m.ClassifiedRun], error) {
	spill, err := pkg.NewSpill[m.ClassifiedRun]()
	if err != nil {
		return nil, err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for seq, logPath := range logs {
		seq, logPath := seq, logPath

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			testID, outcome := w.classifyOne(root, logPath, metadata)

			w.DisplayRunClassified(groupCtx, testID, outcome.Verdict)

			return spill.Append(m.ClassifiedRun{
				Seq:     uint64(seq),
				TestID:  testID,
				Outcome: outcome,
			})
		})
	}

	if err := group.Wait(); err != nil {
		_ = spill.Close()

		return nil, err
	}

	return spill, nil
}

// classifyOne reads and classifies a single run log. An unreadable log must
// not abort the whole pass, so it surfaces in the report as an unexpected
// diagnostic with a synthetic message.
func (w *workflow) classifyOne(root, logPath m.Path, metadata adapter.MetadataStore) (string, m.Outcome) {
	testID := adapter.TestIDForLog(root, logPath)

	lines, err := w.ReadLines(logPath)
	if err != nil {
		slog.Warn("unreadable run log", "path", logPath, "error", err)

		return testID, m.Outcome{
			Verdict:  m.UnexpectedDiagnostic,
			Messages: []string{"error: unreadable run log"},
		}
	}

	return testID, w.classifier.Classify(lines, metadata.ShouldFail(testID))
}

// aggregate replays the spill buffer into a fresh Aggregator and finalizes
// the report. Runs are ingested in scan order so the report's test lists are
// reproducible regardless of worker scheduling.
func (w *workflow) aggregate(classified pkg.Spill[m.ClassifiedRun]) (*m.AggregateReport, error) {
	runs := make([]m.ClassifiedRun, 0, classified.Len())

	err := classified.Range(func(_ uint64, run m.ClassifiedRun) error {
		runs = append(runs, run)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Seq < runs[j].Seq })

	aggregator := NewAggregator()

	for _, run := range runs {
		if err := aggregator.Ingest(run.TestID, run.Outcome); err != nil {
			return nil, err
		}
	}

	return aggregator.Finalize()
}
