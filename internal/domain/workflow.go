package domain

import (
	"context"
	"fmt"
	"log/slog"

	"logsift.dev/pkg/logsift/internal/adapter"
	"logsift.dev/pkg/logsift/internal/controller"
	m "logsift.dev/pkg/logsift/internal/model"
)

// RunArgs contains the arguments for one triage pass over a log directory.
type RunArgs struct {
	Logs        m.Path
	Metadata    m.Path
	Reports     m.Path
	Exclude     []string
	Workers     int
	ShardIndex  int
	TotalShards int
	HTML        bool
}

// MergeArgs contains the arguments for merging sharded reports.
type MergeArgs struct {
	Reports m.Path
	HTML    bool
}

// ViewArgs contains the arguments for viewing a previously written report.
type ViewArgs struct {
	Reports m.Path
}

// Workflow defines the triage workflows exposed by the CLI.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) error
	Merge(ctx context.Context, args MergeArgs) error
	View(ctx context.Context, args ViewArgs) error
}

type workflow struct {
	adapter.LogFSAdapter
	adapter.ReportStore
	adapter.ArtifactWriter
	controller.UI

	classifier *Classifier
}

// NewWorkflow creates a Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.LogFSAdapter,
	reportStore adapter.ReportStore,
	artifactWriter adapter.ArtifactWriter,
	ui controller.UI,
	classifier *Classifier,
) Workflow {
	return &workflow{
		LogFSAdapter:   fsAdapter,
		ReportStore:    reportStore,
		ArtifactWriter: artifactWriter,
		UI:             ui,
		classifier:     classifier,
	}
}

// Run classifies every run log under args.Logs, aggregates the verdicts, and
// publishes the report artifacts. With sharding enabled only the shard's
// partial report is written; the merge workflow produces the final artifacts.
func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	logs, err := w.ScanLogs(args.Logs, args.Exclude)
	if err != nil {
		return fmt.Errorf("scan logs: %w", err)
	}

	logs = shardLogs(logs, args.ShardIndex, args.TotalShards)

	metadata, err := w.loadMetadata(args.Metadata)
	if err != nil {
		return err
	}

	workers := args.Workers
	if workers < 1 {
		workers = 1
	}

	w.DisplayScanInfo(ctx, len(logs), workers, args.ShardIndex, args.TotalShards)

	classified, err := w.classifyLogs(ctx, args.Logs, logs, metadata, workers)
	if err != nil {
		return fmt.Errorf("classify logs: %w", err)
	}

	defer func() {
		if err := classified.Close(); err != nil {
			slog.Warn("failed to close spill buffer", "error", err)
		}
	}()

	report, err := w.aggregate(classified)
	if err != nil {
		return fmt.Errorf("aggregate outcomes: %w", err)
	}

	if args.TotalShards > 1 {
		shardDir := w.JoinPath(string(args.Reports), fmt.Sprintf("shard_%d", args.ShardIndex))

		if err := w.SaveReport(shardDir, report); err != nil {
			return fmt.Errorf("save shard report: %w", err)
		}

		slog.Info("shard report saved", "dir", shardDir,
			"shard", args.ShardIndex, "total_shards", args.TotalShards)

		return nil
	}

	if err := w.SaveReport(args.Reports, report); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	return w.publish(ctx, args.Reports, report, args.HTML)
}

// Merge combines shard_* partial reports under the reports directory into
// the final report and artifacts.
func (w *workflow) Merge(ctx context.Context, args MergeArgs) error {
	parts, err := w.LoadShardReports(args.Reports)
	if err != nil {
		return fmt.Errorf("load shard reports: %w", err)
	}

	merged := MergeReports(parts)

	slog.Info("merged shard reports", "shards", len(parts), "total_runs", merged.TotalRuns)

	if err := w.SaveReport(args.Reports, merged); err != nil {
		return fmt.Errorf("save merged report: %w", err)
	}

	return w.publish(ctx, args.Reports, merged, args.HTML)
}

// View displays a previously written report without reclassifying anything.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	report, err := w.LoadReport(args.Reports)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	if err := w.DisplaySummary(ctx, report); err != nil {
		return err
	}

	return w.DisplayRanking(ctx, RankErrors(report.ErrorFrequency))
}

// publish writes the artifacts for a finalized report and displays it.
func (w *workflow) publish(ctx context.Context, dir m.Path, report *m.AggregateReport, includeHTML bool) error {
	ranking := RankErrors(report.ErrorFrequency)

	if err := w.WriteArtifacts(dir, report, ranking, includeHTML); err != nil {
		return fmt.Errorf("write artifacts: %w", err)
	}

	if err := w.DisplaySummary(ctx, report); err != nil {
		return err
	}

	return w.DisplayRanking(ctx, ranking)
}

func (w *workflow) loadMetadata(path m.Path) (adapter.MetadataStore, error) {
	if path == "" {
		return adapter.NoMetadata{}, nil
	}

	store, err := adapter.LoadMetadata(path)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}

	return store, nil
}

// shardLogs keeps every totalShards-th log starting at shardIndex. Scan
// order is deterministic, so the same flags select the same shard on every
// CI node.
func shardLogs(logs []m.Path, shardIndex, totalShards int) []m.Path {
	if totalShards <= 1 {
		return logs
	}

	var shard []m.Path

	for i, log := range logs {
		if i%totalShards == shardIndex {
			shard = append(shard, log)
		}
	}

	return shard
}
