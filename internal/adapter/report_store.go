package adapter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	m "logsift.dev/pkg/logsift/internal/model"
)

// ReportStore persists finalized aggregate reports.
type ReportStore interface {
	SaveReport(dir m.Path, report *m.AggregateReport) error
	LoadReport(dir m.Path) (*m.AggregateReport, error)
	LoadShardReports(root m.Path) ([]*m.AggregateReport, error)
}

// reportFileName is the machine-readable snapshot written next to the plain
// artifacts, and the unit of shard merging.
const reportFileName = "report.json"

// shardDirGlob matches the per-shard subdirectories written by sharded runs.
const shardDirGlob = "shard_*"

// LocalReportStore stores reports as JSON files under the reports directory.
type LocalReportStore struct{}

// NewLocalReportStore constructs a LocalReportStore.
func NewLocalReportStore() *LocalReportStore {
	return &LocalReportStore{}
}

// SaveReport writes the report snapshot to dir/report.json, creating dir if
// needed. The write is atomic: a failed write leaves any previous snapshot
// untouched.
func (s *LocalReportStore) SaveReport(dir m.Path, report *m.AggregateReport) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create reports directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	target := filepath.Join(string(dir), reportFileName)
	if err := writeFileAtomic(target, append(data, '\n')); err != nil {
		return err
	}

	slog.Debug("saved report", "path", target,
		"crashed", len(report.CrashedTests), "diagnostic", len(report.DiagnosticTests))

	return nil
}

// LoadReport reads the snapshot from dir/report.json.
func (s *LocalReportStore) LoadReport(dir m.Path) (*m.AggregateReport, error) {
	target := filepath.Join(string(dir), reportFileName)

	data, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("report %s: %w", target, m.ErrInputNotFound)
		}

		return nil, fmt.Errorf("read report %s: %w", target, err)
	}

	var report m.AggregateReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", target, err)
	}

	return &report, nil
}

// LoadShardReports loads every shard_*/report.json under root in shard
// order. Missing shard directories yield ErrInputNotFound.
func (s *LocalReportStore) LoadShardReports(root m.Path) ([]*m.AggregateReport, error) {
	shardDirs, err := filepath.Glob(filepath.Join(string(root), shardDirGlob))
	if err != nil {
		return nil, fmt.Errorf("scan shard directories under %s: %w", root, err)
	}

	if len(shardDirs) == 0 {
		return nil, fmt.Errorf("no shard reports under %s: %w", root, m.ErrInputNotFound)
	}

	sort.Strings(shardDirs)

	reports := make([]*m.AggregateReport, 0, len(shardDirs))

	for _, dir := range shardDirs {
		report, err := s.LoadReport(m.Path(dir))
		if err != nil {
			return nil, err
		}

		reports = append(reports, report)
	}

	return reports, nil
}

// writeFileAtomic writes data to a temporary file in the target's directory
// and renames it into place, so readers never observe a partial artifact.
func writeFileAtomic(target string, data []byte) error {
	dir := filepath.Dir(target)

	tmp, err := os.CreateTemp(dir, filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return fmt.Errorf("write %s: %w", target, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("publish %s: %w", target, err)
	}

	return nil
}
