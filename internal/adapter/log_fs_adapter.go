// Package adapter contains filesystem and persistence adapters for the
// logsift CLI.
package adapter

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	m "logsift.dev/pkg/logsift/internal/model"
)

// LogFSAdapter abstracts filesystem access to the collaborator-produced log
// tree. It hides direct `os` access so the workflow logic can be tested
// against fakes without touching the disk.
type LogFSAdapter interface {
	// ScanLogs walks the log directory and returns every run log file,
	// sorted by path for a deterministic scan order. Exclude patterns are
	// regular expressions matched against the path relative to root.
	ScanLogs(root m.Path, exclude []string) ([]m.Path, error)

	// ReadLines loads a log file and returns its lines in file order.
	ReadLines(path m.Path) ([]string, error)

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// logFileExt is the extension the run-execution collaborator gives captured
// output files.
const logFileExt = ".log"

// LocalLogFSAdapter is the disk-backed implementation of LogFSAdapter.
type LocalLogFSAdapter struct{}

// NewLocalLogFSAdapter constructs a LocalLogFSAdapter ready to be wired into
// the workflow.
func NewLocalLogFSAdapter() *LocalLogFSAdapter {
	return &LocalLogFSAdapter{}
}

// ScanLogs walks root collecting *.log files, filtered by the exclude
// patterns and sorted by path.
func (a *LocalLogFSAdapter) ScanLogs(root m.Path, exclude []string) ([]m.Path, error) {
	rootStr := string(root)

	if _, err := os.Stat(rootStr); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("log directory %s: %w", root, m.ErrInputNotFound)
		}

		return nil, fmt.Errorf("log directory %s: %w", root, err)
	}

	excludeRes := make([]*regexp.Regexp, 0, len(exclude))

	for _, pattern := range exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile exclude pattern %q: %w", pattern, err)
		}

		excludeRes = append(excludeRes, re)
	}

	var logs []m.Path

	err := filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || filepath.Ext(path) != logFileExt {
			return nil
		}

		rel, err := filepath.Rel(rootStr, path)
		if err != nil {
			return err
		}

		for _, re := range excludeRes {
			if re.MatchString(filepath.ToSlash(rel)) {
				return nil
			}
		}

		logs = append(logs, m.Path(path))

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(logs, func(i, j int) bool { return logs[i] < logs[j] })

	return logs, nil
}

// ReadLines loads the file at path and splits it into lines.
func (a *LocalLogFSAdapter) ReadLines(path m.Path) ([]string, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = f.Close()
	}()

	var lines []string

	scanner := bufio.NewScanner(f)
	// Compiler stack dumps can exceed bufio's default 64K line limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return lines, nil
}

// RelPath returns the relative path from base to target.
func (a *LocalLogFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalLogFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

// TestIDForLog derives the test ID for a log file: its path relative to the
// log root with the extension stripped, slash-separated on every platform.
func TestIDForLog(root, path m.Path) string {
	rel, err := filepath.Rel(string(root), string(path))
	if err != nil {
		rel = filepath.Base(string(path))
	}

	return filepath.ToSlash(strings.TrimSuffix(rel, logFileExt))
}
