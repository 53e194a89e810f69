package adapter

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	m "logsift.dev/pkg/logsift/internal/model"
	"logsift.dev/pkg/logsift/internal/schema"
)

// MetadataStore resolves which tests are expected to fail. The run-execution
// collaborator produces the metadata; logsift only reads it.
type MetadataStore interface {
	ShouldFail(testID string) bool
}

// NoMetadata treats every test as expected to pass. It backs runs where no
// metadata source was given.
type NoMetadata struct{}

// ShouldFail always reports false.
func (NoMetadata) ShouldFail(string) bool { return false }

// YAMLMetadataStore resolves expectations from a suite metadata YAML file
// keyed by test ID.
type YAMLMetadataStore struct {
	entries map[string]bool
}

// metadataDoc mirrors the metadata file layout. Per-test records are kept as
// raw nodes so one malformed record degrades to defaults instead of failing
// the whole file.
type metadataDoc struct {
	Version int                  `yaml:"version"`
	Tests   map[string]yaml.Node `yaml:"tests"`
}

// LoadMetadata reads and decodes a metadata file. A missing file is an
// ErrInputNotFound; a file that is not YAML at all is a fatal format error.
// Individual malformed records resolve to should_fail=false so their
// diagnostics stay visible in the report.
func LoadMetadata(path m.Path) (*YAMLMetadataStore, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("metadata file %s: %w", path, m.ErrInputNotFound)
		}

		return nil, fmt.Errorf("metadata file %s: %w", path, err)
	}

	if err := schema.ValidateMetadata(data); err != nil {
		slog.Warn("metadata does not match schema; malformed records resolve to should_fail=false",
			"path", path, "error", err)
	}

	var doc metadataDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", path, err)
	}

	entries := make(map[string]bool, len(doc.Tests))

	for testID, node := range doc.Tests {
		entries[testID] = decodeShouldFail(testID, node)
	}

	slog.Debug("loaded suite metadata", "path", path, "tests", len(entries))

	return &YAMLMetadataStore{entries: entries}, nil
}

// ShouldFail reports whether the test's metadata marks diagnostics as the
// intended outcome. Unknown test IDs resolve to false.
func (s *YAMLMetadataStore) ShouldFail(testID string) bool {
	return s.entries[testID]
}

func decodeShouldFail(testID string, node yaml.Node) bool {
	var record struct {
		ShouldFail bool `yaml:"should_fail"`
	}

	if err := node.Decode(&record); err != nil {
		slog.Warn("malformed metadata record, treating as should_fail=false", "test", testID, "error", err)
		return false
	}

	return record.ShouldFail
}
