// Package pkg provides shared utilities for logsift.
package pkg

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Spill is a disk-backed append-only buffer for items of type T. The triage
// pipeline uses it to hand classified runs from the parallel workers to the
// serial aggregation stage without holding every log's verdict in memory.
type Spill[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	Range(f func(index uint64, item T) error) error
	Close() error
}

type spillImpl[T any] struct {
	path    string
	file    *os.File
	encoder *gob.Encoder
	mu      sync.Mutex
	length  uint64
}

// NewSpill creates a Spill backed by a temporary gob file.
func NewSpill[T any]() (Spill[T], error) {
	tmpDir := filepath.Join(os.TempDir(), "logsift-spill")
	if err := os.MkdirAll(tmpDir, 0o750); err != nil {
		return nil, fmt.Errorf("create spill directory %s: %w", tmpDir, err)
	}

	file, err := os.CreateTemp(tmpDir, "spill-*.gob")
	if err != nil {
		return nil, fmt.Errorf("create spill file: %w", err)
	}

	slog.Debug("created spill buffer", "path", file.Name())

	return &spillImpl[T]{
		path:    file.Name(),
		file:    file,
		encoder: gob.NewEncoder(file),
	}, nil
}

// Append encodes item at the end of the buffer. Safe for concurrent use.
func (s *spillImpl[T]) Append(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.encoder.Encode(item); err != nil {
		return fmt.Errorf("encode spill item %d: %w", s.length, err)
	}

	s.length++

	return nil
}

// Len returns the number of appended items.
func (s *spillImpl[T]) Len() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.length
}

// Path returns the location of the backing file.
func (s *spillImpl[T]) Path() string {
	return s.path
}

// Range replays every appended item in order. Appends are blocked for the
// duration of the replay.
func (s *spillImpl[T]) Range(fn func(index uint64, item T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open spill file: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := gob.NewDecoder(file)

	for i := uint64(0); i < s.length; i++ {
		var item T

		if err := decoder.Decode(&item); err != nil {
			return fmt.Errorf("decode spill item %d: %w", i, err)
		}

		if err := fn(i, item); err != nil {
			return err
		}
	}

	return nil
}

// Close releases the backing file and deletes it.
func (s *spillImpl[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}

	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close spill file: %w", err)
	}

	s.file = nil

	if err := os.Remove(s.path); err != nil {
		slog.Warn("failed to remove spill file", "path", s.path, "error", err)
	}

	return nil
}
