package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AppendLogStore keeps seen identities one per line and makes each Add
// durable immediately with a single append write. Prior entries are never
// rewritten.
type AppendLogStore struct {
	path string
}

// NewAppendLogStore creates a store backed by the newline-delimited file at
// path.
func NewAppendLogStore(path string) *AppendLogStore {
	return &AppendLogStore{path: path}
}

// Load reconstructs the set by reading every line. A missing file is an
// empty store, not an error.
func (s *AppendLogStore) Load() (map[string]struct{}, error) {
	seen := make(map[string]struct{})

	f, err := os.Open(s.path)
	if err != nil {
		return seen, nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			seen[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		// Whatever was readable counts; a truncated tail is the in-flight
		// item of a crashed run.
		return seen, nil
	}
	return seen, nil
}

// Add appends the identity as one line, creating the file if needed.
func (s *AppendLogStore) Add(identity string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("seenlog: create cache dir: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("seenlog: open %q: %w", s.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(identity + "\n"); err != nil {
		return fmt.Errorf("seenlog: append: %w", err)
	}
	return nil
}

// Flush is a no-op: every Add is already durable.
func (s *AppendLogStore) Flush() error {
	return nil
}

// Clear removes the backing file. Idempotent when nothing exists yet.
func (s *AppendLogStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("seenlog: clear %q: %w", s.path, err)
	}
	return nil
}
