package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// JSONSetStore keeps seen identities as a single JSON array of strings,
// rewritten wholesale on Flush. Load seeds the in-memory set so a later
// Flush never drops identities recorded by previous runs.
type JSONSetStore struct {
	path    string
	pending map[string]struct{}
}

// NewJSONSetStore creates a store backed by the JSON file at path. The file
// is not touched until Flush.
func NewJSONSetStore(path string) *JSONSetStore {
	return &JSONSetStore{path: path, pending: make(map[string]struct{})}
}

// Load reads the persisted set. A missing or malformed file is an empty
// store, not an error.
func (s *JSONSetStore) Load() (map[string]struct{}, error) {
	seen := make(map[string]struct{})

	data, err := os.ReadFile(s.path)
	if err != nil {
		return seen, nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		// Corrupt or truncated file: start over rather than fail the run.
		return seen, nil
	}

	for _, id := range ids {
		seen[id] = struct{}{}
		s.pending[id] = struct{}{}
	}
	return seen, nil
}

// Add records an identity in memory; it becomes durable on Flush.
func (s *JSONSetStore) Add(identity string) error {
	s.pending[identity] = struct{}{}
	return nil
}

// Flush atomically rewrites the backing file with the full accumulated set,
// via a temp file rename so a crash never leaves a half-written store.
func (s *JSONSetStore) Flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("seenstore: create cache dir: %w", err)
	}

	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("seenstore: marshal set: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("seenstore: write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("seenstore: replace %q: %w", s.path, err)
	}
	return nil
}

// Clear removes the backing file and resets the in-memory set. Idempotent
// when nothing has been persisted yet.
func (s *JSONSetStore) Clear() error {
	s.pending = make(map[string]struct{})
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("seenstore: clear %q: %w", s.path, err)
	}
	return nil
}
