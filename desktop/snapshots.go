package desktop

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotStore keeps the quick-save state in a file.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore stores state at dir/quicksave.snows.
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{path: filepath.Join(dir, "quicksave.snows")}
}

// Path returns the backing file.
func (s *SnapshotStore) Path() string {
	return s.path
}

// Save writes state atomically.
func (s *SnapshotStore) Save(state []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, state, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename snapshot: %w", err)
	}
	return nil
}

// Load returns the saved state, or nil when none exists.
func (s *SnapshotStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}
