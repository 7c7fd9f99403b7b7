// Package jshost binds the bridge to the js_* host imports of the
// Emscripten web worker runtime.
package jshost

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultSnapshotDir is where the worker exchanges snapshot files.
const DefaultSnapshotDir = "/tmp"

// SnapshotFS exchanges snapshot state with the worker through its virtual
// filesystem. The worker writes incoming state before queueing a load and
// reads outgoing state when a save completes.
type SnapshotFS struct {
	Dir    string
	Logger *slog.Logger
}

func (f SnapshotFS) dir() string {
	if f.Dir == "" {
		return DefaultSnapshotDir
	}
	return f.Dir
}

func (f SnapshotFS) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.Default()
	}
	return f.Logger
}

// SavePath returns the file a save's state is written to.
func (f SnapshotFS) SavePath(requestID uint32) string {
	return filepath.Join(f.dir(), fmt.Sprintf("outgoing-vm-snapshot-%d.snows", requestID))
}

// LoadPath returns the file a load's state is read from.
func (f SnapshotFS) LoadPath(requestID uint32) string {
	return filepath.Join(f.dir(), fmt.Sprintf("incoming-vm-snapshot-%d.snows", requestID))
}

// ReadLoad returns the state for a load request, or nil when the worker
// supplied none.
func (f SnapshotFS) ReadLoad(requestID uint32) []byte {
	data, err := os.ReadFile(f.LoadPath(requestID))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.logger().Error("failed to read snapshot", "request_id", requestID, "error", err)
		}
		return nil
	}
	return data
}

// WriteSave stores state for the worker to pick up.
func (f SnapshotFS) WriteSave(requestID uint32, state []byte) error {
	if err := os.MkdirAll(f.dir(), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := os.WriteFile(f.SavePath(requestID), state, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
