// Package media adapts host storage handles into disk, CD-ROM and floppy
// media for the core, and manages hot-plugged CD-ROM insertions.
package media

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"
	"sync"

	"github.com/user-none/snowbridge/hostif"
)

// ErrDiskNotFound is returned when the host cannot resolve a name.
var ErrDiskNotFound = errors.New("disk not found")

// ErrInvalidSize is returned when the host reports an unusable size.
var ErrInvalidSize = errors.New("invalid disk size")

// ErrInvalidName is returned for names that cannot cross the boundary.
var ErrInvalidName = errors.New("disk name contains an embedded null byte")

// DiskHandle is one open host-side storage region. The host resource is
// released exactly once: by Close, or by the garbage collector if the
// handle is dropped without being closed.
type DiskHandle struct {
	surface *hostif.Surface
	id      int32
	size    int
	name    string

	closeOnce sync.Once
	cleanup   runtime.Cleanup
}

type handleRef struct {
	surface *hostif.Surface
	id      int32
}

// OpenHandle resolves name on the host and validates its size.
func OpenHandle(s *hostif.Surface, name string) (*DiskHandle, error) {
	if strings.IndexByte(name, 0) >= 0 {
		return nil, ErrInvalidName
	}

	id, ok := s.DiskOpen(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDiskNotFound, name)
	}

	size := s.DiskSize(id)
	if math.IsNaN(size) || math.IsInf(size, 0) || size < 0 {
		s.DiskClose(id)
		return nil, fmt.Errorf("%w for %s", ErrInvalidSize, name)
	}

	h := &DiskHandle{
		surface: s,
		id:      id,
		size:    int(size),
		name:    name,
	}
	h.cleanup = runtime.AddCleanup(h, func(ref handleRef) {
		ref.surface.DiskClose(ref.id)
	}, handleRef{surface: s, id: id})
	return h, nil
}

// Len returns the size fixed at open time.
func (h *DiskHandle) Len() int {
	return h.size
}

// Name returns the name the handle was opened under.
func (h *DiskHandle) Name() string {
	return h.name
}

// ReadInto fills buf starting at offset. Bounds are enforced by the host.
func (h *DiskHandle) ReadInto(offset int, buf []byte) {
	h.surface.DiskRead(h.id, buf, offset)
}

// Read returns length bytes starting at offset.
func (h *DiskHandle) Read(offset, length int) []byte {
	buf := make([]byte, length)
	h.ReadInto(offset, buf)
	return buf
}

// ReadAll returns the whole region.
func (h *DiskHandle) ReadAll() []byte {
	return h.Read(0, h.size)
}

// Write stores data starting at offset.
func (h *DiskHandle) Write(offset int, data []byte) {
	h.surface.DiskWrite(h.id, data, offset)
}

// Close releases the host handle. Further calls do nothing.
func (h *DiskHandle) Close() error {
	h.closeOnce.Do(func() {
		h.cleanup.Stop()
		h.surface.DiskClose(h.id)
	})
	return nil
}
