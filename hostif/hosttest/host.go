// Package hosttest provides an in-memory hostif.Primitives for tests.
package hosttest

import (
	"fmt"
	"math"
	"sync"

	"github.com/user-none/snowbridge/hostif"
)

// Compile-time interface check.
var _ hostif.Primitives = (*Host)(nil)

// Completion records one snapshot completion callback.
type Completion struct {
	Kind      string // "save", "loaded" or "error"
	RequestID uint32
	State     []byte
	Message   string
}

// KeyEvent is a queued raw key transition.
type KeyEvent struct {
	Code  int32
	State int32
}

// Host records every call and serves configurable responses. The zero
// value behaves like a host with no input, no media and an unknown audio
// queue size; use New for sensible defaults.
type Host struct {
	mu sync.Mutex

	// Events is an ordered log of video and audio calls, e.g.
	// "geometry 512x342", "blit 4", "audio 64".
	Events []string

	Geometry [][2]uint32
	Frames   [][]byte

	AudioFormat [3]uint32
	// BufferSizes is consumed one reading per AudioBufferSize call; the last
	// value repeats. An empty slice reads as -1.
	BufferSizes []int32
	Enqueued    [][]byte
	Sleeps      []float64

	// Disks maps names to backing bytes. SizeOverride replaces the size the
	// host reports for a name.
	Disks        map[string][]byte
	SizeOverride map[string]float64
	openNames    map[int32]string
	nextID       int32
	Closed       []int32

	LockBusy     bool
	LockAcquired int
	LockReleased int
	lockHeld     bool

	// ButtonState is returned by MouseButtonState; negative means no reading.
	ButtonState int32
	MouseValid  bool
	MouseXPos   int32
	MouseYPos   int32
	DeltaX      int32
	DeltaY      int32
	Keys        []KeyEvent
	Speeds      []int32

	CdromNames []string

	SnapKind    int32
	SnapID      uint32
	SnapStates  map[uint32][]byte
	Completions []Completion
	// KindReads and IDReads count boundary reads of the snapshot sentinels.
	KindReads int
	IDReads   int

	PeriodicTasks int
}

// New returns a Host with no mouse button reading and empty storage.
func New() *Host {
	return &Host{
		ButtonState:  -1,
		Disks:        map[string][]byte{},
		SizeOverride: map[string]float64{},
		SnapStates:   map[uint32][]byte{},
	}
}

// AddDisk registers backing bytes under name.
func (h *Host) AddDisk(name string, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Disks == nil {
		h.Disks = map[string][]byte{}
	}
	h.Disks[name] = data
}

// OpenHandles returns the number of handles not yet closed.
func (h *Host) OpenHandles() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.openNames)
}

// LockHeld reports whether the input lock is currently held.
func (h *Host) LockHeld() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lockHeld
}

// SleepCount returns the number of Sleep calls.
func (h *Host) SleepCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.Sleeps)
}

func (h *Host) DidOpenVideo(width, height uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Geometry = append(h.Geometry, [2]uint32{width, height})
	h.Events = append(h.Events, fmt.Sprintf("geometry %dx%d", width, height))
}

func (h *Host) Blit(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Frames = append(h.Frames, append([]byte(nil), frame...))
	h.Events = append(h.Events, fmt.Sprintf("blit %d", len(frame)))
}

func (h *Host) DidOpenAudio(sampleRate, sampleSize, channels uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.AudioFormat = [3]uint32{sampleRate, sampleSize, channels}
}

func (h *Host) AudioBufferSize() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.BufferSizes) == 0 {
		return -1
	}
	v := h.BufferSizes[0]
	if len(h.BufferSizes) > 1 {
		h.BufferSizes = h.BufferSizes[1:]
	}
	return v
}

func (h *Host) EnqueueAudio(buf []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Enqueued = append(h.Enqueued, append([]byte(nil), buf...))
	h.Events = append(h.Events, fmt.Sprintf("audio %d", len(buf)))
}

func (h *Host) DiskOpen(name string) int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.Disks[name]; !ok {
		return -1
	}
	if h.openNames == nil {
		h.openNames = map[int32]string{}
	}
	id := h.nextID
	h.nextID++
	h.openNames[id] = name
	return id
}

func (h *Host) DiskClose(id int32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.openNames, id)
	h.Closed = append(h.Closed, id)
}

func (h *Host) DiskSize(id int32) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	name, ok := h.openNames[id]
	if !ok {
		return math.NaN()
	}
	if size, ok := h.SizeOverride[name]; ok {
		return size
	}
	return float64(len(h.Disks[name]))
}

func (h *Host) DiskRead(id int32, buf []byte, offset float64) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	data := h.Disks[h.openNames[id]]
	off := int(offset)
	if off >= len(data) {
		return 0
	}
	return float64(copy(buf, data[off:]))
}

func (h *Host) DiskWrite(id int32, buf []byte, offset float64) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	name := h.openNames[id]
	data := h.Disks[name]
	off := int(offset)
	if off >= len(data) {
		return 0
	}
	n := copy(data[off:], buf)
	return float64(n)
}

func (h *Host) AcquireInputLock() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.LockBusy || h.lockHeld {
		return 0
	}
	h.lockHeld = true
	h.LockAcquired++
	return 1
}

func (h *Host) ReleaseInputLock() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lockHeld = false
	h.LockReleased++
}

func (h *Host) HasMousePosition() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return boolToInt(h.MouseValid)
}

func (h *Host) MouseX() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.MouseXPos
}

func (h *Host) MouseY() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.MouseYPos
}

func (h *Host) MouseDeltaX() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.DeltaX
}

func (h *Host) MouseDeltaY() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.DeltaY
}

func (h *Host) MouseButtonState() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ButtonState
}

func (h *Host) HasKeyEvent() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return boolToInt(len(h.Keys) > 0)
}

func (h *Host) KeyCode() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.Keys) == 0 {
		return 0
	}
	return h.Keys[0].Code
}

// KeyState returns the state of the head key event and consumes it.
func (h *Host) KeyState() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.Keys) == 0 {
		return 0
	}
	state := h.Keys[0].State
	h.Keys = h.Keys[1:]
	return state
}

func (h *Host) HasSpeedEvent() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return boolToInt(len(h.Speeds) > 0)
}

func (h *Host) Speed() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.Speeds) == 0 {
		return 0
	}
	v := h.Speeds[0]
	h.Speeds = h.Speeds[1:]
	return v
}

func (h *Host) ConsumeCdromName() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.CdromNames) == 0 {
		return ""
	}
	name := h.CdromNames[0]
	h.CdromNames = h.CdromNames[1:]
	return name
}

// RequestCdrom queues a host-side CD-ROM insertion request.
func (h *Host) RequestCdrom(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.CdromNames = append(h.CdromNames, name)
}

// RequestSnapshot sets the pending snapshot sentinels.
func (h *Host) RequestSnapshot(kind int32, requestID uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.SnapKind = kind
	h.SnapID = requestID
}

// SnapshotTakeKind returns the pending kind and clears it.
func (h *Host) SnapshotTakeKind() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.KindReads++
	kind := h.SnapKind
	h.SnapKind = 0
	return kind
}

// SnapshotTakeRequestID returns the pending id and clears it.
func (h *Host) SnapshotTakeRequestID() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.IDReads++
	id := h.SnapID
	h.SnapID = 0
	return id
}

func (h *Host) SnapshotState(requestID uint32) []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.SnapStates[requestID]
}

func (h *Host) SnapshotCompleteSave(requestID uint32, state []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Completions = append(h.Completions, Completion{Kind: "save", RequestID: requestID, State: append([]byte(nil), state...)})
}

func (h *Host) SnapshotCompleteLoaded(requestID uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Completions = append(h.Completions, Completion{Kind: "loaded", RequestID: requestID})
}

func (h *Host) SnapshotCompleteError(requestID uint32, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Completions = append(h.Completions, Completion{Kind: "error", RequestID: requestID, Message: message})
}

func (h *Host) Sleep(secs float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Sleeps = append(h.Sleeps, secs)
}

func (h *Host) CheckPeriodicTasks() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.PeriodicTasks++
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
