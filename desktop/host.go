package desktop

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user-none/snowbridge/hostif"
)

// Compile-time interface check.
var _ hostif.Primitives = (*Host)(nil)

var errNoFrame = errors.New("no frame to copy")

type keyEvent struct {
	code    int32
	pressed bool
}

// InputState is the host input buffer. The UI goroutine writes it through
// Host.UpdateInput; the bridge reads it while holding the input lock.
type InputState struct {
	HasPosition bool
	X, Y        int32
	DeltaX      int32
	DeltaY      int32
	// Button is -1 when no new button reading is pending, else 0 or 1.
	Button int32
	keys   []keyEvent
	speeds []int32
}

// QueueKey appends a key transition.
func (s *InputState) QueueKey(code uint8, pressed bool) {
	s.keys = append(s.keys, keyEvent{code: int32(code), pressed: pressed})
}

// QueueSpeed appends a raw speed request.
func (s *InputState) QueueSpeed(raw int32) {
	s.speeds = append(s.speeds, raw)
}

// consumed clears the readings the bridge has taken.
func (s *InputState) consumed() {
	s.HasPosition = false
	s.DeltaX, s.DeltaY = 0, 0
	s.Button = -1
}

type snapshotRequest struct {
	kind      int32
	requestID uint32
}

// Host implements hostif.Primitives for a native window.
type Host struct {
	store     *FileStore
	audio     audioOutput
	fb        *SharedFramebuffer
	notes     *Notification
	snapshots *SnapshotStore
	logger    *slog.Logger

	inputLock sync.Mutex
	input     InputState

	mu         sync.Mutex
	cdromNames []string
	snapQueue  []snapshotRequest
	snapActive *snapshotRequest
	nextSnapID uint32

	heartbeats atomic.Uint64
}

// NewHost creates a host over its device parts.
func NewHost(store *FileStore, audio audioOutput, fb *SharedFramebuffer, notes *Notification, snapshots *SnapshotStore, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		store:      store,
		audio:      audio,
		fb:         fb,
		notes:      notes,
		snapshots:  snapshots,
		logger:     logger,
		input:      InputState{Button: -1},
		nextSnapID: 1,
	}
}

// UpdateInput runs fn with the input lock held.
func (h *Host) UpdateInput(fn func(*InputState)) {
	h.inputLock.Lock()
	defer h.inputLock.Unlock()
	fn(&h.input)
}

// RequestCdrom queues name for insertion into the CD-ROM drive.
func (h *Host) RequestCdrom(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cdromNames = append(h.cdromNames, name)
}

// RequestSave queues a snapshot save and returns its request id.
func (h *Host) RequestSave() uint32 {
	return h.requestSnapshot(1)
}

// RequestLoad queues a snapshot load and returns its request id.
func (h *Host) RequestLoad() uint32 {
	return h.requestSnapshot(2)
}

func (h *Host) requestSnapshot(kind int32) uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextSnapID
	h.nextSnapID++
	h.snapQueue = append(h.snapQueue, snapshotRequest{kind: kind, requestID: id})
	return id
}

// Heartbeats returns the number of completed bridge iterations.
func (h *Host) Heartbeats() uint64 {
	return h.heartbeats.Load()
}

func (h *Host) notify(message string) {
	if h.notes != nil {
		h.notes.ShowDefault(message)
	}
}

func (h *Host) DidOpenVideo(width, height uint32) {
	h.logger.Info("display geometry", "width", width, "height", height)
	h.fb.Resize(int(width), int(height))
}

func (h *Host) Blit(frame []byte) {
	h.fb.Update(frame)
}

func (h *Host) DidOpenAudio(sampleRate, sampleSize, channels uint32) {
	if err := h.audio.Open(sampleRate, sampleSize, channels); err != nil {
		h.logger.Warn("audio initialization failed", "error", err)
	}
}

func (h *Host) AudioBufferSize() int32 {
	return int32(h.audio.Buffered())
}

func (h *Host) EnqueueAudio(buf []byte) {
	h.audio.Enqueue(buf)
}

func (h *Host) DiskOpen(name string) int32 { return h.store.Open(name) }
func (h *Host) DiskClose(id int32)         { h.store.Close(id) }
func (h *Host) DiskSize(id int32) float64  { return h.store.Size(id) }

func (h *Host) DiskRead(id int32, buf []byte, offset float64) float64 {
	return h.store.ReadAt(id, buf, offset)
}

func (h *Host) DiskWrite(id int32, buf []byte, offset float64) float64 {
	return h.store.WriteAt(id, buf, offset)
}

func (h *Host) ConsumeCdromName() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.cdromNames) == 0 {
		return ""
	}
	name := h.cdromNames[0]
	h.cdromNames = h.cdromNames[1:]
	return name
}

// AcquireInputLock makes one attempt; the UI goroutine may hold the lock.
func (h *Host) AcquireInputLock() int32 {
	if h.inputLock.TryLock() {
		return 1
	}
	return 0
}

// ReleaseInputLock clears the readings taken under the lock and unlocks.
func (h *Host) ReleaseInputLock() {
	h.input.consumed()
	h.inputLock.Unlock()
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (h *Host) HasMousePosition() int32 { return boolToInt(h.input.HasPosition) }
func (h *Host) MouseX() int32           { return h.input.X }
func (h *Host) MouseY() int32           { return h.input.Y }
func (h *Host) MouseDeltaX() int32      { return h.input.DeltaX }
func (h *Host) MouseDeltaY() int32      { return h.input.DeltaY }
func (h *Host) MouseButtonState() int32 { return h.input.Button }
func (h *Host) HasKeyEvent() int32      { return boolToInt(len(h.input.keys) > 0) }

func (h *Host) KeyCode() int32 {
	if len(h.input.keys) == 0 {
		return 0
	}
	return h.input.keys[0].code
}

// KeyState returns the head key's state and consumes the event.
func (h *Host) KeyState() int32 {
	if len(h.input.keys) == 0 {
		return 0
	}
	ev := h.input.keys[0]
	h.input.keys = h.input.keys[1:]
	return boolToInt(ev.pressed)
}

func (h *Host) HasSpeedEvent() int32 { return boolToInt(len(h.input.speeds) > 0) }

func (h *Host) Speed() int32 {
	if len(h.input.speeds) == 0 {
		return 0
	}
	v := h.input.speeds[0]
	h.input.speeds = h.input.speeds[1:]
	return v
}

// SnapshotTakeKind peeks at the active request, activating the next queued
// one when none is active.
func (h *Host) SnapshotTakeKind() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ensureActive()
	if h.snapActive == nil {
		return 0
	}
	return h.snapActive.kind
}

// SnapshotTakeRequestID consumes the active request.
func (h *Host) SnapshotTakeRequestID() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ensureActive()
	if h.snapActive == nil {
		return 0
	}
	id := h.snapActive.requestID
	h.snapActive = nil
	return id
}

func (h *Host) ensureActive() {
	if h.snapActive == nil && len(h.snapQueue) > 0 {
		req := h.snapQueue[0]
		h.snapQueue = h.snapQueue[1:]
		h.snapActive = &req
	}
}

func (h *Host) SnapshotState(requestID uint32) []byte {
	state, err := h.snapshots.Load()
	if err != nil {
		h.logger.Error("failed to read snapshot", "request_id", requestID, "error", err)
		return nil
	}
	return state
}

func (h *Host) SnapshotCompleteSave(requestID uint32, state []byte) {
	if err := h.snapshots.Save(state); err != nil {
		h.logger.Error("failed to store snapshot", "request_id", requestID, "error", err)
		h.notify("Save failed")
		return
	}
	h.logger.Info("snapshot stored", "request_id", requestID, "path", h.snapshots.Path())
	h.notify("State saved")
}

func (h *Host) SnapshotCompleteLoaded(requestID uint32) {
	h.notify("State loaded")
}

func (h *Host) SnapshotCompleteError(requestID uint32, message string) {
	h.logger.Warn("snapshot request failed", "request_id", requestID, "error", message)
	h.notify(fmt.Sprintf("Snapshot failed: %s", message))
}

func (h *Host) Sleep(secs float64) {
	time.Sleep(time.Duration(secs * float64(time.Second)))
}

// CheckPeriodicTasks records a heartbeat for the window title rate display.
func (h *Host) CheckPeriodicTasks() {
	h.heartbeats.Add(1)
}

// Close releases storage and audio.
func (h *Host) Close() {
	h.store.CloseAll()
	h.audio.Close()
}
