package hostif

import (
	"strings"
	"time"
)

// Surface is the typed view of a Primitives. It holds no state of its own.
type Surface struct {
	p Primitives
}

// NewSurface wraps p.
func NewSurface(p Primitives) *Surface {
	return &Surface{p: p}
}

// Primitives returns the wrapped boundary.
func (s *Surface) Primitives() Primitives {
	return s.p
}

// OpenVideo announces the display geometry.
func (s *Surface) OpenVideo(width, height uint16) {
	s.p.DidOpenVideo(uint32(width), uint32(height))
}

// Blit transfers one frame of pixel data. Empty frames are not forwarded.
func (s *Surface) Blit(frame []byte) {
	if len(frame) == 0 {
		return
	}
	s.p.Blit(frame)
}

// OpenAudio announces the audio stream format.
func (s *Surface) OpenAudio(sampleRate, sampleSizeBits, channels uint32) {
	s.p.DidOpenAudio(sampleRate, sampleSizeBits, channels)
}

// AudioBuffered returns the bytes queued on the host. The bool is false
// when the host cannot tell.
func (s *Surface) AudioBuffered() (int, bool) {
	n := s.p.AudioBufferSize()
	if n < 0 {
		return 0, false
	}
	return int(n), true
}

// EnqueueAudio appends raw sample bytes to the host queue. Empty buffers
// are not forwarded.
func (s *Surface) EnqueueAudio(buf []byte) {
	if len(buf) == 0 {
		return
	}
	s.p.EnqueueAudio(buf)
}

// Sleep blocks the calling goroutine through the host. Non-positive
// durations return immediately.
func (s *Surface) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	s.p.Sleep(d.Seconds())
}

// CheckPeriodicTasks lets the host service its own queued work.
func (s *Surface) CheckPeriodicTasks() {
	s.p.CheckPeriodicTasks()
}

// DiskOpen resolves name to a storage handle id.
func (s *Surface) DiskOpen(name string) (int32, bool) {
	id := s.p.DiskOpen(name)
	if id < 0 {
		return 0, false
	}
	return id, true
}

// DiskClose releases a handle id.
func (s *Surface) DiskClose(id int32) {
	s.p.DiskClose(id)
}

// DiskSize returns the raw size reported for a handle. Validation is the
// caller's job since the host may report non-finite values.
func (s *Surface) DiskSize(id int32) float64 {
	return s.p.DiskSize(id)
}

// DiskRead fills buf from offset and returns the byte count the host
// reported.
func (s *Surface) DiskRead(id int32, buf []byte, offset int) int {
	if len(buf) == 0 {
		return 0
	}
	return int(s.p.DiskRead(id, buf, float64(offset)))
}

// DiskWrite stores buf at offset and returns the byte count the host
// reported.
func (s *Surface) DiskWrite(id int32, buf []byte, offset int) int {
	if len(buf) == 0 {
		return 0
	}
	return int(s.p.DiskWrite(id, buf, float64(offset)))
}

// WithInputLock makes a single attempt to take the host input lock. When it
// is taken, fn runs and the lock is released on every exit path, including
// a panic in fn. It reports whether fn ran.
func (s *Surface) WithInputLock(fn func()) bool {
	if s.p.AcquireInputLock() == 0 {
		return false
	}
	defer s.p.ReleaseInputLock()
	fn()
	return true
}

// MouseButton returns the current button state. The second result is false
// when the host has no reading.
func (s *Surface) MouseButton() (pressed bool, ok bool) {
	state := s.p.MouseButtonState()
	if state < 0 {
		return false, false
	}
	return state != 0, true
}

// HasMousePosition reports whether a position reading is available.
func (s *Surface) HasMousePosition() bool {
	return s.p.HasMousePosition() != 0
}

// MousePosition returns the absolute pointer position.
func (s *Surface) MousePosition() (x, y int32) {
	return s.p.MouseX(), s.p.MouseY()
}

// MouseDelta returns the pointer motion since the last reading.
func (s *Surface) MouseDelta() (dx, dy int32) {
	return s.p.MouseDeltaX(), s.p.MouseDeltaY()
}

// KeyEvent is one raw key transition as reported by the host.
type KeyEvent struct {
	Code    int32
	Pressed bool
}

// KeyEvent returns the pending key transition, if any. A state of exactly
// zero is a release.
func (s *Surface) KeyEvent() (KeyEvent, bool) {
	if s.p.HasKeyEvent() == 0 {
		return KeyEvent{}, false
	}
	return KeyEvent{Code: s.p.KeyCode(), Pressed: s.p.KeyState() != 0}, true
}

// SpeedEvent returns the pending raw speed request, if any.
func (s *Surface) SpeedEvent() (int32, bool) {
	if s.p.HasSpeedEvent() == 0 {
		return 0, false
	}
	return s.p.Speed(), true
}

// NextCdromName pops the next CD-ROM insertion request.
func (s *Surface) NextCdromName() (string, bool) {
	name := s.p.ConsumeCdromName()
	if name == "" {
		return "", false
	}
	return name, true
}

// SnapshotKind is the action a snapshot request asks for.
type SnapshotKind int

const (
	SnapshotSave SnapshotKind = iota + 1
	SnapshotLoad
)

// String returns the display name of the kind.
func (k SnapshotKind) String() string {
	switch k {
	case SnapshotSave:
		return "save"
	case SnapshotLoad:
		return "load"
	default:
		return "unknown"
	}
}

// SnapshotCommand is a validated snapshot request.
type SnapshotCommand struct {
	Kind      SnapshotKind
	RequestID uint32
}

// TakeSnapshotCommand returns the pending snapshot request. A zero kind, a
// zero request id and an unknown kind all mean no command. The request id
// is only read when the kind is non-zero.
func (s *Surface) TakeSnapshotCommand() (SnapshotCommand, bool) {
	kind := s.p.SnapshotTakeKind()
	if kind == 0 {
		return SnapshotCommand{}, false
	}
	id := s.p.SnapshotTakeRequestID()
	if id == 0 {
		return SnapshotCommand{}, false
	}
	switch kind {
	case 1:
		return SnapshotCommand{Kind: SnapshotSave, RequestID: id}, true
	case 2:
		return SnapshotCommand{Kind: SnapshotLoad, RequestID: id}, true
	default:
		return SnapshotCommand{}, false
	}
}

// SnapshotState returns the state supplied with a load request.
func (s *Surface) SnapshotState(requestID uint32) []byte {
	return s.p.SnapshotState(requestID)
}

// CompleteSnapshotSave hands the saved state back to the host.
func (s *Surface) CompleteSnapshotSave(requestID uint32, state []byte) {
	s.p.SnapshotCompleteSave(requestID, state)
}

// CompleteSnapshotLoaded reports a successful restore.
func (s *Surface) CompleteSnapshotLoaded(requestID uint32) {
	s.p.SnapshotCompleteLoaded(requestID)
}

// CompleteSnapshotError reports a failed request. The wire form is a
// null-terminated string, so embedded NUL bytes become spaces.
func (s *Surface) CompleteSnapshotError(requestID uint32, message string) {
	s.p.SnapshotCompleteError(requestID, SanitizeMessage(message))
}

// SanitizeMessage replaces NUL bytes so message survives a C string.
func SanitizeMessage(message string) string {
	return strings.ReplaceAll(message, "\x00", " ")
}
