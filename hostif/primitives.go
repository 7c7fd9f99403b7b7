// Package hostif is the bridge's foreign call surface. Primitives is the raw
// set of functions the embedding host provides, shaped exactly like the
// boundary (sentinel integers, float64 sizes). Surface wraps a Primitives
// and converts every sentinel into typed presence so that no other package
// needs to know the boundary conventions.
package hostif

// VideoPrimitives deliver frames to the host display surface.
type VideoPrimitives interface {
	DidOpenVideo(width, height uint32)
	Blit(frame []byte)
}

// AudioPrimitives deliver audio to the host output queue.
type AudioPrimitives interface {
	DidOpenAudio(sampleRate, sampleSize, channels uint32)
	// AudioBufferSize reports queued bytes; negative means unknown.
	AudioBufferSize() int32
	EnqueueAudio(buf []byte)
}

// StoragePrimitives give access to host-side byte-addressable storage.
type StoragePrimitives interface {
	// DiskOpen returns a handle id, or a negative value when name is unknown.
	DiskOpen(name string) int32
	DiskClose(id int32)
	DiskSize(id int32) float64
	DiskRead(id int32, buf []byte, offset float64) float64
	DiskWrite(id int32, buf []byte, offset float64) float64
}

// InputPrimitives expose host input state. Boolean-like results are
// non-zero for true.
type InputPrimitives interface {
	AcquireInputLock() int32
	ReleaseInputLock()
	HasMousePosition() int32
	MouseX() int32
	MouseY() int32
	MouseDeltaX() int32
	MouseDeltaY() int32
	// MouseButtonState is negative when there is no reading.
	MouseButtonState() int32
	HasKeyEvent() int32
	KeyCode() int32
	KeyState() int32
	HasSpeedEvent() int32
	Speed() int32
}

// MediaPrimitives expose media insertion requests made on the host side.
type MediaPrimitives interface {
	// ConsumeCdromName pops the next requested name; empty means none.
	ConsumeCdromName() string
}

// SnapshotPrimitives carry the save/restore handshake.
type SnapshotPrimitives interface {
	// SnapshotTakeKind returns 0 for none, 1 for save and 2 for load.
	SnapshotTakeKind() int32
	// SnapshotTakeRequestID returns 0 when no valid request is pending.
	SnapshotTakeRequestID() uint32
	// SnapshotState returns the state the host supplied for a load request.
	SnapshotState(requestID uint32) []byte
	SnapshotCompleteSave(requestID uint32, state []byte)
	SnapshotCompleteLoaded(requestID uint32)
	SnapshotCompleteError(requestID uint32, message string)
}

// RuntimePrimitives give the host a chance to run its own work.
type RuntimePrimitives interface {
	// Sleep blocks for secs seconds; non-positive values return immediately.
	Sleep(secs float64)
	CheckPeriodicTasks()
}

// Primitives is the complete host boundary. Implementations must be safe
// for use from the tick goroutine and the core's audio goroutine at once.
type Primitives interface {
	VideoPrimitives
	AudioPrimitives
	StoragePrimitives
	InputPrimitives
	MediaPrimitives
	SnapshotPrimitives
	RuntimePrimitives
}
