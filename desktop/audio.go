package desktop

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

// ringBufferCapacity is about 370ms of 22050 Hz stereo float32.
const ringBufferCapacity = 65536

// audioOutput is the device side of the host audio primitives.
type audioOutput interface {
	Open(sampleRate, sampleSizeBits, channels uint32) error
	Enqueue(buf []byte)
	Buffered() int
	Close()
}

// AudioPlayer plays the bridge's float32 stream through oto. oto pulls
// from a ring buffer the bridge fills.
type AudioPlayer struct {
	ctx        *oto.Context
	player     *oto.Player
	ringBuffer *AudioRingBuffer
	capture    *WAVCapture
}

// NewAudioPlayer returns an unopened player. A non-nil capture receives a
// copy of everything enqueued.
func NewAudioPlayer(capture *WAVCapture) *AudioPlayer {
	return &AudioPlayer{capture: capture}
}

// Open creates the oto context for the announced format.
func (a *AudioPlayer) Open(sampleRate, sampleSizeBits, channels uint32) error {
	if sampleSizeBits != 32 {
		return fmt.Errorf("unsupported sample size %d", sampleSizeBits)
	}

	op := &oto.NewContextOptions{
		SampleRate:   int(sampleRate),
		ChannelCount: int(channels),
		Format:       oto.FormatFloat32LE,
		BufferSize:   50 * time.Millisecond,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("oto audio not available: %w", err)
	}
	<-ready

	a.ctx = ctx
	a.ringBuffer = NewAudioRingBuffer(ringBufferCapacity)
	a.player = ctx.NewPlayer(a.ringBuffer)
	// ~50ms instead of oto's default half second, so the bridge's pacing
	// sees the real queue depth.
	a.player.SetBufferSize(int(sampleRate) * int(channels) * 4 / 20)
	a.player.Play()
	return nil
}

// Enqueue appends little-endian float32 samples.
func (a *AudioPlayer) Enqueue(buf []byte) {
	if a.capture != nil {
		a.capture.WriteFloat32LE(buf)
	}
	if a.ringBuffer != nil {
		a.ringBuffer.Write(buf)
	}
}

// Buffered returns ring buffer plus player bytes, or -1 when closed or
// not yet opened.
func (a *AudioPlayer) Buffered() int {
	if a.player == nil {
		return -1
	}
	return a.ringBuffer.Buffered() + a.player.BufferedSize()
}

// Close stops playback and finalizes any capture.
func (a *AudioPlayer) Close() {
	if a.ringBuffer != nil {
		a.ringBuffer.Close()
	}
	if a.player != nil {
		a.player.Close()
	}
	if a.capture != nil {
		a.capture.Close()
	}
}
