// Package audio paces delivery of core audio buffers into the host's
// bounded output queue.
package audio

import (
	"encoding/binary"
	"math"
	"time"

	emucore "github.com/user-none/snowbridge/api"
	"github.com/user-none/snowbridge/hostif"
)

// Config describes the stream format and the pacing tuning.
type Config struct {
	SampleRate     uint32
	SampleSizeBits uint32
	Channels       uint32

	// QuantumFrames is the number of frames the host audio callback
	// consumes per invocation. One quantum bounds each sleep.
	QuantumFrames uint32
	// DrainFactor scales the estimated drain time so the next headroom
	// check happens before the queue has fully drained.
	DrainFactor float64

	// CoreBufferSize and CoreQueueLen mirror the core's own bounded audio
	// queue: samples per buffer and queue depth.
	CoreBufferSize int
	CoreQueueLen   int
}

// DefaultConfig matches the monitor horizontal sync rate and an
// AudioWorklet render quantum.
func DefaultConfig() Config {
	return Config{
		SampleRate:     22050,
		SampleSizeBits: 32,
		Channels:       2,
		QuantumFrames:  128,
		DrainFactor:    0.75,
		CoreBufferSize: 740,
		CoreQueueLen:   3,
	}
}

// BytesPerSample returns the width of one sample.
func (c Config) BytesPerSample() int {
	return int(c.SampleSizeBits / 8)
}

// BytesPerSecond returns the stream byte rate.
func (c Config) BytesPerSecond() int {
	return int(c.SampleRate) * int(c.Channels) * c.BytesPerSample()
}

// MaxBufferedBytes is the host queue occupancy the sink will not exceed.
func (c Config) MaxBufferedBytes() int {
	return c.CoreBufferSize * c.BytesPerSample() * c.CoreQueueLen
}

// Quantum returns the duration of one host audio callback.
func (c Config) Quantum() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(c.QuantumFrames) / float64(c.SampleRate) * float64(time.Second))
}

// WaitDuration returns how long to sleep before checking headroom again
// when buffered bytes are queued and frameBytes more need to fit. The bool
// is false when the frame fits now.
func (c Config) WaitDuration(buffered, frameBytes int) (time.Duration, bool) {
	maxFill := max(c.MaxBufferedBytes()-frameBytes, 0)
	if buffered <= maxFill {
		return 0, false
	}

	waitBytes := buffered - maxFill
	seconds := float64(waitBytes) / float64(c.BytesPerSecond()) * c.DrainFactor
	wait := time.Duration(seconds * float64(time.Second))
	return min(max(wait, 0), c.Quantum()), true
}

// Compile-time interface check.
var _ emucore.AudioSink = (*Sink)(nil)

// Sink is the core's audio sink. Send blocks the producing goroutine
// until the host queue has headroom, which backpressures the core at the
// same granularity as its own bounded queue.
type Sink struct {
	surface *hostif.Surface
	cfg     Config
	bytes   []byte // Pre-allocated buffer for sample-to-byte conversion
}

// NewSink announces the stream format to the host and returns the sink.
func NewSink(s *hostif.Surface, cfg Config) *Sink {
	s.OpenAudio(cfg.SampleRate, cfg.SampleSizeBits, cfg.Channels)
	return &Sink{
		surface: s,
		cfg:     cfg,
		bytes:   make([]byte, 0, cfg.CoreBufferSize*4),
	}
}

// Config returns the sink configuration.
func (s *Sink) Config() Config {
	return s.cfg
}

// Send waits for headroom and enqueues buf. Host conditions never produce
// an error; an unknown host occupancy is treated as headroom.
func (s *Sink) Send(buf emucore.AudioBuffer) error {
	frameBytes := len(buf) * s.cfg.BytesPerSample()
	for {
		buffered, ok := s.surface.AudioBuffered()
		if !ok {
			break
		}
		wait, full := s.cfg.WaitDuration(buffered, frameBytes)
		if !full {
			break
		}
		s.surface.Sleep(wait)
	}

	s.surface.EnqueueAudio(s.sampleBytes(buf))
	return nil
}

// sampleBytes lays samples out as little-endian IEEE 754 words.
func (s *Sink) sampleBytes(buf emucore.AudioBuffer) []byte {
	s.bytes = s.bytes[:0]
	for _, sample := range buf {
		s.bytes = binary.LittleEndian.AppendUint32(s.bytes, math.Float32bits(sample))
	}
	return s.bytes
}
