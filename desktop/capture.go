package desktop

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"sync"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavPCM = 1

// WAVCapture records the delivered audio stream to a 16-bit PCM WAV file.
type WAVCapture struct {
	mu     sync.Mutex
	f      *os.File
	enc    *wav.Encoder
	buf    *goaudio.IntBuffer
	frames int
}

// NewWAVCapture creates path and writes a header for the given format.
func NewWAVCapture(path string, sampleRate, channels int) (*WAVCapture, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create capture file: %w", err)
	}
	return &WAVCapture{
		f:   f,
		enc: wav.NewEncoder(f, sampleRate, 16, channels, wavPCM),
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
	}, nil
}

// WriteFloat32LE appends little-endian float32 samples.
func (c *WAVCapture) WriteFloat32LE(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enc == nil {
		return nil
	}

	c.buf.Data = c.buf.Data[:0]
	for i := 0; i+4 <= len(data); i += 4 {
		v := math.Float32frombits(binary.LittleEndian.Uint32(data[i:]))
		c.buf.Data = append(c.buf.Data, floatToPCM16(v))
	}
	if len(c.buf.Data) == 0 {
		return nil
	}
	c.frames += len(c.buf.Data) / c.buf.Format.NumChannels
	return c.enc.Write(c.buf)
}

// Frames returns the number of frames written.
func (c *WAVCapture) Frames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Close finalizes the header and closes the file.
func (c *WAVCapture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enc == nil {
		return nil
	}
	err := c.enc.Close()
	c.enc = nil
	if cerr := c.f.Close(); err == nil {
		err = cerr
	}
	return err
}

func floatToPCM16(v float32) int {
	if v != v {
		return 0
	}
	v = min(max(v, -1), 1)
	return int(v * math.MaxInt16)
}
