package desktop

import (
	"io"
	"sync"
)

// AudioRingBuffer is a fixed-capacity byte FIFO read by the oto player.
// Writes never block; when full, the oldest bytes are dropped. Reads block
// until data arrives or the buffer is closed.
type AudioRingBuffer struct {
	mu       sync.Mutex
	cond     *sync.Cond
	buf      []byte
	readPos  int
	writePos int
	count    int
	closed   bool
}

// NewAudioRingBuffer creates a ring buffer holding capacity bytes.
func NewAudioRingBuffer(capacity int) *AudioRingBuffer {
	rb := &AudioRingBuffer{buf: make([]byte, capacity)}
	rb.cond = sync.NewCond(&rb.mu)
	return rb
}

// Write appends data, overwriting the oldest bytes on overflow. Writes
// after Close are ignored.
func (rb *AudioRingBuffer) Write(data []byte) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.closed || len(rb.buf) == 0 {
		return
	}

	if len(data) > len(rb.buf) {
		data = data[len(data)-len(rb.buf):]
	}
	if over := rb.count + len(data) - len(rb.buf); over > 0 {
		rb.readPos = (rb.readPos + over) % len(rb.buf)
		rb.count -= over
	}

	for len(data) > 0 {
		n := copy(rb.buf[rb.writePos:], data)
		rb.writePos = (rb.writePos + n) % len(rb.buf)
		rb.count += n
		data = data[n:]
	}
	rb.cond.Broadcast()
}

// Read implements io.Reader. It returns io.EOF once closed and drained.
func (rb *AudioRingBuffer) Read(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for rb.count == 0 && !rb.closed {
		rb.cond.Wait()
	}
	if rb.count == 0 {
		return 0, io.EOF
	}

	n := 0
	for n < len(p) && rb.count > 0 {
		end := rb.readPos + rb.count
		if end > len(rb.buf) {
			end = len(rb.buf)
		}
		c := copy(p[n:], rb.buf[rb.readPos:end])
		rb.readPos = (rb.readPos + c) % len(rb.buf)
		rb.count -= c
		n += c
	}
	return n, nil
}

// Buffered returns the number of unread bytes.
func (rb *AudioRingBuffer) Buffered() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// Clear discards unread bytes.
func (rb *AudioRingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.readPos, rb.writePos, rb.count = 0, 0, 0
}

// Close wakes blocked readers. Remaining bytes stay readable.
func (rb *AudioRingBuffer) Close() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.closed = true
	rb.cond.Broadcast()
}
