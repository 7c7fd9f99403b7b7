package desktop

import (
	"bytes"
	"image"
	"image/png"
	"sync"
)

// SharedFramebuffer holds the last frame blitted by the bridge goroutine
// for the ebiten Draw method. Pixels are RGBA, four bytes per pixel.
type SharedFramebuffer struct {
	mu          sync.Mutex
	writePixels []byte
	readPixels  []byte
	width       int
	height      int
	frames      uint64
}

// NewSharedFramebuffer creates an empty framebuffer.
func NewSharedFramebuffer() *SharedFramebuffer {
	return &SharedFramebuffer{}
}

// Resize sets the geometry for subsequent frames.
func (sf *SharedFramebuffer) Resize(width, height int) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	sf.width = width
	sf.height = height
	size := width * height * 4
	if cap(sf.writePixels) < size {
		sf.writePixels = make([]byte, size)
	}
	sf.writePixels = sf.writePixels[:size]
	clear(sf.writePixels)
}

// Update copies a frame. Bytes beyond the current geometry are ignored.
func (sf *SharedFramebuffer) Update(pixels []byte) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	copy(sf.writePixels, pixels)
	sf.frames++
}

// Read returns a copy of the current frame that is safe to use without
// the lock until the next Read.
func (sf *SharedFramebuffer) Read() (pixels []byte, width, height int) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	if cap(sf.readPixels) < len(sf.writePixels) {
		sf.readPixels = make([]byte, len(sf.writePixels))
	}
	sf.readPixels = sf.readPixels[:len(sf.writePixels)]
	copy(sf.readPixels, sf.writePixels)
	return sf.readPixels, sf.width, sf.height
}

// Frames returns the number of frames received.
func (sf *SharedFramebuffer) Frames() uint64 {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.frames
}

// Image returns a copy of the current frame, or nil before the first
// geometry announcement.
func (sf *SharedFramebuffer) Image() *image.RGBA {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	if sf.width == 0 || sf.height == 0 {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, sf.width, sf.height))
	copy(img.Pix, sf.writePixels)
	return img
}

// EncodePNG encodes the current frame as PNG.
func (sf *SharedFramebuffer) EncodePNG() ([]byte, error) {
	img := sf.Image()
	if img == nil {
		return nil, errNoFrame
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
