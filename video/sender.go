// Package video forwards finished frames from the core to the host display.
package video

import (
	emucore "github.com/user-none/snowbridge/api"
	"github.com/user-none/snowbridge/hostif"
)

// Sender drains the core's frame channel once per tick and delivers each
// frame to the host, announcing geometry only when it changes.
type Sender struct {
	surface       *hostif.Surface
	frames        <-chan emucore.DisplayBuffer
	currentWidth  uint16
	currentHeight uint16
}

// NewSender creates a sender reading from frames.
func NewSender(s *hostif.Surface, frames <-chan emucore.DisplayBuffer) *Sender {
	return &Sender{
		surface: s,
		frames:  frames,
	}
}

// Geometry returns the dimensions last announced to the host.
func (s *Sender) Geometry() (width, height uint16) {
	return s.currentWidth, s.currentHeight
}

// Tick forwards every frame that is ready without blocking. It returns the
// number of frames delivered.
func (s *Sender) Tick() int {
	n := 0
	for {
		select {
		case frame, ok := <-s.frames:
			if !ok {
				return n
			}
			s.sendFrame(frame)
			n++
		default:
			return n
		}
	}
}

func (s *Sender) sendFrame(frame emucore.DisplayBuffer) {
	if frame.Width != s.currentWidth || frame.Height != s.currentHeight {
		s.surface.OpenVideo(frame.Width, frame.Height)
		s.currentWidth = frame.Width
		s.currentHeight = frame.Height
	}

	s.surface.Blit(frame.Pixels)
}
