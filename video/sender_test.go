package video

import (
	"slices"
	"testing"

	emucore "github.com/user-none/snowbridge/api"
	"github.com/user-none/snowbridge/hostif"
	"github.com/user-none/snowbridge/hostif/hosttest"
)

func frame(w, h uint16, fill byte) emucore.DisplayBuffer {
	pixels := make([]byte, int(w)*int(h))
	for i := range pixels {
		pixels[i] = fill
	}
	return emucore.DisplayBuffer{Width: w, Height: h, Pixels: pixels}
}

func TestSender_GeometryOncePerChange(t *testing.T) {
	h := hosttest.New()
	ch := make(chan emucore.DisplayBuffer, 8)
	s := NewSender(hostif.NewSurface(h), ch)

	ch <- frame(4, 2, 1)
	ch <- frame(4, 2, 2)
	ch <- frame(8, 2, 3)
	ch <- frame(8, 2, 4)
	ch <- frame(4, 2, 5)

	if n := s.Tick(); n != 5 {
		t.Fatalf("Tick() = %d, want 5", n)
	}

	want := []string{
		"geometry 4x2", "blit 8",
		"blit 8",
		"geometry 8x2", "blit 16",
		"blit 16",
		"geometry 4x2", "blit 8",
	}
	if !slices.Equal(h.Events, want) {
		t.Errorf("events = %v\nwant %v", h.Events, want)
	}
	if w, ht := s.Geometry(); w != 4 || ht != 2 {
		t.Errorf("Geometry() = %dx%d", w, ht)
	}
}

func TestSender_ArrivalOrder(t *testing.T) {
	h := hosttest.New()
	ch := make(chan emucore.DisplayBuffer, 4)
	s := NewSender(hostif.NewSurface(h), ch)

	for i := byte(1); i <= 3; i++ {
		ch <- frame(2, 2, i)
	}
	s.Tick()

	for i, f := range h.Frames {
		if f[0] != byte(i+1) {
			t.Errorf("frame %d carries %d", i, f[0])
		}
	}
}

func TestSender_EmptyChannelDoesNotBlock(t *testing.T) {
	h := hosttest.New()
	s := NewSender(hostif.NewSurface(h), make(chan emucore.DisplayBuffer))

	if n := s.Tick(); n != 0 {
		t.Errorf("Tick() = %d, want 0", n)
	}
	if len(h.Events) != 0 {
		t.Errorf("events = %v", h.Events)
	}
}

func TestSender_ClosedChannel(t *testing.T) {
	h := hosttest.New()
	ch := make(chan emucore.DisplayBuffer, 1)
	ch <- frame(2, 2, 1)
	close(ch)
	s := NewSender(hostif.NewSurface(h), ch)

	if n := s.Tick(); n != 1 {
		t.Errorf("Tick() = %d, want 1", n)
	}
	if n := s.Tick(); n != 0 {
		t.Errorf("second Tick() = %d, want 0", n)
	}
}
