package hostif_test

import (
	"testing"
	"time"

	"github.com/user-none/snowbridge/hostif"
	"github.com/user-none/snowbridge/hostif/hosttest"
)

func TestTakeSnapshotCommand(t *testing.T) {
	tests := []struct {
		name   string
		kind   int32
		id     uint32
		want   hostif.SnapshotCommand
		wantOK bool
	}{
		{"no kind", 0, 7, hostif.SnapshotCommand{}, false},
		{"load with zero id", 2, 0, hostif.SnapshotCommand{}, false},
		{"save with zero id", 1, 0, hostif.SnapshotCommand{}, false},
		{"unknown kind", 3, 7, hostif.SnapshotCommand{}, false},
		{"load", 2, 7, hostif.SnapshotCommand{Kind: hostif.SnapshotLoad, RequestID: 7}, true},
		{"save", 1, 42, hostif.SnapshotCommand{Kind: hostif.SnapshotSave, RequestID: 42}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := hosttest.New()
			h.RequestSnapshot(tt.kind, tt.id)
			s := hostif.NewSurface(h)

			got, ok := s.TakeSnapshotCommand()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("TakeSnapshotCommand() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTakeSnapshotCommand_IDNotReadWithoutKind(t *testing.T) {
	h := hosttest.New()
	h.RequestSnapshot(0, 9)
	s := hostif.NewSurface(h)

	s.TakeSnapshotCommand()
	if h.IDReads != 0 {
		t.Errorf("request id read %d times, want 0", h.IDReads)
	}
}

func TestCompleteSnapshotError_Sanitized(t *testing.T) {
	h := hosttest.New()
	s := hostif.NewSurface(h)

	s.CompleteSnapshotError(5, "bad\x00state\x00")

	if len(h.Completions) != 1 {
		t.Fatalf("completions = %d, want 1", len(h.Completions))
	}
	c := h.Completions[0]
	if c.Kind != "error" || c.RequestID != 5 || c.Message != "bad state " {
		t.Errorf("completion = %+v", c)
	}
}

func TestAudioBuffered(t *testing.T) {
	h := hosttest.New()
	s := hostif.NewSurface(h)

	h.BufferSizes = []int32{-1}
	if _, ok := s.AudioBuffered(); ok {
		t.Error("negative reading should be unknown")
	}

	h.BufferSizes = []int32{1024}
	if n, ok := s.AudioBuffered(); !ok || n != 1024 {
		t.Errorf("AudioBuffered() = %d, %v; want 1024, true", n, ok)
	}
}

func TestSleep_NonPositive(t *testing.T) {
	h := hosttest.New()
	s := hostif.NewSurface(h)

	s.Sleep(0)
	s.Sleep(-time.Second)
	if h.SleepCount() != 0 {
		t.Errorf("sleeps = %d, want 0", h.SleepCount())
	}

	s.Sleep(500 * time.Millisecond)
	if len(h.Sleeps) != 1 || h.Sleeps[0] != 0.5 {
		t.Errorf("sleeps = %v, want [0.5]", h.Sleeps)
	}
}

func TestEmptyBuffersNotForwarded(t *testing.T) {
	h := hosttest.New()
	s := hostif.NewSurface(h)

	s.Blit(nil)
	s.EnqueueAudio([]byte{})
	if len(h.Events) != 0 {
		t.Errorf("events = %v, want none", h.Events)
	}
}

func TestWithInputLock(t *testing.T) {
	t.Run("busy", func(t *testing.T) {
		h := hosttest.New()
		h.LockBusy = true
		s := hostif.NewSurface(h)

		ran := s.WithInputLock(func() { t.Error("fn ran without the lock") })
		if ran {
			t.Error("WithInputLock reported success")
		}
		if h.LockReleased != 0 {
			t.Errorf("released %d times, want 0", h.LockReleased)
		}
	})

	t.Run("released after panic", func(t *testing.T) {
		h := hosttest.New()
		s := hostif.NewSurface(h)

		func() {
			defer func() { recover() }()
			s.WithInputLock(func() { panic("handler failure") })
		}()

		if h.LockHeld() {
			t.Error("lock still held after panic")
		}
		if h.LockReleased != 1 {
			t.Errorf("released %d times, want 1", h.LockReleased)
		}
	})
}

func TestMouseButton(t *testing.T) {
	h := hosttest.New()
	s := hostif.NewSurface(h)

	if _, ok := s.MouseButton(); ok {
		t.Error("negative state should be no reading")
	}

	h.ButtonState = 0
	if pressed, ok := s.MouseButton(); !ok || pressed {
		t.Errorf("MouseButton() = %v, %v; want false, true", pressed, ok)
	}

	h.ButtonState = 1
	if pressed, ok := s.MouseButton(); !ok || !pressed {
		t.Errorf("MouseButton() = %v, %v; want true, true", pressed, ok)
	}
}

func TestKeyEvent(t *testing.T) {
	h := hosttest.New()
	h.Keys = []hosttest.KeyEvent{{Code: 0x31, State: 2}, {Code: 0x31, State: 0}}
	s := hostif.NewSurface(h)

	ev, ok := s.KeyEvent()
	if !ok || ev.Code != 0x31 || !ev.Pressed {
		t.Errorf("first KeyEvent() = %+v, %v", ev, ok)
	}
	ev, ok = s.KeyEvent()
	if !ok || ev.Pressed {
		t.Errorf("second KeyEvent() = %+v, %v", ev, ok)
	}
	if _, ok := s.KeyEvent(); ok {
		t.Error("third KeyEvent() should be empty")
	}
}

func TestNextCdromName(t *testing.T) {
	h := hosttest.New()
	h.RequestCdrom("a.iso")
	s := hostif.NewSurface(h)

	if name, ok := s.NextCdromName(); !ok || name != "a.iso" {
		t.Errorf("NextCdromName() = %q, %v", name, ok)
	}
	if _, ok := s.NextCdromName(); ok {
		t.Error("queue should be drained")
	}
}
