package input

import (
	"math"
	"testing"

	emucore "github.com/user-none/snowbridge/api"
	"github.com/user-none/snowbridge/hostif"
	"github.com/user-none/snowbridge/hostif/hosttest"
)

type recordingSender struct {
	cmds []emucore.Command
	err  error
}

func (s *recordingSender) Send(cmd emucore.Command) error {
	s.cmds = append(s.cmds, cmd)
	return s.err
}

func newReceiver(mode emucore.MouseMode) (*hosttest.Host, *recordingSender, *Receiver) {
	h := hosttest.New()
	cmds := &recordingSender{}
	return h, cmds, NewReceiver(hostif.NewSurface(h), cmds, mode, nil)
}

func TestReceiver_LockBusy(t *testing.T) {
	h, cmds, r := newReceiver(emucore.MouseRelativeHW)
	h.LockBusy = true
	h.Keys = []hosttest.KeyEvent{{Code: 1, State: 1}}

	if r.Tick() {
		t.Error("Tick() should report skipped")
	}
	if len(cmds.cmds) != 0 {
		t.Errorf("commands = %v, want none", cmds.cmds)
	}
	if len(h.Keys) != 1 {
		t.Error("input consumed without the lock")
	}
}

func TestReceiver_ReleasesLock(t *testing.T) {
	h, _, r := newReceiver(emucore.MouseRelativeHW)

	r.Tick()
	if h.LockHeld() || h.LockReleased != 1 {
		t.Errorf("lock held=%v released=%d", h.LockHeld(), h.LockReleased)
	}
}

func TestReceiver_ZeroDeltaSuppressed(t *testing.T) {
	h, cmds, r := newReceiver(emucore.MouseRelativeHW)
	h.MouseValid = true

	r.Tick()
	if len(cmds.cmds) != 0 {
		t.Errorf("commands = %v, want none", cmds.cmds)
	}
}

func TestReceiver_RelativeClamped(t *testing.T) {
	h, cmds, r := newReceiver(emucore.MouseRelativeHW)
	h.MouseValid = true
	h.DeltaX, h.DeltaY = 40000, -40000

	r.Tick()
	want := emucore.MouseRelativeCommand{DX: math.MaxInt16, DY: math.MinInt16}
	if len(cmds.cmds) != 1 || cmds.cmds[0] != want {
		t.Errorf("commands = %#v, want %#v", cmds.cmds, want)
	}
}

func TestReceiver_Absolute(t *testing.T) {
	h, cmds, r := newReceiver(emucore.MouseAbsolute)
	h.MouseValid = true
	h.MouseXPos, h.MouseYPos = -5, 70000

	r.Tick()
	want := emucore.MouseAbsoluteCommand{X: 0, Y: math.MaxUint16}
	if len(cmds.cmds) != 1 || cmds.cmds[0] != want {
		t.Errorf("commands = %#v, want %#v", cmds.cmds, want)
	}
}

func TestReceiver_DisabledMouse(t *testing.T) {
	h, cmds, r := newReceiver(emucore.MouseDisabled)
	h.MouseValid = true
	h.DeltaX = 10

	r.Tick()
	if len(cmds.cmds) != 0 {
		t.Errorf("commands = %v, want none", cmds.cmds)
	}
}

func TestReceiver_ButtonWithoutMotion(t *testing.T) {
	h, cmds, r := newReceiver(emucore.MouseRelativeHW)
	h.ButtonState = 1

	r.Tick()
	want := emucore.MouseRelativeCommand{Button: emucore.ButtonPressed}
	if len(cmds.cmds) != 1 || cmds.cmds[0] != want {
		t.Errorf("commands = %#v, want %#v", cmds.cmds, want)
	}
}

func TestReceiver_HandlerOrder(t *testing.T) {
	h, cmds, r := newReceiver(emucore.MouseRelativeHW)
	h.ButtonState = 0
	h.MouseValid = true
	h.DeltaX = 3
	h.Keys = []hosttest.KeyEvent{{Code: 0x24, State: 1}}
	h.Speeds = []int32{SpeedRawUncapped}

	r.Tick()

	want := []emucore.Command{
		emucore.MouseRelativeCommand{Button: emucore.ButtonReleased},
		emucore.MouseRelativeCommand{DX: 3},
		emucore.KeyCommand{Scancode: 0x24, Pressed: true, Keymap: emucore.KeymapUniversal},
		emucore.SpeedCommand{Speed: emucore.SpeedUncapped},
	}
	if len(cmds.cmds) != len(want) {
		t.Fatalf("commands = %#v", cmds.cmds)
	}
	for i := range want {
		if cmds.cmds[i] != want[i] {
			t.Errorf("command %d = %#v, want %#v", i, cmds.cmds[i], want[i])
		}
	}
}

func TestReceiver_KeyboardOnePerTick(t *testing.T) {
	h, cmds, r := newReceiver(emucore.MouseRelativeHW)
	h.Keys = []hosttest.KeyEvent{{Code: 300, State: 1}, {Code: -4, State: 0}}

	r.Tick()
	r.Tick()

	want := []emucore.Command{
		emucore.KeyCommand{Scancode: 255, Pressed: true},
		emucore.KeyCommand{Scancode: 0, Pressed: false},
	}
	if len(cmds.cmds) != 2 || cmds.cmds[0] != want[0] || cmds.cmds[1] != want[1] {
		t.Errorf("commands = %#v, want %#v", cmds.cmds, want)
	}
}

func TestReceiver_UnknownSpeedDropped(t *testing.T) {
	h, cmds, r := newReceiver(emucore.MouseRelativeHW)
	h.Speeds = []int32{3}

	r.Tick()
	if len(cmds.cmds) != 0 {
		t.Errorf("commands = %v, want none", cmds.cmds)
	}
	if len(h.Speeds) != 0 {
		t.Error("speed event should be consumed")
	}
}

func TestReceiver_SendFailureIgnored(t *testing.T) {
	h := hosttest.New()
	cmds := &recordingSender{err: emucore.ErrCommandQueueClosed}
	r := NewReceiver(hostif.NewSurface(h), cmds, emucore.MouseRelativeHW, nil)
	h.Keys = []hosttest.KeyEvent{{Code: 1, State: 1}}
	h.Speeds = []int32{SpeedRawVideo}

	if !r.Tick() {
		t.Fatal("Tick() should run with the lock free")
	}
	if len(cmds.cmds) != 2 {
		t.Errorf("later handlers should still run after a failed send, got %d commands", len(cmds.cmds))
	}
	if h.LockHeld() {
		t.Error("lock not released")
	}
}

func TestSpeedFromRaw(t *testing.T) {
	tests := []struct {
		raw    int32
		want   emucore.Speed
		wantOK bool
	}{
		{-2, emucore.SpeedAccurate, true},
		{-1, emucore.SpeedUncapped, true},
		{7, emucore.SpeedDynamic, true},
		{9, emucore.SpeedVideo, true},
		{0, 0, false},
		{8, 0, false},
	}
	for _, tt := range tests {
		got, ok := SpeedFromRaw(tt.raw)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("SpeedFromRaw(%d) = %v, %v", tt.raw, got, ok)
		}
	}
}

func TestClamps(t *testing.T) {
	if ClampInt16(40000) != math.MaxInt16 || ClampInt16(-40000) != math.MinInt16 || ClampInt16(-7) != -7 {
		t.Error("ClampInt16 failed")
	}
	if ClampUint16(-1) != 0 || ClampUint16(70000) != math.MaxUint16 || ClampUint16(512) != 512 {
		t.Error("ClampUint16 failed")
	}
	if ClampUint8(-1) != 0 || ClampUint8(256) != 255 || ClampUint8(0x7F) != 0x7F {
		t.Error("ClampUint8 failed")
	}
}
