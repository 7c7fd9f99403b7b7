// Package input translates host input state into core commands once per
// tick.
package input

import (
	"log/slog"
	"math"

	emucore "github.com/user-none/snowbridge/api"
	"github.com/user-none/snowbridge/hostif"
)

// Raw speed values sent by the host.
const (
	SpeedRawAccurate int32 = -2
	SpeedRawUncapped int32 = -1
	SpeedRawDynamic  int32 = 7
	SpeedRawVideo    int32 = 9
)

// Receiver reads host input under the host's advisory lock and forwards it
// to the core. Delivery failures are ignored.
type Receiver struct {
	surface   *hostif.Surface
	cmds      emucore.CommandSender
	mouseMode emucore.MouseMode
	logger    *slog.Logger
}

// NewReceiver creates a receiver. A nil logger uses slog.Default().
func NewReceiver(s *hostif.Surface, cmds emucore.CommandSender, mouseMode emucore.MouseMode, logger *slog.Logger) *Receiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Receiver{
		surface:   s,
		cmds:      cmds,
		mouseMode: mouseMode,
		logger:    logger,
	}
}

// Tick makes one attempt at the input lock. If the host holds it the tick
// is skipped; otherwise mouse, keyboard and speed are handled in order.
func (r *Receiver) Tick() bool {
	return r.surface.WithInputLock(func() {
		r.handleMouse()
		r.handleKeyboard()
		r.handleSpeed()
	})
}

func (r *Receiver) handleMouse() {
	if pressed, ok := r.surface.MouseButton(); ok {
		btn := emucore.ButtonReleased
		if pressed {
			btn = emucore.ButtonPressed
		}
		r.send(emucore.MouseRelativeCommand{Button: btn})
	}

	if !r.surface.HasMousePosition() {
		return
	}

	switch r.mouseMode {
	case emucore.MouseRelativeHW:
		dx, dy := r.surface.MouseDelta()
		if dx == 0 && dy == 0 {
			return
		}
		r.send(emucore.MouseRelativeCommand{
			DX: ClampInt16(dx),
			DY: ClampInt16(dy),
		})
	case emucore.MouseAbsolute:
		x, y := r.surface.MousePosition()
		r.send(emucore.MouseAbsoluteCommand{
			X: ClampUint16(x),
			Y: ClampUint16(y),
		})
	case emucore.MouseDisabled:
	}
}

func (r *Receiver) handleKeyboard() {
	ev, ok := r.surface.KeyEvent()
	if !ok {
		return
	}
	r.send(emucore.KeyCommand{
		Scancode: ClampUint8(ev.Code),
		Pressed:  ev.Pressed,
		Keymap:   emucore.KeymapUniversal,
	})
}

func (r *Receiver) handleSpeed() {
	raw, ok := r.surface.SpeedEvent()
	if !ok {
		return
	}
	speed, ok := SpeedFromRaw(raw)
	if !ok {
		r.logger.Warn("ignoring unknown speed value", "speed", raw)
		return
	}
	r.send(emucore.SpeedCommand{Speed: speed})
}

func (r *Receiver) send(cmd emucore.Command) {
	_ = r.cmds.Send(cmd)
}

// SpeedFromRaw maps a host speed value to a speed mode.
func SpeedFromRaw(raw int32) (emucore.Speed, bool) {
	switch raw {
	case SpeedRawAccurate:
		return emucore.SpeedAccurate, true
	case SpeedRawUncapped:
		return emucore.SpeedUncapped, true
	case SpeedRawDynamic:
		return emucore.SpeedDynamic, true
	case SpeedRawVideo:
		return emucore.SpeedVideo, true
	default:
		return 0, false
	}
}

// ClampInt16 saturates v to the int16 range.
func ClampInt16(v int32) int16 {
	return int16(min(max(v, math.MinInt16), math.MaxInt16))
}

// ClampUint16 saturates v to the uint16 range.
func ClampUint16(v int32) uint16 {
	return uint16(min(max(v, 0), math.MaxUint16))
}

// ClampUint8 saturates v to the uint8 range.
func ClampUint8(v int32) uint8 {
	return uint8(min(max(v, 0), math.MaxUint8))
}
