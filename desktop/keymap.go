package desktop

import "github.com/hajimehoshi/ebiten/v2"

// adbKeys maps host keys to Apple Desktop Bus key codes.
var adbKeys = map[ebiten.Key]uint8{
	ebiten.KeyA: 0x00, ebiten.KeyS: 0x01, ebiten.KeyD: 0x02, ebiten.KeyF: 0x03,
	ebiten.KeyH: 0x04, ebiten.KeyG: 0x05, ebiten.KeyZ: 0x06, ebiten.KeyX: 0x07,
	ebiten.KeyC: 0x08, ebiten.KeyV: 0x09, ebiten.KeyB: 0x0B, ebiten.KeyQ: 0x0C,
	ebiten.KeyW: 0x0D, ebiten.KeyE: 0x0E, ebiten.KeyR: 0x0F, ebiten.KeyY: 0x10,
	ebiten.KeyT: 0x11, ebiten.Key1: 0x12, ebiten.Key2: 0x13, ebiten.Key3: 0x14,
	ebiten.Key4: 0x15, ebiten.Key6: 0x16, ebiten.Key5: 0x17, ebiten.KeyEqual: 0x18,
	ebiten.Key9: 0x19, ebiten.Key7: 0x1A, ebiten.KeyMinus: 0x1B, ebiten.Key8: 0x1C,
	ebiten.Key0: 0x1D, ebiten.KeyBracketRight: 0x1E, ebiten.KeyO: 0x1F, ebiten.KeyU: 0x20,
	ebiten.KeyBracketLeft: 0x21, ebiten.KeyI: 0x22, ebiten.KeyP: 0x23, ebiten.KeyEnter: 0x24,
	ebiten.KeyL: 0x25, ebiten.KeyJ: 0x26, ebiten.KeyQuote: 0x27, ebiten.KeyK: 0x28,
	ebiten.KeySemicolon: 0x29, ebiten.KeyBackslash: 0x2A, ebiten.KeyComma: 0x2B, ebiten.KeySlash: 0x2C,
	ebiten.KeyN: 0x2D, ebiten.KeyM: 0x2E, ebiten.KeyPeriod: 0x2F, ebiten.KeyTab: 0x30,
	ebiten.KeySpace: 0x31, ebiten.KeyBackquote: 0x32, ebiten.KeyBackspace: 0x33, ebiten.KeyEscape: 0x35,

	ebiten.KeyControlLeft: 0x36, ebiten.KeyMetaLeft: 0x37, ebiten.KeyShiftLeft: 0x38,
	ebiten.KeyCapsLock: 0x39, ebiten.KeyAltLeft: 0x3A,
	ebiten.KeyControlRight: 0x36, ebiten.KeyMetaRight: 0x37, ebiten.KeyShiftRight: 0x38,
	ebiten.KeyAltRight: 0x3A,

	ebiten.KeyArrowLeft: 0x3B, ebiten.KeyArrowRight: 0x3C, ebiten.KeyArrowDown: 0x3D, ebiten.KeyArrowUp: 0x3E,

	ebiten.KeyNumpadDecimal: 0x41, ebiten.KeyNumpadMultiply: 0x43, ebiten.KeyNumpadAdd: 0x45,
	ebiten.KeyNumLock: 0x47, ebiten.KeyNumpadDivide: 0x4B, ebiten.KeyNumpadEnter: 0x4C,
	ebiten.KeyNumpadSubtract: 0x4E, ebiten.KeyNumpadEqual: 0x51,
	ebiten.KeyNumpad0: 0x52, ebiten.KeyNumpad1: 0x53, ebiten.KeyNumpad2: 0x54, ebiten.KeyNumpad3: 0x55,
	ebiten.KeyNumpad4: 0x56, ebiten.KeyNumpad5: 0x57, ebiten.KeyNumpad6: 0x58, ebiten.KeyNumpad7: 0x59,
	ebiten.KeyNumpad8: 0x5B, ebiten.KeyNumpad9: 0x5C,
}

// ADBKeyCode returns the ADB code for k.
func ADBKeyCode(k ebiten.Key) (uint8, bool) {
	code, ok := adbKeys[k]
	return code, ok
}

// Host shortcuts. Function keys never reach the emulated machine.
const (
	keySpeedAccurate = ebiten.KeyF1
	keySpeedDynamic  = ebiten.KeyF2
	keySpeedUncapped = ebiten.KeyF3
	keySpeedVideo    = ebiten.KeyF4
	keySaveState     = ebiten.KeyF5
	keyCopyFrame     = ebiten.KeyF8
	keyLoadState     = ebiten.KeyF9
	keyInsertCdrom   = ebiten.KeyF12
)
