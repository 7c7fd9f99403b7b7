package emucore

// Model identifies the emulated machine.
type Model int

const (
	ModelSE Model = iota
	ModelPlus
	ModelClassic
	ModelSE30
	ModelII
)

var modelNames = map[Model]string{
	ModelSE:      "SE",
	ModelPlus:    "Plus",
	ModelClassic: "Classic",
	ModelSE30:    "SE/30",
	ModelII:      "II",
}

// String returns the display name of the model.
func (m Model) String() string {
	if name, ok := modelNames[m]; ok {
		return name
	}
	return "Unknown"
}

// ParseModel converts a display name back to a Model.
func ParseModel(name string) (Model, bool) {
	for m, n := range modelNames {
		if n == name {
			return m, true
		}
	}
	return 0, false
}

// Speed is an emulation speed mode.
type Speed int

const (
	SpeedAccurate Speed = iota
	SpeedDynamic
	SpeedUncapped
	SpeedVideo
)

// String returns the display name of the speed mode.
func (s Speed) String() string {
	switch s {
	case SpeedAccurate:
		return "Accurate"
	case SpeedDynamic:
		return "Dynamic"
	case SpeedUncapped:
		return "Uncapped"
	case SpeedVideo:
		return "Video"
	default:
		return "Unknown"
	}
}

// MouseMode selects how host mouse input reaches the emulated machine.
type MouseMode int

const (
	MouseRelativeHW MouseMode = iota
	MouseAbsolute
	MouseDisabled
)

// Keymap identifies the host keyboard layout a scancode was produced under.
type Keymap int

const (
	KeymapUniversal Keymap = iota
	KeymapAppleADB
)
