package config

import (
	"encoding/json"
	"fmt"

	emucore "github.com/user-none/snowbridge/api"
)

// detectPresentKeys returns the dotted paths of validated keys that are
// present in jsonBytes, e.g. "audio.drainFactor".
func detectPresentKeys(jsonBytes []byte) map[string]bool {
	present := make(map[string]bool)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(jsonBytes, &raw); err != nil {
		return present
	}

	for _, k := range []string{"version", "model", "mouseMode"} {
		if _, ok := raw[k]; ok {
			present[k] = true
		}
	}

	nested := map[string][]string{
		"cdrom":   {"scsiId", "pollInterval"},
		"audio":   {"drainFactor", "quantumFrames"},
		"desktop": {"mediaDir", "scale"},
	}
	for section, keys := range nested {
		sectionRaw, ok := raw[section]
		if !ok {
			continue
		}
		var fields map[string]json.RawMessage
		if json.Unmarshal(sectionRaw, &fields) != nil {
			continue
		}
		for _, k := range keys {
			if _, ok := fields[k]; ok {
				present[section+"."+k] = true
			}
		}
	}

	return present
}

// ApplyMissingDefaults sets defaults for fields absent from the file,
// preserving explicit zero values.
func ApplyMissingDefaults(cfg *Config, presentKeys map[string]bool) {
	defaults := DefaultConfig()

	if !presentKeys["version"] {
		cfg.Version = defaults.Version
	}
	if !presentKeys["model"] {
		cfg.Model = defaults.Model
	}
	if !presentKeys["mouseMode"] {
		cfg.MouseMode = defaults.MouseMode
	}
	if !presentKeys["cdrom.scsiId"] {
		cfg.Cdrom.SCSIID = defaults.Cdrom.SCSIID
	}
	if !presentKeys["cdrom.pollInterval"] {
		cfg.Cdrom.PollInterval = defaults.Cdrom.PollInterval
	}
	if !presentKeys["audio.drainFactor"] {
		cfg.Audio.DrainFactor = defaults.Audio.DrainFactor
	}
	if !presentKeys["audio.quantumFrames"] {
		cfg.Audio.QuantumFrames = defaults.Audio.QuantumFrames
	}
	if !presentKeys["desktop.mediaDir"] {
		cfg.Desktop.MediaDir = defaults.Desktop.MediaDir
	}
	if !presentKeys["desktop.scale"] {
		cfg.Desktop.Scale = defaults.Desktop.Scale
	}
}

func cdromIDValid(cfg *Config) bool {
	if cfg.Cdrom.SCSIID == AutoSCSIID {
		return true
	}
	return cfg.Cdrom.SCSIID >= 0 && cfg.Cdrom.SCSIID < emucore.MaxSCSITargets
}

// Validate checks fields against their valid ranges and returns
// human-readable problems. An empty slice means the config is valid.
func Validate(cfg *Config) []string {
	var problems []string

	if cfg.Version != 1 {
		problems = append(problems, fmt.Sprintf("version: %d (valid: 1)", cfg.Version))
	}
	if _, ok := emucore.ParseModel(cfg.Model); !ok {
		problems = append(problems, fmt.Sprintf("model: %q (valid: SE, Plus, Classic, SE/30, II)", cfg.Model))
	}
	if _, ok := ParseMouseMode(cfg.MouseMode); !ok {
		problems = append(problems, fmt.Sprintf("mouseMode: %q (valid: \"relative\", \"absolute\", \"disabled\")", cfg.MouseMode))
	}
	if len(cfg.Disks) > emucore.MaxSCSITargets {
		problems = append(problems, fmt.Sprintf("disks: %d entries (valid: <= %d)", len(cfg.Disks), emucore.MaxSCSITargets))
	}
	if !cdromIDValid(cfg) {
		problems = append(problems, fmt.Sprintf("cdrom.scsiId: %d (valid: -1 or 0-%d)", cfg.Cdrom.SCSIID, emucore.MaxSCSITargets-1))
	}
	if cfg.Cdrom.PollInterval < 1 {
		problems = append(problems, fmt.Sprintf("cdrom.pollInterval: %d (valid: >= 1)", cfg.Cdrom.PollInterval))
	}
	if cfg.Audio.DrainFactor <= 0 || cfg.Audio.DrainFactor > 1 {
		problems = append(problems, fmt.Sprintf("audio.drainFactor: %.2f (valid: >0.0-1.0)", cfg.Audio.DrainFactor))
	}
	if cfg.Audio.QuantumFrames < 1 || cfg.Audio.QuantumFrames > 4096 {
		problems = append(problems, fmt.Sprintf("audio.quantumFrames: %d (valid: 1-4096)", cfg.Audio.QuantumFrames))
	}
	if cfg.Desktop.Scale < 1 || cfg.Desktop.Scale > 8 {
		problems = append(problems, fmt.Sprintf("desktop.scale: %d (valid: 1-8)", cfg.Desktop.Scale))
	}

	return problems
}

// Correct resets invalid fields to their defaults. Valid fields are kept.
func Correct(cfg *Config) *Config {
	defaults := DefaultConfig()

	if cfg.Version != 1 {
		cfg.Version = defaults.Version
	}
	if _, ok := emucore.ParseModel(cfg.Model); !ok {
		cfg.Model = defaults.Model
	}
	if _, ok := ParseMouseMode(cfg.MouseMode); !ok {
		cfg.MouseMode = defaults.MouseMode
	}
	if len(cfg.Disks) > emucore.MaxSCSITargets {
		cfg.Disks = cfg.Disks[:emucore.MaxSCSITargets]
	}
	if !cdromIDValid(cfg) {
		cfg.Cdrom.SCSIID = defaults.Cdrom.SCSIID
	}
	if cfg.Cdrom.PollInterval < 1 {
		cfg.Cdrom.PollInterval = defaults.Cdrom.PollInterval
	}
	if cfg.Audio.DrainFactor <= 0 || cfg.Audio.DrainFactor > 1 {
		cfg.Audio.DrainFactor = defaults.Audio.DrainFactor
	}
	if cfg.Audio.QuantumFrames < 1 || cfg.Audio.QuantumFrames > 4096 {
		cfg.Audio.QuantumFrames = defaults.Audio.QuantumFrames
	}
	if cfg.Desktop.Scale < 1 || cfg.Desktop.Scale > 8 {
		cfg.Desktop.Scale = defaults.Desktop.Scale
	}

	return cfg
}
