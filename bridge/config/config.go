// Package config loads the bridge's JSON configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	emucore "github.com/user-none/snowbridge/api"
	"github.com/user-none/snowbridge/audio"
)

// AutoSCSIID places the CD-ROM drive on the first id after the fixed disks.
const AutoSCSIID = -1

// Config is the on-disk configuration.
type Config struct {
	Version   int           `json:"version"`
	Model     string        `json:"model"`
	MouseMode string        `json:"mouseMode"`
	Disks     []string      `json:"disks,omitempty"`
	Floppies  []string      `json:"floppies,omitempty"`
	Cdrom     CdromConfig   `json:"cdrom"`
	Audio     AudioConfig   `json:"audio"`
	Desktop   DesktopConfig `json:"desktop"`
}

// CdromConfig configures the hot-pluggable CD-ROM drive.
type CdromConfig struct {
	Images       []string `json:"images,omitempty"`
	SCSIID       int      `json:"scsiId"`
	PollInterval int      `json:"pollInterval"`
}

// AudioConfig holds the tunable audio flow constants.
type AudioConfig struct {
	DrainFactor   float64 `json:"drainFactor"`
	QuantumFrames int     `json:"quantumFrames"`
}

// DesktopConfig configures the native development host.
type DesktopConfig struct {
	MediaDir   string `json:"mediaDir"`
	Scale      int    `json:"scale"`
	WAVCapture string `json:"wavCapture,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	ac := audio.DefaultConfig()
	return &Config{
		Version:   1,
		Model:     emucore.ModelSE.String(),
		MouseMode: "relative",
		Cdrom: CdromConfig{
			SCSIID:       AutoSCSIID,
			PollInterval: 10,
		},
		Audio: AudioConfig{
			DrainFactor:   ac.DrainFactor,
			QuantumFrames: int(ac.QuantumFrames),
		},
		Desktop: DesktopConfig{
			MediaDir: ".",
			Scale:    2,
		},
	}
}

// Load reads the configuration at path. An empty path or a missing file
// yields defaults. Keys absent from the file are defaulted and invalid
// values are corrected; the returned problems describe each correction.
func Load(path string) (*Config, []string, error) {
	if path == "" {
		return DefaultConfig(), nil, nil
	}

	jsonBytes, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(jsonBytes, cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	ApplyMissingDefaults(cfg, detectPresentKeys(jsonBytes))

	problems := Validate(cfg)
	if len(problems) > 0 {
		Correct(cfg)
	}
	return cfg, problems, nil
}

// Save writes cfg to path atomically.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// EmulatorModel returns the configured model.
func (c *Config) EmulatorModel() emucore.Model {
	m, ok := emucore.ParseModel(c.Model)
	if !ok {
		return emucore.ModelSE
	}
	return m
}

// EmulatorMouseMode returns the configured mouse mode.
func (c *Config) EmulatorMouseMode() emucore.MouseMode {
	m, _ := ParseMouseMode(c.MouseMode)
	return m
}

// ApplyAudio overlays the tunable audio values onto base.
func (c *Config) ApplyAudio(base audio.Config) audio.Config {
	base.DrainFactor = c.Audio.DrainFactor
	base.QuantumFrames = uint32(c.Audio.QuantumFrames)
	return base
}

// CdromSCSIID resolves the CD-ROM drive id.
func (c *Config) CdromSCSIID() int {
	if c.Cdrom.SCSIID == AutoSCSIID {
		return len(c.Disks)
	}
	return c.Cdrom.SCSIID
}

// ParseMouseMode converts a config name to a mouse mode.
func ParseMouseMode(s string) (emucore.MouseMode, bool) {
	switch s {
	case "relative":
		return emucore.MouseRelativeHW, true
	case "absolute":
		return emucore.MouseAbsolute, true
	case "disabled":
		return emucore.MouseDisabled, true
	default:
		return emucore.MouseRelativeHW, false
	}
}
