package emucore

// SystemInfo describes the core and the constants the bridge mirrors.
type SystemInfo struct {
	CoreName    string
	CoreVersion string
	Model       Model

	// AudioBufferSize is the number of samples (all channels) in one
	// AudioBuffer produced by the core.
	AudioBufferSize int
	// AudioQueueLen is the depth of the core's own bounded audio queue.
	AudioQueueLen int

	// FloppyDrives is the number of floppy drives the model provides.
	FloppyDrives int
}

// CoreFactory creates emulator instances and provides system metadata.
type CoreFactory interface {
	// SystemInfo returns metadata for the given model.
	SystemInfo(model Model) SystemInfo

	// CreateEmulator creates a new emulator from ROM data.
	CreateEmulator(rom []byte, model Model) (Emulator, error)

	// FloppyLoader returns the core's format-detecting floppy decoder.
	FloppyLoader() FloppyLoader
}
