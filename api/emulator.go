package emucore

// Emulator is the tick-driven core the bridge drives. It is implemented by
// the emulator adapter, never by the bridge.
type Emulator interface {
	// Tick advances emulation by the given number of ticks.
	Tick(ticks int) error

	// CommandSender returns the sender for the core's command intake.
	CommandSender() CommandSender

	// Frames returns the channel the core publishes finished frames on.
	Frames() <-chan DisplayBuffer

	// Status returns the most recent status snapshot. The bool is false
	// when the core has not published one yet.
	Status() (Status, bool)

	// SetAudioSink installs the sink the core delivers audio buffers to.
	// The core may call the sink from its own audio goroutine.
	SetAudioSink(sink AudioSink)

	// AttachDisk attaches a fixed disk image at the given SCSI id.
	AttachDisk(image DiskImage, scsiID int) error

	// AttachCdrom attaches an empty CD-ROM drive at the given SCSI id.
	AttachCdrom(scsiID int) error

	// InsertCdrom inserts media into the CD-ROM drive at the given SCSI id.
	InsertCdrom(image DiskImage, scsiID int) error

	// InsertFloppy inserts a decoded floppy image into the given drive.
	InsertFloppy(image FloppyImage, drive int) error

	// Close releases any resources held by the emulator.
	Close()
}

// SaveStater enables snapshot save and restore.
type SaveStater interface {
	// Serialize captures the complete emulator state.
	Serialize() ([]byte, error)

	// Deserialize restores emulator state from previously serialized data.
	Deserialize(data []byte) error
}

// DiskImage is a byte-addressable storage region backing a SCSI target.
type DiskImage interface {
	// ByteLen returns the size of the image in bytes.
	ByteLen() int

	// ReadBytes returns length bytes starting at offset.
	ReadBytes(offset, length int) []byte

	// WriteBytes writes data starting at offset.
	WriteBytes(offset int, data []byte)

	// ImagePath returns the name the image was opened under.
	ImagePath() string
}

// FloppyImage is a decoded floppy disk. Its layout is private to the core.
type FloppyImage interface {
	// Title returns a display name for the disk.
	Title() string
}

// FloppyLoader decodes raw floppy bytes, detecting the image format. The
// name is a hint for formats without a reliable signature.
type FloppyLoader interface {
	LoadFloppy(data []byte, name string) (FloppyImage, error)
}

// AudioBuffer is one buffer of interleaved 32-bit float samples.
type AudioBuffer []float32

// AudioSink receives audio buffers produced by the core. Send may block to
// apply backpressure to the producing goroutine.
type AudioSink interface {
	Send(buf AudioBuffer) error
}

// DisplayBuffer is a finished video frame.
type DisplayBuffer struct {
	Width  uint16
	Height uint16
	Pixels []byte
}
