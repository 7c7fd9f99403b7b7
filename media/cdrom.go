package media

import (
	"fmt"
	"log/slog"

	emucore "github.com/user-none/snowbridge/api"
	"github.com/user-none/snowbridge/hostif"
)

// DefaultPollInterval is the number of ticks between insertion checks.
const DefaultPollInterval = 10

// CdromDrive is the part of the core the manager drives.
type CdromDrive interface {
	AttachCdrom(scsiID int) error
	InsertCdrom(image emucore.DiskImage, scsiID int) error
}

// HotplugState is the manager's position in its insertion cycle.
type HotplugState int

const (
	// StateIdle means nothing is queued.
	StateIdle HotplugState = iota
	// StateAwaitingSlot means names are queued but the drive is busy or
	// its status is unknown.
	StateAwaitingSlot
	// StateCommitting means the head of the queue is being opened and
	// inserted.
	StateCommitting
)

// String returns the display name of the state.
func (s HotplugState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingSlot:
		return "awaiting-slot"
	case StateCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

// CdromManager queues CD-ROM insertion requests for one SCSI id and
// commits them only when the drive is empty.
type CdromManager struct {
	surface  *hostif.Surface
	drive    CdromDrive
	logger   *slog.Logger
	scsiID   int
	interval uint64

	tickCount uint64
	pending   []string
	state     HotplugState
}

// CdromOption configures a CdromManager.
type CdromOption func(*CdromManager)

// WithPollInterval sets the number of ticks between insertion checks.
func WithPollInterval(ticks int) CdromOption {
	return func(m *CdromManager) {
		if ticks > 0 {
			m.interval = uint64(ticks)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) CdromOption {
	return func(m *CdromManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewCdromManager attaches an empty CD-ROM drive at scsiID and seeds the
// queue with names.
func NewCdromManager(s *hostif.Surface, drive CdromDrive, scsiID int, names []string, opts ...CdromOption) (*CdromManager, error) {
	if scsiID < 0 || scsiID >= emucore.MaxSCSITargets {
		return nil, fmt.Errorf("no available SCSI slot for CD-ROM drive (id %d)", scsiID)
	}

	m := &CdromManager{
		surface:  s,
		drive:    drive,
		logger:   slog.Default(),
		scsiID:   scsiID,
		interval: DefaultPollInterval,
		pending:  append([]string(nil), names...),
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := drive.AttachCdrom(scsiID); err != nil {
		return nil, fmt.Errorf("failed to attach CD-ROM drive at SCSI ID #%d: %w", scsiID, err)
	}
	m.updateState()
	return m, nil
}

// SCSIID returns the slot this manager serves.
func (m *CdromManager) SCSIID() int {
	return m.scsiID
}

// Pending returns a copy of the queued names in insertion order.
func (m *CdromManager) Pending() []string {
	return append([]string(nil), m.pending...)
}

// State returns the current hotplug state.
func (m *CdromManager) State() HotplugState {
	return m.state
}

// Tick counts one emulation tick and, every poll interval, drains new
// host requests and tries to commit the queue. status is nil when the core
// has not published one yet.
func (m *CdromManager) Tick(status *emucore.Status) {
	m.tickCount++
	if m.tickCount%m.interval != 0 {
		return
	}

	for {
		name, ok := m.surface.NextCdromName()
		if !ok {
			break
		}
		m.logger.Info("queued pending CD-ROM insertion", "name", name)
		m.pending = append(m.pending, name)
	}

	if len(m.pending) > 0 {
		m.Flush(status)
	}
	m.updateState()
}

// Flush commits queued names while the drive is free. A busy drive stops
// the flush with the queue intact; a name that fails to open or insert is
// dropped and the next one is tried.
func (m *CdromManager) Flush(status *emucore.Status) {
	defer m.updateState()

	if status == nil {
		m.logger.Debug("no emulator status available, deferring CD-ROM insertions")
		return
	}

	for len(m.pending) > 0 {
		if !m.isFree(status) {
			m.logger.Debug("no free CD-ROM drive, deferring insertion", "name", m.pending[0])
			return
		}

		m.state = StateCommitting
		name := m.pending[0]
		m.pending = m.pending[1:]

		img, err := OpenDiskImage(m.surface, name)
		if err != nil {
			m.logger.Error("failed to open CD-ROM image", "name", name, "error", err)
			continue
		}
		if err := m.drive.InsertCdrom(img, m.scsiID); err != nil {
			img.Close()
			m.logger.Error("failed to attach CD-ROM image", "name", name, "scsi_id", m.scsiID, "error", err)
			continue
		}
		m.logger.Info("CD-ROM image loaded", "name", name, "scsi_id", m.scsiID)
		// The core's status lags the insert; treat the drive as taken.
		return
	}
}

func (m *CdromManager) isFree(status *emucore.Status) bool {
	target, ok := status.Target(m.scsiID)
	if !ok {
		return false
	}
	return target.Type == emucore.TargetCdrom && !target.HasMedia()
}

func (m *CdromManager) updateState() {
	if len(m.pending) == 0 {
		m.state = StateIdle
		return
	}
	m.state = StateAwaitingSlot
}
