package emucore

// MaxSCSITargets is the number of addressable SCSI ids.
const MaxSCSITargets = 7

// TargetType is the kind of device attached at a SCSI id.
type TargetType int

const (
	TargetDisk TargetType = iota
	TargetCdrom
)

// String returns the display name of the target type.
func (t TargetType) String() string {
	switch t {
	case TargetDisk:
		return "disk"
	case TargetCdrom:
		return "cdrom"
	default:
		return "unknown"
	}
}

// TargetStatus describes one attached SCSI target.
type TargetStatus struct {
	Type TargetType
	// Image is the path of the inserted media, empty when no media is present.
	Image string
}

// HasMedia reports whether media is inserted.
func (t TargetStatus) HasMedia() bool {
	return t.Image != ""
}

// Status is a point-in-time view published by the core. A nil entry in
// SCSI means nothing is attached at that id.
type Status struct {
	Running bool
	SCSI    [MaxSCSITargets]*TargetStatus
}

// Target returns the target at the given id, or false when the id is out
// of range or unattached.
func (s Status) Target(scsiID int) (TargetStatus, bool) {
	if scsiID < 0 || scsiID >= MaxSCSITargets || s.SCSI[scsiID] == nil {
		return TargetStatus{}, false
	}
	return *s.SCSI[scsiID], true
}
