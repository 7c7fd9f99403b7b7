package media

import (
	"errors"
	"fmt"

	emucore "github.com/user-none/snowbridge/api"
	"github.com/user-none/snowbridge/hostif"
)

// BlockSize is the SCSI block size disk images must be a multiple of.
const BlockSize = 512

// ErrBlockSize is returned when an image is not a whole number of blocks.
var ErrBlockSize = errors.New("image size is not a multiple of the block size")

// Compile-time interface check.
var _ emucore.DiskImage = (*DiskImage)(nil)

// DiskImage is a block-aligned disk or CD-ROM image backed by a host handle.
type DiskImage struct {
	handle *DiskHandle
}

// OpenDiskImage opens name and checks that it holds whole blocks. The
// image is never truncated to fit.
func OpenDiskImage(s *hostif.Surface, name string) (*DiskImage, error) {
	handle, err := OpenHandle(s, name)
	if err != nil {
		return nil, err
	}

	if handle.Len()%BlockSize != 0 {
		handle.Close()
		return nil, fmt.Errorf("cannot load disk image %s: %d bytes is not a multiple of %d: %w",
			name, handle.Len(), BlockSize, ErrBlockSize)
	}

	return &DiskImage{handle: handle}, nil
}

// ByteLen returns the image size.
func (d *DiskImage) ByteLen() int {
	return d.handle.Len()
}

// ReadBytes returns length bytes starting at offset.
func (d *DiskImage) ReadBytes(offset, length int) []byte {
	return d.handle.Read(offset, length)
}

// WriteBytes stores data starting at offset.
func (d *DiskImage) WriteBytes(offset int, data []byte) {
	d.handle.Write(offset, data)
}

// ImagePath returns the name the image was opened under.
func (d *DiskImage) ImagePath() string {
	return d.handle.Name()
}

// Close releases the backing handle.
func (d *DiskImage) Close() error {
	return d.handle.Close()
}
