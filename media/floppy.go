package media

import (
	"fmt"

	emucore "github.com/user-none/snowbridge/api"
	"github.com/user-none/snowbridge/hostif"
	"github.com/user-none/snowbridge/imageloader"
)

// FloppyExtensions are the image names looked for inside archives.
var FloppyExtensions = []string{".img", ".image", ".dsk", ".dc42", ".diskcopy", ".moof", ".woz", ".a2r", ".pfi", ".pri"}

// LoadFloppy reads the whole image behind name, unwraps it if it is an
// archive, and decodes it with loader using the file name as a hint.
func LoadFloppy(s *hostif.Surface, loader emucore.FloppyLoader, name string) (emucore.FloppyImage, error) {
	handle, err := OpenHandle(s, name)
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	data, innerName, err := imageloader.Unwrap(handle.ReadAll(), name, FloppyExtensions)
	if err != nil {
		return nil, fmt.Errorf("cannot load floppy image %s: %w", name, err)
	}

	img, err := loader.LoadFloppy(data, innerName)
	if err != nil {
		return nil, fmt.Errorf("cannot load floppy image %s: %w", name, err)
	}
	return img, nil
}
