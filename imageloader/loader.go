// Package imageloader unwraps media images that were delivered inside a
// compressed archive (ZIP, 7z, gzip, tar.gz, RAR). Data that is not an
// archive is passed through untouched so the core's own format detection
// can handle it.
package imageloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Magic bytes for format detection
var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
)

// Maximum extracted image size (16MB safety limit)
const maxImageSize = 16 * 1024 * 1024

// ErrNoImageFile is returned when no image file is found in an archive
var ErrNoImageFile = errors.New("no image file found in archive")

// ErrUnsupportedFormat is returned for archives that cannot be opened
var ErrUnsupportedFormat = errors.New("unsupported archive format")

// ErrFileTooLarge is returned when extracted content exceeds size limit
var ErrFileTooLarge = errors.New("file exceeds maximum size limit")

// formatType represents the detected container format
type formatType int

const (
	formatRaw formatType = iota
	formatZIP
	format7z
	formatGzip
	formatRAR
)

// Unwrap returns the image held in data. name is the host-side name and is
// used as a hint when the data carries no archive signature. Archives are
// searched for the first file matching one of extensions.
//
// Returns the image bytes, the image file name (basename only, passed on
// as the decoder's name hint), and any error.
func Unwrap(data []byte, name string, extensions []string) ([]byte, string, error) {
	switch detectFormat(data, name) {
	case formatZIP:
		return extractFromZIP(data, extensions)
	case format7z:
		return extractFrom7z(data, extensions)
	case formatGzip:
		return extractFromGzip(data, name, extensions)
	case formatRAR:
		return extractFromRAR(data, extensions)
	default:
		return data, filepath.Base(name), nil
	}
}

// detectFormat determines the container format based on magic bytes and
// the name's extension.
func detectFormat(header []byte, name string) formatType {
	ext := strings.ToLower(filepath.Ext(name))

	// Check magic bytes first (more reliable)
	if len(header) >= 4 {
		if bytes.HasPrefix(header, magicZIP) || bytes.HasPrefix(header, magicZIPEnd) {
			return formatZIP
		}
		if bytes.HasPrefix(header, magicRAR) {
			return formatRAR
		}
	}
	if len(header) >= 6 && bytes.HasPrefix(header, magic7z) {
		return format7z
	}
	if len(header) >= 2 && bytes.HasPrefix(header, magicGzip) {
		return formatGzip
	}

	// Fall back to extension for archive formats
	switch ext {
	case ".zip":
		return formatZIP
	case ".7z":
		return format7z
	case ".gz", ".tgz":
		return formatGzip
	case ".rar":
		return formatRAR
	}

	return formatRaw
}

// isImageFile checks if a filename has one of the given extensions (case-insensitive)
func isImageFile(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// limitedRead reads from r up to maxImageSize bytes, returning an error if exceeded
func limitedRead(r io.Reader) ([]byte, error) {
	lr := io.LimitReader(r, maxImageSize+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

func wrapOpenErr(kind string, err error) error {
	return fmt.Errorf("%w: failed to open %s: %v", ErrUnsupportedFormat, kind, err)
}
