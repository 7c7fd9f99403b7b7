package desktop

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotLocal is returned for names that escape the media directory.
var ErrNotLocal = errors.New("name is not local to the media directory")

// FileStore serves storage handles from files under a media directory.
type FileStore struct {
	mu     sync.Mutex
	dir    string
	files  map[int32]*os.File
	nextID int32
	logger *slog.Logger
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{
		dir:    dir,
		files:  map[int32]*os.File{},
		logger: logger,
	}
}

// Path resolves name inside the media directory.
func (s *FileStore) Path(name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%s: %w", name, ErrNotLocal)
	}
	return filepath.Join(s.dir, name), nil
}

// Open opens name read-write, falling back to read-only. It returns -1
// when the file cannot be opened.
func (s *FileStore) Open(name string) int32 {
	path, err := s.Path(name)
	if err != nil {
		s.logger.Warn("rejected storage name", "name", name, "error", err)
		return -1
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if errors.Is(err, os.ErrPermission) {
		f, err = os.Open(path)
	}
	if err != nil {
		s.logger.Debug("storage open failed", "name", name, "error", err)
		return -1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.files[id] = f
	return id
}

func (s *FileStore) file(id int32) *os.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[id]
}

// Close closes the handle. Unknown ids are ignored.
func (s *FileStore) Close(id int32) {
	s.mu.Lock()
	f, ok := s.files[id]
	delete(s.files, id)
	s.mu.Unlock()
	if ok {
		f.Close()
	}
}

// Size returns the file size in bytes, or -1 for an unknown handle.
func (s *FileStore) Size(id int32) float64 {
	f := s.file(id)
	if f == nil {
		return -1
	}
	st, err := f.Stat()
	if err != nil {
		return -1
	}
	return float64(st.Size())
}

// ReadAt fills buf from offset and returns the bytes read.
func (s *FileStore) ReadAt(id int32, buf []byte, offset float64) float64 {
	f := s.file(id)
	if f == nil {
		return 0
	}
	n, err := f.ReadAt(buf, int64(offset))
	if err != nil && !errors.Is(err, io.EOF) {
		s.logger.Error("storage read failed", "id", id, "offset", offset, "error", err)
	}
	return float64(n)
}

// WriteAt writes buf at offset and returns the bytes written.
func (s *FileStore) WriteAt(id int32, buf []byte, offset float64) float64 {
	f := s.file(id)
	if f == nil {
		return 0
	}
	n, err := f.WriteAt(buf, int64(offset))
	if err != nil {
		s.logger.Error("storage write failed", "id", id, "offset", offset, "error", err)
	}
	return float64(n)
}

// CloseAll closes every open handle.
func (s *FileStore) CloseAll() {
	s.mu.Lock()
	files := s.files
	s.files = map[int32]*os.File{}
	s.mu.Unlock()
	for _, f := range files {
		f.Close()
	}
}

// OpenCount returns the number of open handles.
func (s *FileStore) OpenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}
