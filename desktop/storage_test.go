package desktop

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_ReadWrite(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hd.img"), make([]byte, 1024), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(dir, nil)

	id := s.Open("hd.img")
	if id < 0 {
		t.Fatal("Open() failed")
	}
	if s.Size(id) != 1024 {
		t.Errorf("Size() = %v", s.Size(id))
	}
	if n := s.WriteAt(id, []byte{1, 2, 3}, 510); n != 3 {
		t.Errorf("WriteAt() = %v", n)
	}
	buf := make([]byte, 4)
	if n := s.ReadAt(id, buf, 509); n != 4 {
		t.Errorf("ReadAt() = %v", n)
	}
	if buf[0] != 0 || buf[1] != 1 || buf[3] != 3 {
		t.Errorf("read back %v", buf)
	}
	if n := s.ReadAt(id, buf, 1022); n != 2 {
		t.Errorf("short ReadAt() = %v, want 2", n)
	}

	s.Close(id)
	s.Close(id)
	if s.OpenCount() != 0 || s.Size(id) != -1 {
		t.Error("handle still open after Close")
	}
}

func TestFileStore_OpenFailures(t *testing.T) {
	s := NewFileStore(t.TempDir(), nil)
	for _, name := range []string{"missing.img", "../escape.img", ""} {
		if id := s.Open(name); id != -1 {
			t.Errorf("Open(%q) = %d, want -1", name, id)
		}
	}
	if _, err := s.Path("../x"); !errors.Is(err, ErrNotLocal) {
		t.Errorf("Path() error = %v", err)
	}
}

func TestFileStore_CloseAll(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a"), []byte{1}, 0644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(dir, nil)
	s.Open("a")
	s.Open("a")
	s.CloseAll()
	if s.OpenCount() != 0 {
		t.Errorf("OpenCount() = %d", s.OpenCount())
	}
}
