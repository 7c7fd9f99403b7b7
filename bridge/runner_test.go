package bridge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	emucore "github.com/user-none/snowbridge/api"
	"github.com/user-none/snowbridge/bridge/config"
	"github.com/user-none/snowbridge/hostif/hosttest"
)

type fakeFloppy string

func (f fakeFloppy) Title() string { return string(f) }

type fakeLoader struct{}

func (fakeLoader) LoadFloppy(data []byte, name string) (emucore.FloppyImage, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image")
	}
	return fakeFloppy(name), nil
}

type fakeEmulator struct {
	cmds      *emucore.CommandQueue
	frames    chan emucore.DisplayBuffer
	status    emucore.Status
	hasStatus bool
	sink      emucore.AudioSink
	disks     map[int]emucore.DiskImage
	floppies  map[int]emucore.FloppyImage
	ticks     int
	failAt    int
	closed    bool
	state     []byte
}

func newFakeEmulator() *fakeEmulator {
	return &fakeEmulator{
		cmds:     emucore.NewCommandQueue(16),
		frames:   make(chan emucore.DisplayBuffer, 4),
		disks:    map[int]emucore.DiskImage{},
		floppies: map[int]emucore.FloppyImage{},
		failAt:   -1,
	}
}

func (e *fakeEmulator) Tick(ticks int) error {
	if e.ticks == e.failAt {
		return errors.New("bus error")
	}
	e.ticks += ticks
	return nil
}

func (e *fakeEmulator) CommandSender() emucore.CommandSender { return e.cmds }
func (e *fakeEmulator) Frames() <-chan emucore.DisplayBuffer { return e.frames }
func (e *fakeEmulator) Status() (emucore.Status, bool)       { return e.status, e.hasStatus }
func (e *fakeEmulator) SetAudioSink(sink emucore.AudioSink)  { e.sink = sink }
func (e *fakeEmulator) Close()                               { e.closed = true }

func (e *fakeEmulator) AttachDisk(image emucore.DiskImage, scsiID int) error {
	e.disks[scsiID] = image
	e.status.SCSI[scsiID] = &emucore.TargetStatus{Type: emucore.TargetDisk, Image: image.ImagePath()}
	return nil
}

func (e *fakeEmulator) AttachCdrom(scsiID int) error {
	e.status.SCSI[scsiID] = &emucore.TargetStatus{Type: emucore.TargetCdrom}
	return nil
}

func (e *fakeEmulator) InsertCdrom(image emucore.DiskImage, scsiID int) error {
	e.status.SCSI[scsiID].Image = image.ImagePath()
	return nil
}

func (e *fakeEmulator) InsertFloppy(image emucore.FloppyImage, drive int) error {
	e.floppies[drive] = image
	return nil
}

func (e *fakeEmulator) Serialize() ([]byte, error)    { return e.state, nil }
func (e *fakeEmulator) Deserialize(data []byte) error { e.state = data; return nil }

type fakeFactory struct {
	emu *fakeEmulator
	err error
}

func (f *fakeFactory) SystemInfo(model emucore.Model) emucore.SystemInfo {
	return emucore.SystemInfo{CoreName: "fake", Model: model, AudioBufferSize: 64, AudioQueueLen: 2, FloppyDrives: 2}
}

func (f *fakeFactory) CreateEmulator(rom []byte, model emucore.Model) (emucore.Emulator, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.emu, nil
}

func (f *fakeFactory) FloppyLoader() emucore.FloppyLoader { return fakeLoader{} }

func newTestRunner(t *testing.T, cfg *config.Config) (*hosttest.Host, *fakeEmulator, *Runner) {
	t.Helper()
	h := hosttest.New()
	h.AddDisk("hd.img", make([]byte, 1024))
	h.AddDisk("sys.dsk", []byte{1, 2, 3})
	h.AddDisk("cd.iso", make([]byte, 2048))
	emu := newFakeEmulator()
	r, err := NewRunner(&fakeFactory{emu: emu}, h, []byte{0}, cfg, nil)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	return h, emu, r
}

func TestNewRunner_Startup(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Disks = []string{"hd.img"}
	cfg.Floppies = []string{"sys.dsk"}

	h, emu, r := newTestRunner(t, cfg)

	if emu.disks[0] == nil || emu.disks[0].ImagePath() != "hd.img" {
		t.Errorf("disk 0 = %v", emu.disks[0])
	}
	if r.Cdrom() == nil || r.Cdrom().SCSIID() != 1 {
		t.Fatalf("CD-ROM manager not attached at id 1")
	}
	if emu.status.SCSI[1] == nil || emu.status.SCSI[1].Type != emucore.TargetCdrom {
		t.Error("CD-ROM drive not attached")
	}
	if emu.floppies[0] == nil || emu.floppies[0].Title() != "sys.dsk" {
		t.Errorf("floppy 0 = %v", emu.floppies[0])
	}
	if emu.sink == nil {
		t.Fatal("audio sink not installed")
	}
	if h.AudioFormat != [3]uint32{22050, 32, 2} {
		t.Errorf("audio format = %v", h.AudioFormat)
	}
	select {
	case cmd := <-emu.cmds.Receive():
		if _, isRun := cmd.(emucore.RunCommand); !isRun {
			t.Errorf("first command = %#v, want RunCommand", cmd)
		}
	default:
		t.Fatal("no command sent")
	}
}

func TestNewRunner_Failures(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"missing disk", func(c *config.Config) { c.Disks = []string{"nope.img"} }},
		{"misaligned disk", func(c *config.Config) { c.Disks = []string{"sys.dsk"} }},
		{"missing floppy", func(c *config.Config) { c.Floppies = []string{"nope.dsk"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := hosttest.New()
			h.AddDisk("sys.dsk", []byte{1, 2, 3})
			cfg := config.DefaultConfig()
			tt.modify(cfg)
			emu := newFakeEmulator()

			if _, err := NewRunner(&fakeFactory{emu: emu}, h, nil, cfg, nil); err == nil {
				t.Fatal("expected error")
			}
			if !emu.closed {
				t.Error("emulator not closed after failed startup")
			}
			if h.OpenHandles() != 0 {
				t.Errorf("%d handles left open", h.OpenHandles())
			}
		})
	}
}

func TestNewRunner_CreateError(t *testing.T) {
	_, err := NewRunner(&fakeFactory{err: errors.New("bad rom")}, hosttest.New(), nil, nil, nil)
	if err == nil {
		t.Error("expected error")
	}
}

func TestNewRunner_NoCdromSlot(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Disks = []string{"hd.img", "hd.img", "hd.img", "hd.img", "hd.img", "hd.img", "hd.img"}
	_, _, r := newTestRunner(t, cfg)
	if r.Cdrom() != nil {
		t.Error("CD-ROM manager created without a free slot")
	}
	if err := r.Step(); err != nil {
		t.Errorf("Step() error = %v", err)
	}
}

func TestStep_Order(t *testing.T) {
	h, emu, r := newTestRunner(t, config.DefaultConfig())
	emu.frames <- emucore.DisplayBuffer{Width: 512, Height: 342, Pixels: []byte{1, 2, 3, 4}}
	h.RequestSnapshot(1, 9)
	emu.state = []byte("state")

	if err := r.Step(); err != nil {
		t.Fatal(err)
	}
	if emu.ticks != 1 || r.Ticks() != 1 {
		t.Errorf("ticks = %d/%d", emu.ticks, r.Ticks())
	}
	if len(h.Frames) != 1 {
		t.Errorf("frames = %d, want 1", len(h.Frames))
	}
	if h.LockAcquired != 1 || h.LockHeld() {
		t.Errorf("input lock acquired %d held %v", h.LockAcquired, h.LockHeld())
	}
	if len(h.Completions) != 1 || h.Completions[0].Kind != "save" || string(h.Completions[0].State) != "state" {
		t.Errorf("completions = %+v", h.Completions)
	}
	if h.PeriodicTasks != 1 {
		t.Errorf("periodic tasks = %d", h.PeriodicTasks)
	}
}

func TestStep_CdromHotplug(t *testing.T) {
	h, emu, r := newTestRunner(t, config.DefaultConfig())
	emu.hasStatus = true
	h.RequestCdrom("cd.iso")

	for i := 0; i < 9; i++ {
		if err := r.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if emu.status.SCSI[0].HasMedia() {
		t.Fatal("inserted before the poll interval")
	}
	if err := r.Step(); err != nil {
		t.Fatal(err)
	}
	if emu.status.SCSI[0].Image != "cd.iso" {
		t.Errorf("CD-ROM image = %q, want cd.iso", emu.status.SCSI[0].Image)
	}
}

func TestRun_TickError(t *testing.T) {
	_, emu, r := newTestRunner(t, config.DefaultConfig())
	emu.failAt = 3

	err := r.Run(context.Background())
	if err == nil || r.Ticks() != 3 {
		t.Errorf("Run() = %v after %d ticks", err, r.Ticks())
	}
}

func TestRun_Cancel(t *testing.T) {
	_, _, r := newTestRunner(t, config.DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestClose(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Disks = []string{"hd.img"}
	h, emu, r := newTestRunner(t, cfg)

	r.Close()
	if !emu.closed {
		t.Error("emulator not closed")
	}
	if h.OpenHandles() != 0 {
		t.Errorf("%d handles left open", h.OpenHandles())
	}
}

func TestParseCLI(t *testing.T) {
	cli, err := ParseCLI("snowbridge", nil)
	if err != nil {
		t.Fatal(err)
	}
	if cli.BootROM != "/rom" || cli.Config != "" {
		t.Errorf("defaults = %+v", cli)
	}

	cli, err = ParseCLI("snowbridge", []string{"--bootrom", "se.rom", "--config", "c.json"})
	if err != nil {
		t.Fatal(err)
	}
	if cli.BootROM != "se.rom" || cli.Config != "c.json" {
		t.Errorf("parsed = %+v", cli)
	}
}

func TestCLILoad(t *testing.T) {
	dir := t.TempDir()
	rom := filepath.Join(dir, "rom")
	if err := os.WriteFile(rom, []byte{0xAA}, 0644); err != nil {
		t.Fatal(err)
	}

	cli := &CLI{BootROM: rom}
	data, cfg, err := cli.Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 1 || cfg.Model != "SE" {
		t.Errorf("Load() = %v, %+v", data, cfg)
	}

	cli.BootROM = filepath.Join(dir, "missing")
	if _, _, err := cli.Load(nil); err == nil {
		t.Error("expected error for missing ROM")
	}
}
