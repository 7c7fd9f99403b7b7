// Package bridge couples a tick-driven emulator core to a host runtime.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	emucore "github.com/user-none/snowbridge/api"
	"github.com/user-none/snowbridge/audio"
	"github.com/user-none/snowbridge/bridge/config"
	"github.com/user-none/snowbridge/hostif"
	"github.com/user-none/snowbridge/input"
	"github.com/user-none/snowbridge/media"
	"github.com/user-none/snowbridge/snapshot"
	"github.com/user-none/snowbridge/video"
)

// Runner owns one emulator and the per-tick host plumbing around it.
type Runner struct {
	emu       emucore.Emulator
	info      emucore.SystemInfo
	surface   *hostif.Surface
	sink      *audio.Sink
	video     *video.Sender
	input     *input.Receiver
	snapshots *snapshot.Controller
	cdrom     *media.CdromManager
	disks     []*media.DiskImage
	logger    *slog.Logger
	ticks     uint64
}

// NewRunner creates the emulator from rom and performs startup: the audio
// sink is installed, fixed disks attach at SCSI ids 0 upward, the CD-ROM
// drive attaches at its configured id, floppies are inserted and the core
// is told to run. A nil logger uses slog.Default().
func NewRunner(factory emucore.CoreFactory, p hostif.Primitives, rom []byte, cfg *config.Config, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	model := cfg.EmulatorModel()
	info := factory.SystemInfo(model)

	emu, err := factory.CreateEmulator(rom, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create emulator: %w", err)
	}

	s := hostif.NewSurface(p)
	r := &Runner{
		emu:       emu,
		info:      info,
		surface:   s,
		video:     video.NewSender(s, emu.Frames()),
		input:     input.NewReceiver(s, emu.CommandSender(), cfg.EmulatorMouseMode(), logger),
		snapshots: snapshot.NewController(s, emu, logger),
		logger:    logger,
	}

	ac := audio.DefaultConfig()
	if info.AudioBufferSize > 0 {
		ac.CoreBufferSize = info.AudioBufferSize
	}
	if info.AudioQueueLen > 0 {
		ac.CoreQueueLen = info.AudioQueueLen
	}
	r.sink = audio.NewSink(s, cfg.ApplyAudio(ac))
	emu.SetAudioSink(r.sink)

	if err := r.startup(cfg, factory.FloppyLoader()); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *Runner) startup(cfg *config.Config, loader emucore.FloppyLoader) error {
	for id, name := range cfg.Disks {
		img, err := media.OpenDiskImage(r.surface, name)
		if err != nil {
			return err
		}
		r.disks = append(r.disks, img)
		if err := r.emu.AttachDisk(img, id); err != nil {
			return fmt.Errorf("failed to attach disk %s at SCSI ID #%d: %w", name, id, err)
		}
		r.logger.Info("disk attached", "name", name, "scsi_id", id)
	}

	cdrom, err := media.NewCdromManager(r.surface, r.emu, cfg.CdromSCSIID(), cfg.Cdrom.Images,
		media.WithPollInterval(cfg.Cdrom.PollInterval), media.WithLogger(r.logger))
	if err != nil {
		r.logger.Error("CD-ROM drive unavailable", "error", err)
	} else {
		r.cdrom = cdrom
	}

	if len(cfg.Floppies) > 0 && loader == nil {
		return errors.New("core provides no floppy loader")
	}
	for drive, name := range cfg.Floppies {
		if r.info.FloppyDrives > 0 && drive >= r.info.FloppyDrives {
			r.logger.Warn("no drive left for floppy, skipping", "name", name, "drives", r.info.FloppyDrives)
			continue
		}
		img, err := media.LoadFloppy(r.surface, loader, name)
		if err != nil {
			return err
		}
		if err := r.emu.InsertFloppy(img, drive); err != nil {
			return fmt.Errorf("failed to insert floppy %s: %w", name, err)
		}
		r.logger.Info("floppy inserted", "name", name, "title", img.Title(), "drive", drive)
	}

	_ = r.emu.CommandSender().Send(emucore.RunCommand{})
	return nil
}

// SystemInfo returns the metadata of the running model.
func (r *Runner) SystemInfo() emucore.SystemInfo {
	return r.info
}

// Emulator returns the driven core.
func (r *Runner) Emulator() emucore.Emulator {
	return r.emu
}

// Cdrom returns the hotplug manager, or nil when no drive could attach.
func (r *Runner) Cdrom() *media.CdromManager {
	return r.cdrom
}

// Ticks returns the number of completed iterations.
func (r *Runner) Ticks() uint64 {
	return r.ticks
}

// Step runs one iteration: the core advances one tick, then frames, input,
// snapshot requests, CD-ROM hotplug and host periodic tasks are serviced
// in that order.
func (r *Runner) Step() error {
	if err := r.emu.Tick(1); err != nil {
		return fmt.Errorf("emulator tick: %w", err)
	}

	r.video.Tick()
	r.input.Tick()
	r.snapshots.Poll()

	if r.cdrom != nil {
		var status *emucore.Status
		if st, ok := r.emu.Status(); ok {
			status = &st
		}
		r.cdrom.Tick(status)
	}

	r.surface.CheckPeriodicTasks()
	r.ticks++
	return nil
}

// Run steps until the core fails or ctx is done. A tick error is logged
// and returned; cancellation returns ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Step(); err != nil {
			r.logger.Error("emulation stopped", "error", err, "ticks", r.ticks)
			return err
		}
	}
}

// Close stops the core and releases the fixed disk handles.
func (r *Runner) Close() {
	r.emu.Close()
	for _, d := range r.disks {
		d.Close()
	}
	r.disks = nil
}
