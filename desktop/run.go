// Package desktop runs the bridge in a native window, standing in for the
// web worker host during development.
package desktop

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"

	emucore "github.com/user-none/snowbridge/api"
	"github.com/user-none/snowbridge/audio"
	"github.com/user-none/snowbridge/bridge"
	"github.com/user-none/snowbridge/internal/logger"
)

// Run parses os.Args, opens the window and runs the bridge on its own
// goroutine until the window closes or the core stops.
func Run(factory emucore.CoreFactory) error {
	if err := logger.Setup(moduleRoot()); err != nil {
		return err
	}

	cli, err := bridge.ParseCLI("snowbridge", os.Args[1:])
	if err != nil {
		return err
	}
	rom, cfg, err := cli.Load(slog.Default())
	if err != nil {
		return err
	}

	var capture *WAVCapture
	if cfg.Desktop.WAVCapture != "" {
		ac := audio.DefaultConfig()
		capture, err = NewWAVCapture(cfg.Desktop.WAVCapture, int(ac.SampleRate), int(ac.Channels))
		if err != nil {
			return err
		}
	}

	host := NewHost(
		NewFileStore(cfg.Desktop.MediaDir, slog.Default()),
		NewAudioPlayer(capture),
		NewSharedFramebuffer(),
		NewNotification(),
		NewSnapshotStore(filepath.Join(cfg.Desktop.MediaDir, "snapshots")),
		slog.Default(),
	)
	defer host.Close()

	runner, err := bridge.NewRunner(factory, host, rom, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer runner.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := runner.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	game := NewGame(host, cfg.EmulatorMouseMode(), runner.SystemInfo().CoreName, cfg.Desktop.Scale, gctx.Done(), slog.Default())
	ebiten.SetWindowTitle(runner.SystemInfo().CoreName)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(game.WindowSize())
	if cfg.EmulatorMouseMode() == emucore.MouseRelativeHW {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	}

	uiErr := ebiten.RunGame(game)
	cancel()
	if err := g.Wait(); err != nil {
		return err
	}
	return uiErr
}

func moduleRoot() string {
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Dir(filepath.Dir(thisFile))
}
