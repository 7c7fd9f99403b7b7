package desktop

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sqweek/dialog"
	"golang.design/x/clipboard"

	emucore "github.com/user-none/snowbridge/api"
	"github.com/user-none/snowbridge/input"
)

// Default window geometry before the first frame arrives.
const (
	defaultWidth  = 512
	defaultHeight = 342
)

// Game is the ebiten side of the desktop host: it feeds host input into
// the Host and draws delivered frames.
type Game struct {
	host      *Host
	fb        *SharedFramebuffer
	renderer  *FramebufferRenderer
	notes     *Notification
	mouseMode emucore.MouseMode
	coreName  string
	scale     int
	done      <-chan struct{}
	logger    *slog.Logger

	keys          []ebiten.Key
	lastX, lastY  int
	haveLast      bool
	buttonDown    bool
	screenW       int
	screenH       int
	lastTitle     time.Time
	lastHeartbeat uint64

	clipboardOnce sync.Once
	clipboardErr  error
	pickerOpen    sync.Mutex
}

// NewGame creates the window game. The window closes when done is closed.
func NewGame(host *Host, mouseMode emucore.MouseMode, coreName string, scale int, done <-chan struct{}, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	return &Game{
		host:      host,
		fb:        host.fb,
		renderer:  NewFramebufferRenderer(),
		notes:     host.notes,
		mouseMode: mouseMode,
		coreName:  coreName,
		scale:     scale,
		done:      done,
		logger:    logger,
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}

	g.handleShortcuts()
	g.host.UpdateInput(g.pollInput)
	g.updateTitle()
	return nil
}

func (g *Game) pollInput(in *InputState) {
	x, y := ebiten.CursorPosition()
	if g.haveLast && (x != g.lastX || y != g.lastY) {
		in.HasPosition = true
		in.DeltaX += int32(x - g.lastX)
		in.DeltaY += int32(y - g.lastY)
	}
	if g.mouseMode == emucore.MouseAbsolute {
		_, w, h := g.fb.Read()
		in.X, in.Y = screenToNative(x, y, g.screenW, g.screenH, w, h)
	}
	g.lastX, g.lastY, g.haveLast = x, y, true

	if down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft); down != g.buttonDown {
		g.buttonDown = down
		in.Button = boolToInt(down)
	}

	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		if code, ok := ADBKeyCode(k); ok {
			in.QueueKey(code, true)
		}
	}
	g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
	for _, k := range g.keys {
		if code, ok := ADBKeyCode(k); ok {
			in.QueueKey(code, false)
		}
	}

	speeds := []struct {
		key ebiten.Key
		raw int32
	}{
		{keySpeedAccurate, input.SpeedRawAccurate},
		{keySpeedDynamic, input.SpeedRawDynamic},
		{keySpeedUncapped, input.SpeedRawUncapped},
		{keySpeedVideo, input.SpeedRawVideo},
	}
	for _, s := range speeds {
		if inpututil.IsKeyJustPressed(s.key) {
			in.QueueSpeed(s.raw)
			speed, _ := input.SpeedFromRaw(s.raw)
			g.notes.ShowDefault("Speed: " + speed.String())
		}
	}
}

func (g *Game) handleShortcuts() {
	if inpututil.IsKeyJustPressed(keySaveState) {
		g.host.RequestSave()
	}
	if inpututil.IsKeyJustPressed(keyLoadState) {
		g.host.RequestLoad()
	}
	if inpututil.IsKeyJustPressed(keyCopyFrame) {
		g.copyFrame()
	}
	if inpututil.IsKeyJustPressed(keyInsertCdrom) {
		g.pickCdrom()
	}
}

func (g *Game) copyFrame() {
	g.clipboardOnce.Do(func() {
		g.clipboardErr = clipboard.Init()
	})
	if g.clipboardErr != nil {
		g.logger.Warn("clipboard unavailable", "error", g.clipboardErr)
		g.notes.ShowDefault("Clipboard unavailable")
		return
	}

	data, err := g.fb.EncodePNG()
	if err != nil {
		g.notes.ShowDefault("Nothing to copy")
		return
	}
	clipboard.Write(clipboard.FmtImage, data)
	g.notes.ShowDefault("Screen copied")
}

// pickCdrom opens a file dialog off the ebiten goroutine.
func (g *Game) pickCdrom() {
	if !g.pickerOpen.TryLock() {
		return
	}
	go func() {
		defer g.pickerOpen.Unlock()
		path, err := dialog.File().
			Title("Insert CD-ROM image").
			Filter("Disc images", "iso", "cdr", "toast", "img", "bin").
			Load()
		if err != nil {
			return
		}
		g.host.RequestCdrom(path)
		g.notes.ShowDefault("CD-ROM queued")
	}()
}

func (g *Game) updateTitle() {
	now := time.Now()
	if now.Sub(g.lastTitle) < time.Second {
		return
	}
	beats := g.host.Heartbeats()
	rate := float64(beats-g.lastHeartbeat) / now.Sub(g.lastTitle).Seconds()
	if !g.lastTitle.IsZero() {
		ebiten.SetWindowTitle(fmt.Sprintf("%s - %.0f ticks/s", g.coreName, rate))
	}
	g.lastTitle = now
	g.lastHeartbeat = beats
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	pixels, w, h := g.fb.Read()
	g.renderer.Draw(screen, pixels, w, h)
	g.notes.Draw(screen)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenW, g.screenH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// WindowSize returns the initial window size for the configured scale.
func (g *Game) WindowSize() (int, int) {
	return defaultWidth * g.scale, defaultHeight * g.scale
}
