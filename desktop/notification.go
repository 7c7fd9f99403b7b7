package desktop

import (
	"bytes"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	notificationPadding = 8
	notificationMargin  = 12
	notificationSize    = 14
)

var (
	fontOnce sync.Once
	fontFace text.Face
)

func notificationFace() text.Face {
	fontOnce.Do(func() {
		source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			slog.Error("failed to load font source", "error", err)
			return
		}
		fontFace = &text.GoTextFace{Source: source, Size: notificationSize}
	})
	return fontFace
}

// Notification shows one short message in the bottom-right corner.
type Notification struct {
	mu        sync.Mutex
	message   string
	startTime time.Time
	duration  time.Duration
	now       func() time.Time

	bg *ebiten.Image
}

// NewNotification creates an empty notification.
func NewNotification() *Notification {
	return &Notification{now: time.Now}
}

// Show displays message for duration, replacing any current message.
func (n *Notification) Show(message string, duration time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.message = message
	n.startTime = n.now()
	n.duration = duration
}

// ShowDefault displays message for three seconds.
func (n *Notification) ShowDefault(message string) {
	n.Show(message, 3*time.Second)
}

// Current returns the visible message, or "" when none is showing.
func (n *Notification) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.message == "" || n.now().Sub(n.startTime) >= n.duration {
		return ""
	}
	return n.message
}

// Draw renders the visible message, if any.
func (n *Notification) Draw(screen *ebiten.Image) {
	message := n.Current()
	face := notificationFace()
	if message == "" || face == nil {
		return
	}

	textWidth, textHeight := text.Measure(message, face, 0)
	bgWidth := int(textWidth) + notificationPadding*2
	bgHeight := int(textHeight) + notificationPadding*2
	bgX := screen.Bounds().Dx() - bgWidth - notificationMargin
	bgY := screen.Bounds().Dy() - bgHeight - notificationMargin

	if n.bg == nil || n.bg.Bounds().Dx() < bgWidth || n.bg.Bounds().Dy() < bgHeight {
		n.bg = ebiten.NewImage(bgWidth, bgHeight)
	}
	n.bg.Clear()
	n.bg.Fill(color.RGBA{0x20, 0x20, 0x20, 153})

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(float64(bgX), float64(bgY))
	screen.DrawImage(n.bg.SubImage(image.Rect(0, 0, bgWidth, bgHeight)).(*ebiten.Image), opts)

	textOpts := &text.DrawOptions{}
	textOpts.GeoM.Translate(float64(bgX+notificationPadding), float64(bgY+notificationPadding))
	textOpts.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, message, face, textOpts)
}
