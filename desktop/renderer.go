package desktop

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// FramebufferRenderer owns the offscreen image and draws frames scaled to
// the window with the aspect ratio preserved.
type FramebufferRenderer struct {
	offscreen *ebiten.Image
	drawOpts  ebiten.DrawImageOptions
}

// NewFramebufferRenderer creates a renderer.
func NewFramebufferRenderer() *FramebufferRenderer {
	return &FramebufferRenderer{}
}

// Draw renders RGBA pixels of the given geometry onto screen.
func (r *FramebufferRenderer) Draw(screen *ebiten.Image, pixels []byte, width, height int) {
	if width == 0 || height == 0 || len(pixels) < width*height*4 {
		return
	}

	if r.offscreen == nil || r.offscreen.Bounds().Dx() != width || r.offscreen.Bounds().Dy() != height {
		r.offscreen = ebiten.NewImage(width, height)
	}
	r.offscreen.WritePixels(pixels[:width*height*4])

	scale, offsetX, offsetY := fitScale(screen.Bounds().Dx(), screen.Bounds().Dy(), width, height)

	r.drawOpts = ebiten.DrawImageOptions{}
	r.drawOpts.GeoM.Scale(scale, scale)
	r.drawOpts.GeoM.Translate(offsetX, offsetY)
	r.drawOpts.Filter = ebiten.FilterNearest
	screen.DrawImage(r.offscreen, &r.drawOpts)
}

// fitScale returns the uniform scale and centering offsets that fit a
// native-sized image into the screen.
func fitScale(screenW, screenH, nativeW, nativeH int) (scale, offsetX, offsetY float64) {
	scaleX := float64(screenW) / float64(nativeW)
	scaleY := float64(screenH) / float64(nativeH)
	scale = min(scaleX, scaleY)
	offsetX = (float64(screenW) - float64(nativeW)*scale) / 2
	offsetY = (float64(screenH) - float64(nativeH)*scale) / 2
	return scale, offsetX, offsetY
}

// screenToNative maps a window coordinate to the emulated display.
func screenToNative(x, y, screenW, screenH, nativeW, nativeH int) (int32, int32) {
	if nativeW == 0 || nativeH == 0 {
		return 0, 0
	}
	scale, offsetX, offsetY := fitScale(screenW, screenH, nativeW, nativeH)
	return int32((float64(x) - offsetX) / scale), int32((float64(y) - offsetY) / scale)
}
