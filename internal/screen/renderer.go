// Package screen presents raster frames in a terminal.
package screen

import (
	"image"
	"strings"

	"github.com/muesli/termenv"
)

// Renderer converts an RGBA frame into a terminal string. With colour it
// packs two pixel rows per cell using "▀" with the top pixel as foreground
// and the bottom as background. Without colour each cell is a brightness
// character averaged over the same two pixel rows.
type Renderer struct {
	pal *palette
	sb  strings.Builder
}

// NewRenderer detects the colour profile from the environment.
func NewRenderer() *Renderer {
	return NewRendererFor(termenv.EnvColorProfile())
}

func NewRendererFor(p termenv.Profile) *Renderer {
	return &Renderer{pal: newPalette(p)}
}

// Color reports whether the renderer emits colour escapes.
func (r *Renderer) Color() bool { return r.pal.color() }

// CanvasSize is the pixel size to draw at for a cols×rows cell area. Both
// modes use two pixel rows per cell so shapes keep their proportions.
func CanvasSize(cols, rows int) (int, int) {
	return max(1, cols), max(1, rows*2)
}

// Render samples img nearest-neighbour into cols×rows cells. Rows are
// separated by newlines with no trailing newline.
func (r *Renderer) Render(img *image.RGBA, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 || img.Bounds().Empty() {
		return ""
	}
	r.sb.Reset()
	if r.pal.color() {
		r.sb.Grow(cols * rows * 40)
		r.renderHalfBlock(img, cols, rows)
	} else {
		r.sb.Grow((cols + 1) * rows)
		r.renderASCII(img, cols, rows)
	}
	return r.sb.String()
}

func (r *Renderer) renderHalfBlock(img *image.RGBA, cols, rows int) {
	var lastFg, lastBg string
	for row := range rows {
		for col := range cols {
			tr, tg, tb := sample(img, col, row*2, cols, rows*2)
			br, bgc, bb := sample(img, col, row*2+1, cols, rows*2)

			if fg := r.pal.seq(tr, tg, tb, false); fg != lastFg {
				r.sb.WriteString(fg)
				lastFg = fg
			}
			if bg := r.pal.seq(br, bgc, bb, true); bg != lastBg {
				r.sb.WriteString(bg)
				lastBg = bg
			}
			r.sb.WriteString("▀")
		}
		r.sb.WriteString(ansiReset)
		lastFg, lastBg = "", ""
		if row < rows-1 {
			r.sb.WriteByte('\n')
		}
	}
}

func (r *Renderer) renderASCII(img *image.RGBA, cols, rows int) {
	for row := range rows {
		for col := range cols {
			top := luminance(sample(img, col, row*2, cols, rows*2))
			bot := luminance(sample(img, col, row*2+1, cols, rows*2))
			r.sb.WriteByte(brightnessChar(uint8((int(top) + int(bot)) / 2)))
		}
		if row < rows-1 {
			r.sb.WriteByte('\n')
		}
	}
}

// sample maps cell pixel (x, y) of a w×h grid onto img.
func sample(img *image.RGBA, x, y, w, h int) (uint8, uint8, uint8) {
	b := img.Bounds()
	sx := b.Min.X + x*b.Dx()/w
	sy := b.Min.Y + y*b.Dy()/h
	off := img.PixOffset(sx, sy)
	p := img.Pix[off : off+3 : off+3]
	return p[0], p[1], p[2]
}
