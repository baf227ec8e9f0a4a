// Package raster implements the visualizer's drawing surface on an RGBA
// image using gg.
package raster

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/olivier-w/kaleido/internal/visualizer"
)

var ErrReleased = errors.New("raster: canvas released")

// Background is the colour Clear paints and Fade blends toward.
var Background = color.NRGBA{R: 6, G: 4, B: 14, A: 255}

// Canvas is a visualizer.Surface backed by an in-memory image. Path
// coordinates are fixed when they are added, as on an HTML canvas.
type Canvas struct {
	img   *image.RGBA
	dc    *gg.Context
	alpha float64
	saved []float64
}

var _ visualizer.Surface = (*Canvas)(nil)

// New returns a w×h canvas cleared to Background.
func New(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize replaces the backing image, clearing it. It also revives a
// released canvas.
func (c *Canvas) Resize(w, h int) {
	w, h = max(1, w), max(1, h)
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
	c.dc = gg.NewContextForRGBA(c.img)
	c.alpha = 1
	c.saved = c.saved[:0]
	c.Clear()
}

// Clear paints the whole image with Background.
func (c *Canvas) Clear() {
	if c.dc == nil {
		return
	}
	c.dc.SetColor(Background)
	c.dc.Clear()
}

func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) SavePNG(path string) error {
	if c.dc == nil {
		return ErrReleased
	}
	return c.dc.SavePNG(path)
}

func (c *Canvas) Size() (float64, float64) {
	if c.img == nil {
		return 0, 0
	}
	b := c.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (c *Canvas) Fade(alpha float64) {
	if c.dc == nil || alpha <= 0 {
		return
	}
	w, h := c.Size()
	bg := Background
	bg.A = uint8(math.Min(1, alpha)*255 + 0.5)
	c.dc.Push()
	c.dc.Identity()
	c.dc.ClearPath()
	c.dc.DrawRectangle(0, 0, w, h)
	c.dc.SetColor(bg)
	c.dc.Fill()
	c.dc.Pop()
}

func (c *Canvas) Push() {
	if c.dc == nil {
		return
	}
	c.dc.Push()
	c.saved = append(c.saved, c.alpha)
}

func (c *Canvas) Pop() {
	if c.dc == nil || len(c.saved) == 0 {
		return
	}
	c.dc.Pop()
	c.alpha = c.saved[len(c.saved)-1]
	c.saved = c.saved[:len(c.saved)-1]
}

func (c *Canvas) Translate(x, y float64) {
	if c.dc != nil {
		c.dc.Translate(x, y)
	}
}

func (c *Canvas) Rotate(angle float64) {
	if c.dc != nil {
		c.dc.Rotate(angle)
	}
}

func (c *Canvas) SetAlpha(a float64) {
	c.alpha = math.Max(0, math.Min(1, a))
}

func (c *Canvas) BeginPath() {
	if c.dc != nil {
		c.dc.ClearPath()
	}
}

func (c *Canvas) MoveTo(x, y float64) {
	if c.dc != nil {
		c.dc.MoveTo(x, y)
	}
}

func (c *Canvas) LineTo(x, y float64) {
	if c.dc != nil {
		c.dc.LineTo(x, y)
	}
}

func (c *Canvas) QuadTo(cx, cy, x, y float64) {
	if c.dc != nil {
		c.dc.QuadraticTo(cx, cy, x, y)
	}
}

func (c *Canvas) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	if c.dc != nil {
		c.dc.CubicTo(c1x, c1y, c2x, c2y, x, y)
	}
}

func (c *Canvas) Arc(x, y, r, start, end float64) {
	if c.dc != nil && r > 0 {
		c.dc.DrawArc(x, y, r, start, end)
	}
}

func (c *Canvas) ClosePath() {
	if c.dc != nil {
		c.dc.ClosePath()
	}
}

func (c *Canvas) Fill(p visualizer.Paint) {
	if c.dc == nil || c.alpha <= 0 {
		return
	}
	c.dc.SetFillStyle(c.pattern(p))
	c.dc.FillPreserve()
}

func (c *Canvas) Stroke(p visualizer.Paint, width float64) {
	if c.dc == nil || c.alpha <= 0 || width <= 0 {
		return
	}
	c.dc.SetStrokeStyle(c.pattern(p))
	c.dc.SetLineWidth(width)
	c.dc.StrokePreserve()
}

// Release drops the image. Drawing calls after Release do nothing.
func (c *Canvas) Release() {
	c.img = nil
	c.dc = nil
	c.saved = nil
}

// pattern converts p to a gg pattern with the global alpha applied. Gradient
// centres are mapped to device space; radii assume the transform has no
// scale, which holds for the rotations and translations the engine uses.
func (c *Canvas) pattern(p visualizer.Paint) gg.Pattern {
	if p.Gradient == nil {
		return gg.NewSolidPattern(p.Color.Fade(c.alpha).NRGBA())
	}
	g := p.Gradient
	x, y := c.dc.TransformPoint(g.CX, g.CY)
	grad := gg.NewRadialGradient(x, y, g.R0, x, y, g.R1)
	for _, st := range g.Stops {
		grad.AddColorStop(st.Offset, st.Color.Fade(c.alpha).NRGBA())
	}
	return grad
}
