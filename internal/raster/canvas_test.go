package raster

import (
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/olivier-w/kaleido/internal/visualizer"
)

func TestNewCanvasIsClearedToBackground(t *testing.T) {
	c := New(8, 6)
	if w, h := c.Size(); w != 8 || h != 6 {
		t.Fatalf("size = %vx%v", w, h)
	}
	got := c.Image().RGBAAt(3, 3)
	if got.R != Background.R || got.G != Background.G || got.B != Background.B {
		t.Fatalf("pixel = %+v, want background", got)
	}
}

func TestFillPaintsInsideTransformedPath(t *testing.T) {
	c := New(40, 40)
	c.Push()
	c.Translate(20, 20)
	c.BeginPath()
	c.MoveTo(-5, -5)
	c.LineTo(5, -5)
	c.LineTo(5, 5)
	c.LineTo(-5, 5)
	c.ClosePath()
	c.Fill(visualizer.Solid(visualizer.HSL(0, 1, 0.5, 1)))
	c.Pop()

	in := c.Image().RGBAAt(20, 20)
	if in.R < 250 || in.G > 5 || in.B > 5 {
		t.Fatalf("centre = %+v, want red", in)
	}
	out := c.Image().RGBAAt(2, 2)
	if out.R != Background.R {
		t.Fatalf("corner = %+v, want untouched", out)
	}
}

func TestGlobalAlphaScalesPaint(t *testing.T) {
	draw := func(alpha float64) color.RGBA {
		c := New(20, 20)
		c.Push()
		c.SetAlpha(alpha)
		c.BeginPath()
		c.MoveTo(0, 0)
		c.LineTo(20, 0)
		c.LineTo(20, 20)
		c.LineTo(0, 20)
		c.ClosePath()
		c.Fill(visualizer.Solid(visualizer.HSL(120, 1, 0.5, 1)))
		c.Pop()
		return c.Image().RGBAAt(10, 10)
	}
	full, half := draw(1), draw(0.5)
	if !(full.G > half.G && half.G > Background.G) {
		t.Fatalf("full %+v half %+v", full, half)
	}
}

func TestPopRestoresAlpha(t *testing.T) {
	c := New(4, 4)
	c.Push()
	c.SetAlpha(0.2)
	c.Push()
	c.SetAlpha(0.9)
	c.Pop()
	if c.alpha != 0.2 {
		t.Fatalf("alpha = %v, want 0.2", c.alpha)
	}
	c.Pop()
	if c.alpha != 1 {
		t.Fatalf("alpha = %v, want 1", c.alpha)
	}
	c.Pop()
}

func TestFadeDarkensTowardBackground(t *testing.T) {
	c := New(10, 10)
	c.BeginPath()
	c.MoveTo(0, 0)
	c.LineTo(10, 0)
	c.LineTo(10, 10)
	c.LineTo(0, 10)
	c.ClosePath()
	c.Fill(visualizer.Solid(visualizer.HSL(0, 0, 1, 1)))
	before := c.Image().RGBAAt(5, 5)
	c.Fade(0.5)
	after := c.Image().RGBAAt(5, 5)
	if !(after.R < before.R && after.R > Background.R) {
		t.Fatalf("before %+v after %+v", before, after)
	}
}

func TestStrokeArcAndGradient(t *testing.T) {
	c := New(50, 50)
	c.Translate(25, 25)
	c.BeginPath()
	c.MoveTo(20, 0)
	c.Arc(0, 0, 20, 0, 2*math.Pi)
	c.Stroke(visualizer.Solid(visualizer.HSL(240, 1, 0.5, 1)), 3)
	if px := c.Image().RGBAAt(45, 25); px.B < 200 {
		t.Fatalf("ring pixel = %+v, want blue", px)
	}

	c.BeginPath()
	c.MoveTo(8, 0)
	c.Arc(0, 0, 8, 0, 2*math.Pi)
	c.Fill(visualizer.Radial(0, 0, 0, 8, visualizer.HSL(60, 1, 0.5, 1), visualizer.HSL(60, 1, 0.5, 0)))
	if px := c.Image().RGBAAt(25, 25); px.R < 200 || px.G < 200 {
		t.Fatalf("gradient centre = %+v, want yellow", px)
	}
}

func TestReleaseMakesCanvasInert(t *testing.T) {
	c := New(10, 10)
	c.Release()
	if w, h := c.Size(); w != 0 || h != 0 {
		t.Fatalf("size after release = %vx%v", w, h)
	}
	c.Fade(1)
	c.Push()
	c.BeginPath()
	c.MoveTo(1, 1)
	c.Fill(visualizer.Solid(visualizer.HSL(0, 1, 0.5, 1)))
	c.Pop()
	c.Release()
	if err := c.SavePNG(filepath.Join(t.TempDir(), "x.png")); !errors.Is(err, ErrReleased) {
		t.Fatalf("SavePNG err = %v", err)
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := New(16, 16).SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("stat: %v", err)
	}
}

func TestLoopDrawsOnCanvas(t *testing.T) {
	src := &toneSource{}
	c := New(96, 96)
	cfg := visualizer.DefaultConfig()
	cfg.Seed = 4
	l, err := visualizer.NewLoop(src, c, cfg)
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}
	for range 10 {
		l.Frame()
	}
	lit := 0
	img := c.Image()
	for y := range 96 {
		for x := range 96 {
			if px := img.RGBAAt(x, y); int(px.R)+int(px.G)+int(px.B) > 120 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("mandala left the canvas dark")
	}
	l.Stop()
	if c.Image() != nil {
		t.Fatal("stop should release the canvas")
	}
}

type toneSource struct{}

func (toneSource) FrequencyBinCount() int { return 512 }
func (toneSource) FFTSize() int           { return 1024 }
func (toneSource) FrequencyMagnitudes(dst []byte) {
	for i := range dst {
		dst[i] = byte(max(0, 230-i))
	}
}
func (toneSource) TimeDomainSamples(dst []byte) {
	for i := range dst {
		dst[i] = byte(128 + 60*math.Sin(float64(i)/8))
	}
}
