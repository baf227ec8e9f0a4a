package visualizer

import "math"

// Surface is the 2D raster target the engine draws on. Path semantics follow
// an HTML canvas: BeginPath clears the current path, Fill and Stroke paint it
// without clearing, Push and Pop save and restore the transform and the
// global alpha. Angles are radians.
type Surface interface {
	Size() (w, h float64)

	// Fade paints a translucent full-surface rectangle in the background
	// colour, leaving older content visible as trails.
	Fade(alpha float64)

	Push()
	Pop()
	Translate(x, y float64)
	Rotate(angle float64)
	// SetAlpha sets the global opacity multiplier applied to every paint.
	SetAlpha(a float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(cx, cy, x, y float64)
	CubeTo(c1x, c1y, c2x, c2y, x, y float64)
	Arc(x, y, r, start, end float64)
	ClosePath()

	Fill(p Paint)
	Stroke(p Paint, width float64)

	// Release frees the backing raster. Later calls are ignored.
	Release()
}

// Paint is either a solid colour or, when Gradient is set, a radial gradient.
type Paint struct {
	Color    HSLA
	Gradient *RadialGradient
}

// RadialGradient is centred at (CX, CY) in the current local frame.
type RadialGradient struct {
	CX, CY float64
	R0, R1 float64
	Stops  []GradientStop
}

type GradientStop struct {
	Offset float64
	Color  HSLA
}

// Solid returns a solid paint.
func Solid(c HSLA) Paint {
	return Paint{Color: c}
}

// Radial returns a two-stop gradient paint from inner to outer.
func Radial(cx, cy, r0, r1 float64, inner, outer HSLA) Paint {
	return Paint{
		Color: inner,
		Gradient: &RadialGradient{
			CX: cx, CY: cy, R0: r0, R1: r1,
			Stops: []GradientStop{{Offset: 0, Color: inner}, {Offset: 1, Color: outer}},
		},
	}
}

func circlePath(s Surface, x, y, r float64) {
	s.MoveTo(x+r, y)
	s.Arc(x, y, r, 0, 2*math.Pi)
	s.ClosePath()
}

// glowStroke strokes the current path, with a wide translucent under-stroke
// when blur is enabled.
func glowStroke(s Surface, q QualityProfile, c HSLA, width float64) {
	if q.UseBlur {
		s.Stroke(Solid(c.Fade(0.25)), width*3)
	}
	s.Stroke(Solid(c), width)
}

// discPaint picks a gradient or a solid fill depending on quality.
func discPaint(q QualityProfile, cx, cy, r float64, inner, outer HSLA) Paint {
	if q.UseGradients {
		return Radial(cx, cy, 0, r, inner, outer)
	}
	return Solid(inner.Fade(0.6))
}

func polar(r, angle float64) (float64, float64) {
	return r * math.Cos(angle), r * math.Sin(angle)
}
