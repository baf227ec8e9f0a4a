package visualizer

import "math"

const (
	circleSpokes = 96
	peakDecay    = 0.97
)

// circleStyle is a rotating radial spectrum with slowly falling peak marks.
type circleStyle struct {
	bands []float64
	peaks []float64
}

func newCircleStyle() *circleStyle {
	return &circleStyle{
		bands: make([]float64, circleSpokes),
		peaks: make([]float64, circleSpokes),
	}
}

func (c *circleStyle) Name() string { return "circle" }

func (c *circleStyle) Draw(s Surface, f *FrameContext) {
	radius := math.Min(f.Width, f.Height) * 0.45
	if radius <= 0 {
		return
	}
	logBands(f.Sample.Frequency, c.bands)

	s.Push()
	defer s.Pop()
	s.Translate(f.Width/2, f.Height/2)
	s.Rotate(f.Rotation)

	inner := radius * (0.3 + 0.1*f.Bands.Bass)
	span := radius - inner
	for i, v := range c.bands {
		c.peaks[i] = math.Max(v, c.peaks[i]*peakDecay)
		a := float64(i) * 2 * math.Pi / circleSpokes
		x0, y0 := polar(inner, a)
		x1, y1 := polar(inner+span*v, a)
		col := HSL(f.Hue+float64(i)*360/circleSpokes, 0.8, 0.55, 0.5+0.5*v)
		s.BeginPath()
		s.MoveTo(x0, y0)
		s.LineTo(x1, y1)
		s.Stroke(Solid(col), 2)

		if c.peaks[i] > 0.02 {
			px, py := polar(inner+span*c.peaks[i], a)
			s.BeginPath()
			circlePath(s, px, py, 1.2)
			s.Fill(Solid(col.WithAlpha(0.9)))
		}
	}
}
