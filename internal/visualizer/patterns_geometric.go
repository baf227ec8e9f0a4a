package visualizer

import "math"

const (
	maxRays      = 40
	maxRings     = 8
	maxWebLevels = 7
)

// drawStarburst emits rays across the sector, each as long as the spectrum
// bin it samples.
func drawStarburst(s Surface, in PatternInput) {
	b := in.Bands
	rays := clampInt(6+int(b.Treble*34), 4, maxRays)
	inner := in.Radius * (0.12 + 0.08*b.Bass)
	width := 0.8 + 1.5*b.HighMid

	for i := range rays {
		t := (float64(i) + 0.5) / float64(rays)
		a := -in.Sector/2 + t*in.Sector
		mag := sampleAt(in.Frequency, t*0.6)
		outer := inner + in.Radius*(0.2+0.6*mag)*(0.6+0.4*b.Bass)

		x0, y0 := polar(inner, a)
		x1, y1 := polar(outer, a)
		s.BeginPath()
		s.MoveTo(x0, y0)
		s.LineTo(x1, y1)
		c := HSL(in.Hue+t*72, 0.85, 0.55+0.2*mag, 0.3+0.6*mag)
		glowStroke(s, in.Quality, c, width)

		if in.Quality.EnableAdvancedEffects && mag > 0.5 {
			s.BeginPath()
			circlePath(s, x1, y1, 1+2*mag)
			s.Fill(Solid(c.WithAlpha(mag)))
		}
	}
}

// drawNestedCircles lays concentric arcs over the sector with a bead on the
// sector axis at each ring.
func drawNestedCircles(s Surface, in PatternInput) {
	b := in.Bands
	rings := clampInt(3+int(b.Average*6), 3, maxRings)
	breathe := 0.6 + 0.3*b.Bass + 0.05*math.Sin(float64(in.Frame)*0.03)

	for k := 1; k <= rings; k++ {
		t := float64(k) / float64(rings)
		r := in.Radius * t * breathe
		mag := sampleAt(in.Frequency, t*0.4)

		s.BeginPath()
		s.Arc(0, 0, r, -in.Sector/2, in.Sector/2)
		c := HSL(in.Hue+t*90, 0.7, 0.5, 0.2+0.5*b.LowMid)
		glowStroke(s, in.Quality, c, 0.6+1.2*mag)

		bead := in.Radius * 0.1 * (0.4 + mag) * (1 - 0.5*t)
		s.BeginPath()
		circlePath(s, r, 0, bead)
		inner := HSL(in.Hue+t*90+30, 0.9, 0.6, 0.4+0.5*mag)
		s.Fill(discPaint(in.Quality, r, 0, bead, inner, inner.WithAlpha(0)))
	}
}

// drawSymmetricalWeb spans sagging threads between the sector edges and a
// radial spoke along the axis.
func drawSymmetricalWeb(s Surface, in PatternInput) {
	b := in.Bands
	levels := clampInt(3+int(b.HighMid*5), 3, maxWebLevels)
	reach := in.Radius * (0.7 + 0.3*b.Bass)
	half := in.Sector / 2
	c := HSL(in.Hue+180, 0.6, 0.6+0.2*b.Treble, 0.25+0.55*b.Average)

	s.BeginPath()
	s.MoveTo(0, 0)
	s.LineTo(reach, 0)
	s.Stroke(Solid(c.Fade(0.7)), 0.6)

	for k := 1; k <= levels; k++ {
		r := reach * float64(k) / float64(levels)
		sag := 1 - (0.08+0.12*b.LowMid)*(1+waveAt(in.TimeDomain, float64(k)/float64(levels)))
		x0, y0 := polar(r, -half)
		x1, y1 := polar(r, half)
		s.BeginPath()
		s.MoveTo(x0, y0)
		s.QuadTo(r*sag, 0, x1, y1)
		glowStroke(s, in.Quality, c.Shift(float64(k)*12), 0.6+b.HighMid)

		if in.Quality.EnableAdvancedEffects {
			s.BeginPath()
			circlePath(s, r*(1+sag)/2, 0, 0.8+2*b.Treble)
			s.Fill(Solid(c.Shift(40).WithAlpha(0.6)))
		}
	}
}
