package visualizer

import "math"

const (
	maxPetals    = 8
	maxWaveRings = 6
)

// drawSpiral traces one Archimedean arm whose reach follows the bass and
// whose edge wobbles with the waveform.
func drawSpiral(s Surface, in PatternInput) {
	b := in.Bands
	points := clampInt(40+int(b.Average*160), 16, in.Budget)
	turns := 0.6 + b.LowMid*0.9
	reach := in.Radius * (0.55 + b.Bass*0.4)
	phase := float64(in.Frame) * 0.015
	wobble := 4 + 10*b.Treble

	s.BeginPath()
	for i := 0; i <= points; i++ {
		t := float64(i) / float64(points)
		a := t*turns*math.Pi + math.Sin(phase+t*3)*0.1
		r := t*reach + waveAt(in.TimeDomain, t)*wobble*t
		x, y := polar(r, a)
		if i == 0 {
			s.MoveTo(x, y)
		} else {
			s.LineTo(x, y)
		}
	}
	c := HSL(in.Hue+40*b.HighMid, 0.8, 0.5+0.2*b.HighMid, 0.35+0.6*b.Average)
	glowStroke(s, in.Quality, c, 1+2*b.Bass)

	if !in.Quality.EnableAdvancedEffects {
		return
	}
	dots := clampInt(points/12, 3, 12)
	for i := 1; i <= dots; i++ {
		t := float64(i) / float64(dots)
		a := t*turns*math.Pi + math.Sin(phase+t*3)*0.1
		x, y := polar(t*reach, a)
		s.BeginPath()
		circlePath(s, x, y, 1+3*sampleAt(in.Frequency, t*0.5))
		s.Fill(Solid(c.Shift(30 * t).WithAlpha(0.5 + 0.5*b.Treble)))
	}
}

// drawFlower fans petals across the sector. Petal length follows the bass
// and width the high mids.
func drawFlower(s Surface, in PatternInput) {
	b := in.Bands
	petals := clampInt(2+int(b.LowMid*6), 2, maxPetals)
	layers := 1
	if in.Quality.EnableAdvancedEffects {
		layers = 2
	}
	pulse := 1 + 0.05*math.Sin(float64(in.Frame)*0.08)

	for layer := range layers {
		scale := 1 - 0.4*float64(layer)
		length := in.Radius * (0.35 + 0.45*b.Bass) * scale * pulse
		width := length * (0.18 + 0.22*b.HighMid)
		hue := in.Hue + float64(layer)*50
		for p := range petals {
			a := -in.Sector/2 + (float64(p)+0.5)*in.Sector/float64(petals)
			mag := sampleAt(in.Frequency, float64(p)/float64(petals)*0.3)
			l := length * (0.7 + 0.3*mag)

			tipX, tipY := polar(l, a)
			lx, ly := polar(l*0.5, a)
			nx, ny := -math.Sin(a)*width, math.Cos(a)*width

			s.BeginPath()
			s.MoveTo(0, 0)
			s.QuadTo(lx+nx, ly+ny, tipX, tipY)
			s.QuadTo(lx-nx, ly-ny, 0, 0)
			s.ClosePath()

			inner := HSL(hue, 0.85, 0.55, 0.25+0.5*b.Average)
			outer := HSL(hue+60*mag, 0.9, 0.65, 0.1)
			s.Fill(discPaint(in.Quality, 0, 0, l, inner, outer))
			s.Stroke(Solid(inner.Shift(20).WithAlpha(0.4+0.5*b.HighMid)), 0.8+b.Bass)
		}
	}
}

// drawWaveRings draws ring arcs whose radius oscillates with a whole number of
// periods per sector, so neighbouring copies join into closed rings.
func drawWaveRings(s Surface, in PatternInput) {
	b := in.Bands
	rings := clampInt(2+int(b.Treble*4)+int(b.Average*2), 2, maxWaveRings)
	segs := clampInt(in.Budget/8, 12, 64)
	amp := 3 + 14*b.Treble
	phase := float64(in.Frame) * 0.05

	for k := range rings {
		base := in.Radius * (0.25 + 0.6*float64(k+1)/float64(rings+1))
		lobes := float64(1 + k%3)
		s.BeginPath()
		for i := 0; i <= segs; i++ {
			t := float64(i) / float64(segs)
			a := -in.Sector/2 + t*in.Sector
			r := base +
				math.Sin(t*2*math.Pi*lobes+phase+float64(k))*amp*(0.4+b.Bass) +
				waveAt(in.TimeDomain, t)*amp*0.5
			x, y := polar(r, a)
			if i == 0 {
				s.MoveTo(x, y)
			} else {
				s.LineTo(x, y)
			}
		}
		c := HSL(in.Hue+float64(k)*25, 0.75, 0.5+0.15*b.Treble, 0.3+0.5*b.Average)
		glowStroke(s, in.Quality, c, 0.8+1.5*b.HighMid)
	}
}
