package visualizer

// waveStyle is an oscilloscope of the time-domain samples.
type waveStyle struct{}

func newWaveStyle() *waveStyle { return &waveStyle{} }

func (w *waveStyle) Name() string { return "wave" }

func (w *waveStyle) Draw(s Surface, f *FrameContext) {
	td := f.Sample.TimeDomain
	if len(td) < 2 || f.Width <= 0 || f.Height <= 0 {
		return
	}
	points := clampInt(len(td), 2, f.Quality.PointDensityCap)
	mid := f.Height / 2
	amp := mid * (0.6 + 0.35*f.Bands.Average)

	s.BeginPath()
	for i := range points {
		t := float64(i) / float64(points-1)
		x := t * f.Width
		y := mid - waveAt(td, t)*amp
		if i == 0 {
			s.MoveTo(x, y)
		} else {
			s.LineTo(x, y)
		}
	}
	c := HSL(f.Hue, 0.85, 0.6, 0.7+0.3*f.Bands.Average)
	glowStroke(s, f.Quality, c, 1.5+2*f.Bands.Bass)
}
