package visualizer

import "math"

const barCount = 48

// barsStyle draws a mirrored spectrum of log-spaced bands, spring smoothed.
type barsStyle struct {
	bands  []float64
	smooth *springField
}

func newBarsStyle(fps int) *barsStyle {
	return &barsStyle{
		bands:  make([]float64, barCount),
		smooth: newSpringField(barCount, fps, 9.0, 0.75),
	}
}

func (b *barsStyle) Name() string { return "bars" }

func (b *barsStyle) Draw(s Surface, f *FrameContext) {
	if f.Width <= 0 || f.Height <= 0 {
		return
	}
	logBands(f.Sample.Frequency, b.bands)

	mid := f.Height / 2
	slot := f.Width / barCount
	width := math.Max(1, slot*0.7)
	for i, v := range b.bands {
		h := clamp01(b.smooth.step(i, v)) * mid * 0.95
		if h < 0.5 {
			continue
		}
		x := (float64(i) + 0.5) * slot
		t := float64(i) / barCount
		c := HSL(f.Hue+t*240, 0.8, 0.45+0.25*v, 0.6+0.4*v)
		s.BeginPath()
		s.MoveTo(x, mid-h)
		s.LineTo(x, mid+h)
		glowStroke(s, f.Quality, c, width)
	}
}

// logBands averages freq into len(dst) logarithmically spaced bands, scaled
// to [0,1]. Bin 0 (DC) is skipped.
func logBands(freq []byte, dst []float64) {
	n := len(dst)
	maxBin := len(freq)
	for b := range n {
		if maxBin < 2 {
			dst[b] = 0
			continue
		}
		lo := int(math.Pow(float64(maxBin), float64(b)/float64(n)))
		hi := int(math.Pow(float64(maxBin), float64(b+1)/float64(n)))
		lo = max(lo, 1)
		if hi <= lo {
			hi = lo + 1
		}
		hi = min(hi, maxBin)
		if lo >= hi {
			dst[b] = 0
			continue
		}
		dst[b] = bandMean(freq, lo, hi)
	}
}
