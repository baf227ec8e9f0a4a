package visualizer

import "math/rand"

// FrameContext is what a style sees for one frame. It is rebuilt by the loop
// every frame and must not be retained.
type FrameContext struct {
	Frame      int
	Hue        float64
	Rotation   float64
	Bands      BandEnergies
	Trend      float64
	Beat       bool
	Confidence float64
	Transition TransitionState
	Quality    QualityProfile
	Sample     SampleFrame
	Width      float64
	Height     float64
	Rand       *rand.Rand
}

// Style is one of the visual variants sharing the frame and surface
// contract. Styles may keep smoothing state between frames.
type Style interface {
	Name() string
	Draw(s Surface, f *FrameContext)
}

// StyleNames lists the styles in cycling order.
var StyleNames = []string{"mandala", "bars", "wave", "circle", "rings"}

// Styles returns a fresh instance of every style in cycling order. fps sizes
// the spring smoothing some styles use.
func Styles(fps int) []Style {
	if fps <= 0 {
		fps = 30
	}
	return []Style{
		newMandalaStyle(fps),
		newBarsStyle(fps),
		newWaveStyle(),
		newCircleStyle(),
		newRingsStyle(fps),
	}
}

// LookupStyle reports the cycling index of name.
func LookupStyle(name string) (int, bool) {
	for i, n := range StyleNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}
