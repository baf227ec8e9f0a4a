package visualizer

import (
	"fmt"
	"math/rand"
)

// PatternID identifies one of the mandala pattern generators.
type PatternID uint8

const (
	PatternSpiral PatternID = iota
	PatternFlower
	PatternStarburst
	PatternNestedCircles
	PatternFractalTree
	PatternWaveRings
	PatternSymmetricalWeb

	patternCount
)

func (p PatternID) String() string {
	switch p {
	case PatternSpiral:
		return "spiral"
	case PatternFlower:
		return "flower"
	case PatternStarburst:
		return "starburst"
	case PatternNestedCircles:
		return "nested circles"
	case PatternFractalTree:
		return "fractal tree"
	case PatternWaveRings:
		return "wave rings"
	case PatternSymmetricalWeb:
		return "web"
	}
	return fmt.Sprintf("pattern(%d)", uint8(p))
}

// Candidate sets by dominant band.
var (
	geometricPatterns = []PatternID{PatternStarburst, PatternNestedCircles, PatternSymmetricalWeb}
	flowingPatterns   = []PatternID{PatternSpiral, PatternFlower, PatternWaveRings}
	detailedPatterns  = []PatternID{PatternFractalTree, PatternSymmetricalWeb, PatternStarburst}
)

func patternsFor(b Band) []PatternID {
	switch b {
	case BandBass:
		return geometricPatterns
	case BandMid:
		return flowingPatterns
	default:
		return detailedPatterns
	}
}

// FractalParams shape the fractal tree.
type FractalParams struct {
	Depth    int
	Scale    float64 // child length / parent length
	Rotation float64 // extra branch spread, radians
}

// PatternInput is everything a pattern generator may read. Generators draw
// one rotational copy in a local frame centred at the origin, spanning the
// angular Sector around the +x axis.
type PatternInput struct {
	Bands      BandEnergies
	Frame      int
	Hue        float64
	Radius     float64
	Sector     float64
	Budget     int
	Fractal    FractalParams
	Quality    QualityProfile
	Frequency  []byte
	TimeDomain []byte
	Rand       *rand.Rand
}

// DrawPattern dispatches to the generator for id.
func DrawPattern(s Surface, id PatternID, in PatternInput) {
	switch id {
	case PatternSpiral:
		drawSpiral(s, in)
	case PatternFlower:
		drawFlower(s, in)
	case PatternStarburst:
		drawStarburst(s, in)
	case PatternNestedCircles:
		drawNestedCircles(s, in)
	case PatternFractalTree:
		drawFractalTree(s, in)
	case PatternWaveRings:
		drawWaveRings(s, in)
	case PatternSymmetricalWeb:
		drawSymmetricalWeb(s, in)
	}
}
