package visualizer

import (
	"math/rand"
	"testing"
)

func fractalInput(depth int, rng *rand.Rand) PatternInput {
	return PatternInput{
		Bands:   BandEnergies{Bass: 0.8, LowMid: 0.5, HighMid: 0.5, Treble: 0.5, Average: 0.6},
		Frame:   42,
		Radius:  200,
		Sector:  1,
		Budget:  100,
		Fractal: FractalParams{Depth: depth, Scale: 0.7, Rotation: 0.3},
		Rand:    rng,
	}
}

func TestFractalTreeTerminatesWithExtraBranchesAlwaysTaken(t *testing.T) {
	want := map[int]int{1: 3, 2: 10, 3: 31, 4: 94}
	for depth := 1; depth <= MaxFractalDepth; depth++ {
		segs := buildFractalTree(fractalInput(depth, rand.New(zeroSource{})))
		if len(segs) != want[depth] {
			t.Fatalf("depth %d: %d segments, want %d", depth, len(segs), want[depth])
		}
		if len(segs) > fractalSegmentBound(depth) {
			t.Fatalf("depth %d: %d segments exceeds bound %d", depth, len(segs), fractalSegmentBound(depth))
		}
	}
}

func TestFractalTreeWithoutRandomIsBinary(t *testing.T) {
	for depth := 1; depth <= MaxFractalDepth; depth++ {
		segs := buildFractalTree(fractalInput(depth, nil))
		if want := 1<<(depth+1) - 1; len(segs) != want {
			t.Fatalf("depth %d: %d segments, want %d", depth, len(segs), want)
		}
	}
}

func TestFractalDepthIsCapped(t *testing.T) {
	in := fractalInput(12, rand.New(zeroSource{}))
	if got := fractalDepth(in); got != MaxFractalDepth {
		t.Fatalf("depth = %d, want %d", got, MaxFractalDepth)
	}
	in.Quality.MaxFractalDepth = 3
	if got := fractalDepth(in); got != 3 {
		t.Fatalf("depth = %d, want quality cap 3", got)
	}
	in.Fractal.Depth = -1
	if got := fractalDepth(in); got != 1 {
		t.Fatalf("depth = %d, want 1", got)
	}

	segs := buildFractalTree(fractalInput(12, rand.New(zeroSource{})))
	for _, s := range segs {
		if s.depth < 0 || s.depth > MaxFractalDepth {
			t.Fatalf("segment depth %d out of range", s.depth)
		}
	}
}

func TestDrawFractalTreeStrokesEverySegment(t *testing.T) {
	in := fractalInput(4, rand.New(zeroSource{}))
	s := newRecordSurface(400, 400)
	drawFractalTree(s, in)
	if s.strokes != 94 {
		t.Fatalf("strokes = %d, want 94", s.strokes)
	}
	if s.badPaint {
		t.Fatal("fractal tree produced an out-of-range colour")
	}
}
