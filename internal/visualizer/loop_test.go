package visualizer

import (
	"errors"
	"math"
	"testing"
)

func newTestLoop(t *testing.T, src AudioSource, surf Surface, q *QualityProfile) *Loop {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 1
	cfg.Quality = q
	l, err := NewLoop(src, surf, cfg)
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}
	return l
}

func TestNewLoopWithoutCollaboratorsIsUnavailable(t *testing.T) {
	if _, err := NewLoop(nil, newRecordSurface(10, 10), DefaultConfig()); !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("nil source: err = %v", err)
	}
	if _, err := NewLoop(newFixedSource(256), nil, DefaultConfig()); !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("nil surface: err = %v", err)
	}
	if _, err := NewLoop((*fixedSource)(nil), newRecordSurface(10, 10), DefaultConfig()); !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("nil *fixedSource: err = %v", err)
	}
	if _, err := NewLoop(newFixedSource(256), (*recordSurface)(nil), DefaultConfig()); !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("nil *recordSurface: err = %v", err)
	}
}

func TestNewLoopRejectsUnknownStyle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Style = "plasma"
	if _, err := NewLoop(newFixedSource(256), newRecordSurface(10, 10), cfg); !errors.Is(err, ErrUnknownStyle) {
		t.Fatalf("err = %v, want ErrUnknownStyle", err)
	}
}

func TestHueWrapsAfterThousandSteps(t *testing.T) {
	h := 0.0
	for range 1000 {
		h = advanceHue(h, 0.5)
	}
	if h != 140 {
		t.Fatalf("hue = %v, want 140", h)
	}

	l := newTestLoop(t, newFixedSource(512), newRecordSurface(64, 64), nil)
	for range 1000 {
		l.Frame()
	}
	if got := l.State().Hue; got != 140 {
		t.Fatalf("loop hue = %v, want 140", got)
	}
}

func TestFrameSkip(t *testing.T) {
	q := Profile(DeviceInfo{Mobile: true})
	surf := newRecordSurface(64, 64)
	l := newTestLoop(t, newFixedSource(512), surf, &q)
	drawn := 0
	for range 10 {
		if l.Frame() {
			drawn++
		}
	}
	if drawn != 5 || l.State().Frame != 5 || l.State().Tick != 10 {
		t.Fatalf("drawn %d, state %+v", drawn, l.State())
	}
	if len(surf.fades) != 5 {
		t.Fatalf("fades = %d, want 5", len(surf.fades))
	}
}

func TestStopReleasesAndHaltsFrames(t *testing.T) {
	surf := newRecordSurface(64, 64)
	l := newTestLoop(t, newFixedSource(512), surf, nil)
	if !l.Frame() {
		t.Fatal("expected first frame to draw")
	}
	l.Stop()
	l.Stop()
	if surf.released != 1 {
		t.Fatalf("released %d times, want 1", surf.released)
	}
	before := l.State()
	if l.Frame() {
		t.Fatal("frame drew after Stop")
	}
	if l.State() != before {
		t.Fatal("state changed after Stop")
	}
}

func TestFadeFollowsEnergy(t *testing.T) {
	if got := fadeAlpha(0); got != fadeMax {
		t.Fatalf("silent fade = %v", got)
	}
	if got := fadeAlpha(1); math.Abs(got-0.08) > 1e-12 {
		t.Fatalf("loud fade = %v, want 0.08", got)
	}
	if fadeAlpha(0.2) <= fadeAlpha(0.8) {
		t.Fatal("louder frames must fade less")
	}
}

func TestEveryStyleDrawsBalanced(t *testing.T) {
	src := newFixedSource(2048)
	src.fillBins(0, 10, 250)
	src.fillBins(10, 200, 120)
	for i := range src.td {
		src.td[i] = byte(128 + 100*math.Sin(float64(i)*0.05))
	}
	for _, name := range StyleNames {
		surf := newRecordSurface(320, 200)
		l := newTestLoop(t, src, surf, nil)
		if err := l.SetStyle(name); err != nil {
			t.Fatalf("SetStyle(%s): %v", name, err)
		}
		for range 400 {
			l.Frame()
			if surf.depth != 0 {
				t.Fatalf("%s: unbalanced Push/Pop, depth %d", name, surf.depth)
			}
		}
		if surf.fills+surf.strokes == 0 {
			t.Fatalf("%s: nothing drawn", name)
		}
		if surf.badPaint {
			t.Fatalf("%s: colour out of range", name)
		}
	}
}

func TestNextStyleCycles(t *testing.T) {
	l := newTestLoop(t, newFixedSource(256), newRecordSurface(10, 10), nil)
	seen := []string{l.StyleName()}
	for range len(StyleNames) {
		seen = append(seen, l.NextStyle())
	}
	for i, name := range StyleNames {
		if seen[i] != name {
			t.Fatalf("style %d = %s, want %s", i, seen[i], name)
		}
	}
	if seen[len(seen)-1] != StyleNames[0] {
		t.Fatalf("expected to wrap back to %s", StyleNames[0])
	}
}

func TestLoopSymmetryStaysInProfile(t *testing.T) {
	q := Profile(DeviceInfo{Mobile: true})
	src := newFixedSource(1024)
	l := newTestLoop(t, src, newRecordSurface(64, 64), &q)
	for frame := range 4000 {
		v := byte(0)
		if frame%13 < 2 {
			v = 255
		}
		src.fillBins(0, 10, v)
		src.fillBins(100, 200, byte(frame%256))
		l.Frame()
		sym := l.State().Transition.CurrentSymmetry
		if sym%2 != 0 || sym < 4 || sym > q.MaxSymmetry {
			t.Fatalf("tick %d: symmetry %d", frame, sym)
		}
	}
}

func TestZeroSizedSurfaceDrawsNothing(t *testing.T) {
	surf := newRecordSurface(0, 0)
	l := newTestLoop(t, newFixedSource(256), surf, nil)
	if l.Frame() {
		t.Fatal("expected no drawing on an empty surface")
	}
	if l.State().Frame != 1 {
		t.Fatalf("frame = %d, want state to advance", l.State().Frame)
	}
}
