package visualizer

import "testing"

func TestProfileTiers(t *testing.T) {
	cases := []struct {
		dev  DeviceInfo
		tier string
		sym  int
		skip int
	}{
		{DeviceInfo{Cores: 16, Mobile: true}, "mobile", 6, 2},
		{DeviceInfo{Cores: 1}, "low", 8, 2},
		{DeviceInfo{Cores: 2}, "low", 8, 2},
		{DeviceInfo{Cores: 4}, "mid", 12, 1},
		{DeviceInfo{Cores: 12}, "high", 16, 1},
	}
	for _, tc := range cases {
		q := Profile(tc.dev)
		if q.Tier != tc.tier || q.MaxSymmetry != tc.sym || q.FrameSkip != tc.skip {
			t.Fatalf("%+v: got %+v", tc.dev, q)
		}
		if q.MaxFractalDepth > MaxFractalDepth {
			t.Fatalf("%s: fractal depth %d above cap", q.Tier, q.MaxFractalDepth)
		}
	}
	if q := Profile(DeviceInfo{Mobile: true}); q.UseBlur || q.UseGradients || q.EnableAdvancedEffects {
		t.Fatalf("mobile should disable effects: %+v", q)
	}
	if q := Profile(DeviceInfo{Cores: 32}); !q.UseBlur || !q.UseGradients || !q.EnableAdvancedEffects {
		t.Fatalf("high should enable effects: %+v", q)
	}
}

func TestNormalizeRepairsCustomProfile(t *testing.T) {
	q := QualityProfile{MaxSymmetry: 9, MaxFractalDepth: 10}.normalize()
	if q.MaxSymmetry != 8 || q.FrameSkip != 1 || q.MaxFractalDepth != MaxFractalDepth || q.PointDensityCap < 16 || q.Tier != "custom" {
		t.Fatalf("normalized = %+v", q)
	}
	if q := (QualityProfile{MaxSymmetry: 2}).normalize(); q.MaxSymmetry != 4 {
		t.Fatalf("max symmetry = %d, want 4", q.MaxSymmetry)
	}
}
