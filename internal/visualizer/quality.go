package visualizer

// MaxFractalDepth bounds fractal tree recursion for every profile.
const MaxFractalDepth = 4

// QualityProfile holds the rendering-cost knobs chosen once at start.
type QualityProfile struct {
	Tier                  string
	PointDensityCap       int
	FrameSkip             int
	MaxSymmetry           int
	MaxFractalDepth       int
	UseBlur               bool
	UseGradients          bool
	EnableAdvancedEffects bool
}

// DeviceInfo is the host's description of the machine.
type DeviceInfo struct {
	Cores  int
	Mobile bool
}

// Profile selects a quality tier. It is meant to run once per session.
func Profile(dev DeviceInfo) QualityProfile {
	switch {
	case dev.Mobile:
		return QualityProfile{
			Tier:            "mobile",
			PointDensityCap: 120,
			FrameSkip:       2,
			MaxSymmetry:     6,
			MaxFractalDepth: 3,
		}
	case dev.Cores <= 2:
		return QualityProfile{
			Tier:            "low",
			PointDensityCap: 180,
			FrameSkip:       2,
			MaxSymmetry:     8,
			MaxFractalDepth: 3,
			UseGradients:    true,
		}
	case dev.Cores <= 4:
		return QualityProfile{
			Tier:                  "mid",
			PointDensityCap:       320,
			FrameSkip:             1,
			MaxSymmetry:           12,
			MaxFractalDepth:       4,
			UseGradients:          true,
			EnableAdvancedEffects: true,
		}
	default:
		return QualityProfile{
			Tier:                  "high",
			PointDensityCap:       500,
			FrameSkip:             1,
			MaxSymmetry:           16,
			MaxFractalDepth:       4,
			UseBlur:               true,
			UseGradients:          true,
			EnableAdvancedEffects: true,
		}
	}
}

// normalize repairs hand-built profiles: symmetry cap even and at least 4,
// frame skip at least 1, fractal depth within [1, MaxFractalDepth].
func (q QualityProfile) normalize() QualityProfile {
	q.MaxSymmetry = max(4, q.MaxSymmetry&^1)
	q.FrameSkip = max(1, q.FrameSkip)
	q.PointDensityCap = max(16, q.PointDensityCap)
	q.MaxFractalDepth = clampInt(q.MaxFractalDepth, 1, MaxFractalDepth)
	if q.Tier == "" {
		q.Tier = "custom"
	}
	return q
}
