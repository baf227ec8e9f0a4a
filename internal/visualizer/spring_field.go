package visualizer

import "github.com/charmbracelet/harmonica"

// springField eases a fixed number of values toward per-frame targets.
// Each value keeps its own position and velocity.
type springField struct {
	spring harmonica.Spring
	state  [][2]float64
}

func newSpringField(n, fps int, frequency, damping float64) *springField {
	return &springField{
		spring: harmonica.NewSpring(harmonica.FPS(max(1, fps)), frequency, damping),
		state:  make([][2]float64, n),
	}
}

// step advances value i one frame toward target and returns its position.
func (s *springField) step(i int, target float64) float64 {
	st := &s.state[i]
	st[0], st[1] = s.spring.Update(st[0], st[1], target)
	return st[0]
}
