package visualizer

const (
	historySize  = 8
	trendWindow  = 3
	beatRingSize = 5
)

// EnergyHistory keeps the most recent overall-energy samples, oldest first.
type EnergyHistory struct {
	buf [historySize]float64
	n   int
	w   int
}

// Push appends v, dropping the oldest sample once full.
func (h *EnergyHistory) Push(v float64) {
	h.buf[h.w] = v
	h.w = (h.w + 1) % historySize
	if h.n < historySize {
		h.n++
	}
}

func (h *EnergyHistory) Len() int { return h.n }

// at returns the i-th sample counting from the oldest.
func (h *EnergyHistory) at(i int) float64 {
	start := (h.w - h.n + historySize) % historySize
	return h.buf[(start+i)%historySize]
}

// Trend is the mean of the newest three samples minus the mean of the
// oldest three. Positive means rising energy. With fewer samples the windows
// shrink and overlap; an empty history has no trend.
func (h *EnergyHistory) Trend() float64 {
	if h.n == 0 {
		return 0
	}
	k := min(trendWindow, h.n)
	var oldest, newest float64
	for i := range k {
		oldest += h.at(i)
		newest += h.at(h.n - 1 - i)
	}
	return (newest - oldest) / float64(k)
}
