package ui

import (
	"fmt"
	"strings"

	"github.com/olivier-w/kaleido/internal/visualizer"
)

func renderProgressBar(elapsed, total float64, width int) string {
	if width < 10 {
		width = 10
	}
	barWidth := width - 2

	var ratio float64
	if total > 0 {
		ratio = elapsed / total
	}
	ratio = max(0, min(1, ratio))

	filled := int(ratio * float64(barWidth))
	return strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)
}

// renderEngineState summarizes the mandala's current choices.
func renderEngineState(style string, st visualizer.EngineState, tier string) string {
	if style != "mandala" {
		return fmt.Sprintf("%s · beat %.2f", tier, st.Confidence)
	}
	tr := st.Transition
	pattern := tr.CurrentPattern.String()
	if tr.PatternTransitioning() {
		pattern += " → " + tr.TargetPattern.String()
	}
	sym := fmt.Sprintf("×%d", tr.CurrentSymmetry)
	if tr.SymmetryTransitioning() {
		sym += fmt.Sprintf("→%d", tr.TargetSymmetry)
	}
	return fmt.Sprintf("%s · %s · %s · beat %.2f", pattern, sym, tier, st.Confidence)
}
