package util

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration as m:ss, or h:mm:ss from one hour up.
// Negative durations format as zero.
func FormatDuration(d time.Duration) string {
	total := max(0, int(d/time.Second))
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatRate formats a frame rate for the status line.
func FormatRate(fps float64) string {
	if fps <= 0 {
		return "-- fps"
	}
	return fmt.Sprintf("%.0f fps", fps)
}
