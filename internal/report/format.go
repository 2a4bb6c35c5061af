package report

import (
	"fmt"
	"time"
)

// formatPercent returns a percentage string for report output.
func formatPercent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

func formatMs(ms float64) string {
	return fmt.Sprintf("%.0f ms", ms)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
