package domain

import "fmt"

// FormatSeconds converts seconds to M:SS
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatDuration converts milliseconds to M:SS
func FormatDuration(ms int64) string {
	return FormatSeconds(float64(ms / 1000))
}
