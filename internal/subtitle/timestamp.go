package subtitle

import (
	"fmt"
	"math"
)

// FormatTimestamp renders seconds as HH:MM:SS,mmm. Hours are not wrapped
// and grow past two digits when needed; milliseconds are truncated.
func FormatTimestamp(seconds float64) string {
	return formatClock(seconds, ',')
}

// FormatVTTTimestamp renders seconds as HH:MM:SS.mmm.
func FormatVTTTimestamp(seconds float64) string {
	return formatClock(seconds, '.')
}

func formatClock(seconds float64, sep byte) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	// a relative tolerance of a few thousand ulps absorbs the error of the
	// multiplication, so 5.456 stays 456ms while 1.0009999999 stays 000ms
	millisFloat := seconds * 1000
	totalMillis := int64(math.Floor(millisFloat + millisFloat*1e-12))
	millis := totalMillis % 1000
	total := totalMillis / 1000

	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, secs, sep, millis)
}
