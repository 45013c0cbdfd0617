package format

import "fmt"

// Clock renders elapsed milliseconds as mm:ss.cc for timers, reports and
// entry rows. Negative or absent values render as the placeholder.
func Clock(ms int64) string {
	if ms < 0 {
		return "--:--"
	}
	totalSeconds := ms / 1000
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60
	centis := (ms % 1000) / 10
	return fmt.Sprintf("%02d:%02d.%02d", minutes, seconds, centis)
}
