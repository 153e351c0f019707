package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// ClockLayout documents the canonical game clock format (MM:SS).
const ClockLayout = "MM:SS"

// ParseClock converts a game clock string like "12:34" into seconds.
func ParseClock(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock %q (expected %s)", value, ClockLayout)
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil || minutes < 0 {
		return 0, fmt.Errorf("invalid clock minutes %q", value)
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("invalid clock seconds %q", value)
	}
	return minutes*60 + seconds, nil
}

// FormatClock renders seconds as a MM:SS clock string.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ClockLabel flattens a clock string into a filename-safe label,
// e.g. period 2 at "05:42" becomes "p2_0542".
func ClockLabel(period int, clock string) string {
	flat := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		default:
			return -1
		}
	}, clock)
	if flat == "" {
		flat = "0000"
	}
	if period < 1 {
		period = 1
	}
	return fmt.Sprintf("p%d_%s", period, flat)
}
