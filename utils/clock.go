package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidClock reports whether s is a zero-padded "HH:mm" clock string.
// Zero-padded clock strings order correctly under plain string comparison,
// which the availability and conflict checks rely on.
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// ClockToMinutes converts "HH:mm" to minutes from midnight.
func ClockToMinutes(s string) (int, error) {
	if !ValidClock(s) {
		return 0, fmt.Errorf("invalid time %q, expected HH:mm", s)
	}
	parts := strings.SplitN(s, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h*60 + m, nil
}

// MinutesToClock converts minutes from midnight back to "HH:mm".
func MinutesToClock(mins int) string {
	mins = ((mins % 1440) + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// AddToClock offsets a clock string by the given number of minutes, wrapping at
// midnight. Overnight spans are not supported upstream, so a wrapped end time
// may read earlier than its start.
func AddToClock(s string, mins int) (string, error) {
	base, err := ClockToMinutes(s)
	if err != nil {
		return "", err
	}
	return MinutesToClock(base + mins), nil
}
