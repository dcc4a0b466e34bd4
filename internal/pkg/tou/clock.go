package tou

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is also the end-of-day sentinel "24:00".
const MinutesPerDay = 24 * 60

var (
	errClockFormat = errors.New("expected HH:MM")
	errClockRange  = errors.New("out of range")
)

// ParseClock converts "HH:MM" into minutes since midnight.
// "24:00" is accepted as the end-of-day boundary and yields MinutesPerDay.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, errClockFormat
	}
	h, err := parseDigits(hh)
	if err != nil {
		return 0, errClockFormat
	}
	m, err := parseDigits(mm)
	if err != nil {
		return 0, errClockFormat
	}
	if m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, errClockRange
	}
	return h*60 + m, nil
}

// FormatClock is the inverse of ParseClock.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// parseDigits rejects signs, which strconv.Atoi would otherwise accept.
func parseDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}
