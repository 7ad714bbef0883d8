// Package timex parses the narrow duration format used in configuration:
// a non-negative integer immediately followed by a single unit, one of
// "s", "m", "h" or "d" (e.g. "15m", "30d"). Anything else is rejected so
// that a malformed TTL fails at startup instead of silently defaulting.
package timex

import (
	"fmt"
	"strconv"
	"time"
)

const day = 24 * time.Hour

// ParseDuration converts a string in the narrow <int><unit> format into a
// time.Duration.
func ParseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration %q: want <integer><unit>", s)
	}

	num, unit := s[:len(s)-1], s[len(s)-1:]

	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid duration %q: bad integer part", s)
	}

	switch unit {
	case "s":
		return time.Duration(n) * time.Second, nil
	case "m":
		return time.Duration(n) * time.Minute, nil
	case "h":
		return time.Duration(n) * time.Hour, nil
	case "d":
		return time.Duration(n) * day, nil
	default:
		return 0, fmt.Errorf("invalid duration %q: unknown unit %q", s, unit)
	}
}

// MustParseDuration is ParseDuration that panics on malformed input. Intended
// for configuration defaults known at compile time and for startup paths
// where a bad value must abort the process.
func MustParseDuration(s string) time.Duration {
	d, err := ParseDuration(s)
	if err != nil {
		panic(err)
	}
	return d
}
