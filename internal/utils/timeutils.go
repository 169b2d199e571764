package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Millis converts a duration to whole milliseconds.
func Millis(d time.Duration) int64 {
	return d.Milliseconds()
}

// FromMillis converts milliseconds to a duration.
func FromMillis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// ParseMillisOrDuration accepts either a plain millisecond count ("120000") or a Go
// duration string ("2m").
func ParseMillisOrDuration(value string) (time.Duration, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, fmt.Errorf("empty duration value")
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return FromMillis(ms), nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse duration: %w", err)
	}
	return d, nil
}
