package routing

import (
	"fmt"
	"strconv"
	"sync"
)

// timeParseCache memoizes ParseGTFSTime results. The loader parses the
// same wall-clock strings (e.g. "08:05:00") repeatedly across every
// stop-time row that shares a departure, so caching avoids redoing the
// strconv work on every one of them.
var timeParseCache sync.Map // string -> int

// ParseGTFSTime converts a GTFS-style "HH:MM:SS" string to seconds since
// midnight. HH may exceed 23 to express post-midnight service on the
// same operating day (e.g. "25:10:00" is 1:10am the following calendar
// day, still counted against the prior service day).
func ParseGTFSTime(s string) (int, error) {
	if cached, ok := timeParseCache.Load(s); ok {
		return cached.(int), nil
	}

	if len(s) < 7 || s[2] != ':' || s[5] != ':' {
		return 0, fmt.Errorf("routing: malformed time %q", s)
	}

	h, err := strconv.Atoi(s[0:2])
	if err != nil {
		return 0, fmt.Errorf("routing: malformed time %q: %w", s, err)
	}
	m, err := strconv.Atoi(s[3:5])
	if err != nil {
		return 0, fmt.Errorf("routing: malformed time %q: %w", s, err)
	}
	sec, err := strconv.Atoi(s[6:])
	if err != nil {
		return 0, fmt.Errorf("routing: malformed time %q: %w", s, err)
	}
	if m < 0 || m > 59 || sec < 0 || sec > 59 || h < 0 {
		return 0, fmt.Errorf("routing: malformed time %q", s)
	}

	seconds := h*3600 + m*60 + sec
	timeParseCache.Store(s, seconds)
	return seconds, nil
}

// SecondsToGTFSTime is the inverse of ParseGTFSTime, used for display
// (API responses, logs). HH may be printed above 23.
func SecondsToGTFSTime(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
