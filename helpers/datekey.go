package helpers

import (
	"regexp"
	"time"
)

const dateKeyLayout = "2006-01-02"

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DayRange is the half-open UTC interval [Start, End) covering one calendar
// day. Using UTC instants keeps date-range queries timezone-agnostic and
// immune to DST transitions.
type DayRange struct {
	Start time.Time
	End   time.Time
}

// parseDateKey accepts only strict YYYY-MM-DD keys that round-trip through
// formatting. The round-trip check rejects calendar-impossible dates such as
// 2024-02-30 that the pattern alone would let through.
func parseDateKey(key string) (time.Time, bool) {
	if !dateKeyPattern.MatchString(key) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dateKeyLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	if t.Format(dateKeyLayout) != key {
		return time.Time{}, false
	}
	return t, true
}

// IsValidDateKey reports whether key is a well-formed, calendar-valid date key.
func IsValidDateKey(key string) bool {
	_, ok := parseDateKey(key)
	return ok
}

// DayRangeForKey maps a date key to its UTC day boundaries. End is exactly
// 24 hours after Start.
func DayRangeForKey(key string) (DayRange, bool) {
	t, ok := parseDateKey(key)
	if !ok {
		return DayRange{}, false
	}
	return DayRange{Start: t, End: t.Add(24 * time.Hour)}, true
}

// ToDateKey truncates an instant to its UTC calendar day key. It is the
// inverse of DayRangeForKey: ToDateKey(range.Start) reproduces the key.
func ToDateKey(t time.Time) string {
	return t.UTC().Format(dateKeyLayout)
}

// FormatDateKey renders a valid date key with the given layout. Invalid keys
// pass through unchanged as a safe fallback for display code.
func FormatDateKey(key, layout string) string {
	t, ok := parseDateKey(key)
	if !ok {
		return key
	}
	return t.Format(layout)
}
