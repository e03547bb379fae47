package helpers

import (
	"testing"
	"time"
)

func TestDayRangeForKey(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		valid bool
	}{
		{"regular day", "2024-03-15", true},
		{"leap day", "2024-02-29", true},
		{"year boundary", "2023-12-31", true},
		{"impossible day", "2024-02-30", false},
		{"non-leap feb 29", "2023-02-29", false},
		{"month 13", "2024-13-01", false},
		{"day zero", "2024-01-00", false},
		{"missing zero padding", "2024-1-05", false},
		{"slashes", "2024/01/05", false},
		{"trailing text", "2024-01-05x", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, ok := DayRangeForKey(tt.key)
			if ok != tt.valid {
				t.Fatalf("DayRangeForKey(%q) ok = %v, want %v", tt.key, ok, tt.valid)
			}
			if !tt.valid {
				return
			}
			if day.Start.Location() != time.UTC {
				t.Errorf("start not in UTC: %v", day.Start)
			}
			if h, m, sec := day.Start.Clock(); h != 0 || m != 0 || sec != 0 {
				t.Errorf("start is not midnight: %v", day.Start)
			}
			if got := day.End.Sub(day.Start); got != 24*time.Hour {
				t.Errorf("interval length = %v, want 24h", got)
			}
		})
	}
}

func TestToDateKeyRoundTrip(t *testing.T) {
	keys := []string{"2024-01-01", "2024-02-29", "2024-12-31", "1999-06-15"}
	for _, key := range keys {
		day, ok := DayRangeForKey(key)
		if !ok {
			t.Fatalf("DayRangeForKey(%q) unexpectedly invalid", key)
		}
		if got := ToDateKey(day.Start); got != key {
			t.Errorf("ToDateKey(start of %q) = %q", key, got)
		}
	}
}

func TestToDateKeyTruncates(t *testing.T) {
	instant := time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC)
	if got := ToDateKey(instant); got != "2024-03-15" {
		t.Errorf("ToDateKey = %q, want 2024-03-15", got)
	}

	// Non-UTC instants map to their UTC day
	sydney := time.FixedZone("AEST", 10*3600)
	instant = time.Date(2024, 3, 15, 5, 0, 0, 0, sydney) // 2024-03-14T19:00Z
	if got := ToDateKey(instant); got != "2024-03-14" {
		t.Errorf("ToDateKey = %q, want 2024-03-14", got)
	}
}

func TestFormatDateKey(t *testing.T) {
	if got := FormatDateKey("2024-03-15", "January 2, 2006"); got != "March 15, 2024" {
		t.Errorf("FormatDateKey = %q", got)
	}

	// Invalid keys pass through unchanged
	if got := FormatDateKey("2024-02-30", "January 2, 2006"); got != "2024-02-30" {
		t.Errorf("invalid key changed: %q", got)
	}
	if got := FormatDateKey("not-a-date", "January 2, 2006"); got != "not-a-date" {
		t.Errorf("invalid key changed: %q", got)
	}
}

func TestIsValidDateKey(t *testing.T) {
	if !IsValidDateKey("2024-03-15") {
		t.Error("2024-03-15 should be valid")
	}
	if IsValidDateKey("2024-02-30") {
		t.Error("2024-02-30 should be invalid")
	}
}
