package utils

import (
	"testing"
	"time"
)

func TestCalcTripDuration(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)

	cases := []struct {
		name  string
		end   time.Time
		days  int
		hours int
	}{
		{"six hours", base.Add(6 * time.Hour), 0, 6},
		{"partial hour rounds up", base.Add(5*time.Hour + 30*time.Minute), 0, 6},
		{"seven hours stays hours", base.Add(7 * time.Hour), 0, 7},
		{"seven and a half rolls to a day", base.Add(7*time.Hour + 30*time.Minute), 1, 0},
		{"eight hours is a day", base.Add(8*time.Hour + 30*time.Minute), 1, 0},
		{"one day three hours", base.Add(27 * time.Hour), 1, 3},
		{"remainder of eight adds a day", base.Add(32 * time.Hour), 2, 0},
		{"exact days", base.Add(48 * time.Hour), 2, 0},
	}

	for _, tc := range cases {
		got := CalcTripDuration(base, tc.end)
		if got.Days != tc.days || got.Hours != tc.hours {
			t.Fatalf("%s: got %dd %dh, want %dd %dh", tc.name, got.Days, got.Hours, tc.days, tc.hours)
		}
	}
}

func TestCalcTripDurationInvalidWindow(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)

	for _, end := range []time.Time{base, base.Add(-time.Hour)} {
		got := CalcTripDuration(base, end)
		if got.Days != 0 || got.Hours != 0 || got.TotalHours != 0 {
			t.Fatalf("end %v: want zero duration, got %+v", end, got)
		}
	}
}
