package utils

import (
	"math"
	"time"
)

// TripDuration is the booking duration after applying the org rounding rule.
// Hours is always within [0,7]; a remainder of 8 hours or more counts as a
// full extra day.
type TripDuration struct {
	Days       int     `json:"days"`
	Hours      int     `json:"hours"`
	TotalHours float64 `json:"total_hours"`
}

// CalcTripDuration converts a trip window into days and hours. An end at or
// before start yields the zero duration; that is incomplete input, not an
// error, and the submit validator separately enforces end > start.
func CalcTripDuration(start, end time.Time) TripDuration {
	if !end.After(start) {
		return TripDuration{}
	}

	total := end.Sub(start).Hours()
	days := int(total / 24)
	remainder := total - float64(days)*24

	if remainder >= 8 {
		return TripDuration{Days: days + 1, Hours: 0, TotalHours: total}
	}

	hours := 0
	if remainder > 0 {
		hours = int(math.Ceil(remainder))
	}
	if hours > 7 {
		days++
		hours = 0
	}

	return TripDuration{Days: days, Hours: hours, TotalHours: total}
}
