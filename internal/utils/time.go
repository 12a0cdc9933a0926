package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
)

// NowLocal returns current wall-clock time. All payload datetimes stay in
// local time with no UTC marker; the backend convention is fixed.
func NowLocal() time.Time {
	return time.Now().Local()
}

// ParseDateTimeFlexible accepts the datetime variants older clients send:
// with seconds, without seconds, or date only.
func ParseDateTimeFlexible(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{layoutDateTime, "2006-01-02 15:04", layoutDate} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("format tanggal tidak dikenali: %q", s)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in local timezone.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(layoutDateTime)
}
