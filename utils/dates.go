package utils

import "time"

// DayBounds returns local midnight and the last millisecond of t's day.
func DayBounds(t time.Time) (start, end time.Time) {
	tt := t.In(time.Local)
	start = time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.Local)
	end = start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}

// DayBoundsMillis is DayBounds as Unix milliseconds, the unit meals are
// stored in.
func DayBoundsMillis(t time.Time) (int64, int64) {
	start, end := DayBounds(t)
	return start.UnixMilli(), end.UnixMilli()
}
