package util

import "time"

// html input type="datetime-local"
const inputTimeLayout = "2006-01-02T15:04"

// ParseInputTime parses a string like "2006-01-02T15:04" to a unix timestamp.
func ParseInputTime(ts string) (int64, error) {
	t, err := time.ParseInLocation(inputTimeLayout, ts, time.Local)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// FormatInputTime is the inverse of ParseInputTime. Zero yields an empty string.
func FormatInputTime(ts int64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).Format(inputTimeLayout)
}
