package utils

import (
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates (borrow/return dates)
const DateLayout = "2006-01-02"

// ParseDate parses "YYYY-MM-DD" into a UTC midnight
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// DateOnly truncates t to its calendar day in UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
