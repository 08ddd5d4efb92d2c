package util

import "time"

const (
	// DateFormat is the standard date format for display.
	DateFormat = "2006-01-02"

	// DateTimeFormat is the standard datetime format for display.
	DateTimeFormat = "2006-01-02 15:04:05"
)

// FormatDate formats a time as a date string.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// FormatDateTime formats a time as a datetime string.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeFormat)
}

// StartOfDay returns midnight of the given day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
