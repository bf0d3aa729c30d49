package shared

import (
	"math"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used for every business date.
// Lexicographic order of formatted dates equals chronological order.
const DateLayout = "2006-01-02"

// FormatDate renders t as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date in loc
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ValidateDate returns ErrInvalidDate unless s is a YYYY-MM-DD date
func ValidateDate(s string) error {
	_, err := ParseDate(s, time.UTC)
	return err
}

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CeilDays returns the number of days from `from` to `to`, rounded up
func CeilDays(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

// AddDays shifts an ISO date by n days; invalid input is returned unchanged
func AddDays(date string, n int) string {
	t, err := ParseDate(date, time.UTC)
	if err != nil {
		return date
	}
	return FormatDate(t.AddDate(0, 0, n))
}
