package core

import (
	"regexp"
	"time"
)

const dateLayout = "2006-01-02"

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// NormalizeDate parses a date value and returns it as an ISO YYYY-MM-DD
// string. Plain dates and RFC 3339 timestamps are accepted.
func NormalizeDate(value string) (string, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t.Format(dateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC().Format(dateLayout), nil
	}
	return "", &InvalidDateError{Value: value}
}

// NormalizeTime validates a 24-hour HH:MM time-of-day string.
func NormalizeTime(value string) (string, error) {
	if !timePattern.MatchString(value) {
		return "", &InvalidTimeError{Value: value}
	}
	return value, nil
}

// MinutesBetween returns end minus start in minutes for two normalized
// HH:MM values. The result may be negative; callers validate the sign.
func MinutesBetween(start, end string) int {
	sh := int(start[0]-'0')*10 + int(start[1]-'0')
	sm := int(start[3]-'0')*10 + int(start[4]-'0')
	eh := int(end[0]-'0')*10 + int(end[1]-'0')
	em := int(end[3]-'0')*10 + int(end[4]-'0')
	return eh*60 + em - (sh*60 + sm)
}

// ISOWeekday returns the ISO weekday of a normalized date: Monday=1 through
// Sunday=7.
func ISOWeekday(date string) int {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0
	}
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// formatDate renders a timestamp as its UTC calendar date.
func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// addDays shifts a normalized date by the given number of calendar days.
func addDays(date string, days int) string {
	t, _ := time.Parse(dateLayout, date)
	return t.AddDate(0, 0, days).Format(dateLayout)
}

// monthBounds returns the first and last date of a YYYY-MM month.
func monthBounds(month string) (first, last string, err error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return "", "", validationf("invalid month format, expected YYYY-MM: %q", month)
	}
	first = t.Format(dateLayout)
	last = t.AddDate(0, 1, -1).Format(dateLayout)
	return first, last, nil
}

func clampInt(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

func clampFloat(n, min, max float64) float64 {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
