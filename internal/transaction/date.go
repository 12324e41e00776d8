package transaction

import "time"

// Date returns the calendar date y-m-d as a time at 00:00 UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf drops the time-of-day of t, keeping the calendar date as seen in t's location.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}

	y, m, d := t.Date()

	return Date(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}

	return t, nil
}

// FormatDate formats a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
