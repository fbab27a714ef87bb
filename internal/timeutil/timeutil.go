package timeutil

import (
	"fmt"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// MonthLayout is the key format used for month-wide result lookups.
const MonthLayout = "2006-01"

// ParseDate parses a YYYY-MM-DD date string as a UTC calendar date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD using its UTC fields.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// MonthKey returns the YYYY-MM month a date string falls in.
func MonthKey(date string) (string, error) {
	parsed, err := ParseDate(date)
	if err != nil {
		return "", fmt.Errorf("month key: %w", err)
	}
	return parsed.Format(MonthLayout), nil
}

// MonthRange returns the first and last calendar dates of a YYYY-MM month.
func MonthRange(month string) (string, string, error) {
	start, err := time.Parse(MonthLayout, month)
	if err != nil {
		return "", "", fmt.Errorf("month range: %w", err)
	}
	end := start.AddDate(0, 1, -1)
	return start.Format(DateLayout), end.Format(DateLayout), nil
}

// saturdayOffset is the number of days from t to the Saturday of its match weekend.
// Sunday belongs to the Saturday just passed.
func saturdayOffset(t time.Time) int {
	wd := int(t.Weekday())
	if wd == int(time.Sunday) {
		return -1
	}
	return (6 - wd) % 7
}

// UpcomingMatchDates returns the Saturday and Sunday of the current match weekend in UTC.
func UpcomingMatchDates(now time.Time) (string, string) {
	day := now.UTC()
	saturday := day.AddDate(0, 0, saturdayOffset(day))
	sunday := saturday.AddDate(0, 0, 1)
	return FormatDate(saturday), FormatDate(sunday)
}

// WeekOf returns the Saturday that identifies the match weekend of a game date.
func WeekOf(date string) (string, error) {
	parsed, err := ParseDate(date)
	if err != nil {
		return "", fmt.Errorf("week of: %w", err)
	}
	return FormatDate(parsed.AddDate(0, 0, saturdayOffset(parsed))), nil
}
