// internal/core/calendar.go
package core

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// StartOfDayUTC truncates t to midnight of its UTC calendar day. A day is
// identified solely by this instant.
func StartOfDayUTC(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// WeekDay returns the UTC weekday index of t, 0=Sunday..6=Saturday.
func WeekDay(t time.Time) int {
	return int(t.UTC().Weekday())
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight instant.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must use the YYYY-MM-DD format", ErrValidation)
	}
	return parsed, nil
}

// FormatDate renders the UTC calendar date of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// IsPastDay reports whether day falls strictly before today.
func IsPastDay(day, today time.Time) bool {
	return StartOfDayUTC(day).Before(StartOfDayUTC(today))
}

// DatesFromYearStart lists every date from January 1 of today's year up to and
// including today.
func DatesFromYearStart(today time.Time) []time.Time {
	end := StartOfDayUTC(today)
	start := time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return datesBetween(start, end)
}

// MonthDates lists the dates of the given month, stopping at today when the
// month is the current one. Months entirely after today yield no dates.
func MonthDates(year int, month time.Month, today time.Time) ([]time.Time, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", ErrValidation)
	}
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year out of range", ErrValidation)
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	if limit := StartOfDayUTC(today); limit.Before(end) {
		end = limit
	}
	return datesBetween(start, end), nil
}

func datesBetween(start, end time.Time) []time.Time {
	if end.Before(start) {
		return []time.Time{}
	}
	dates := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		dates = append(dates, day)
	}
	return dates
}
