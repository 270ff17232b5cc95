// internal/core/query_params.go
package core

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SummaryRange restricts a summary to [From, To]. Zero values leave that side open.
type SummaryRange struct {
	From time.Time
	To   time.Time
}

// ParseSummaryRange extracts optional 'from' and 'to' dates from query parameters.
func ParseSummaryRange(queryParams url.Values) (*SummaryRange, error) {
	rng := &SummaryRange{}

	if fromStr := queryParams.Get("from"); fromStr != "" {
		from, err := ParseDate(fromStr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid 'from' parameter", ErrValidation)
		}
		rng.From = from
	}

	if toStr := queryParams.Get("to"); toStr != "" {
		to, err := ParseDate(toStr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid 'to' parameter", ErrValidation)
		}
		rng.To = to
	}

	if !rng.From.IsZero() && !rng.To.IsZero() && rng.To.Before(rng.From) {
		return nil, fmt.Errorf("%w: 'to' must not be before 'from'", ErrValidation)
	}
	return rng, nil
}

// CalendarQuery describes which dates a calendar view covers.
type CalendarQuery struct {
	View  string
	Year  int
	Month time.Month
}

// ParseCalendarQuery reads 'view', 'year' and 'month'. defaultView applies when
// 'view' is absent; year and month default to today's.
func ParseCalendarQuery(queryParams url.Values, defaultView string, today time.Time) (*CalendarQuery, error) {
	q := &CalendarQuery{
		View:  defaultView,
		Year:  today.Year(),
		Month: today.Month(),
	}

	if view := strings.ToLower(strings.TrimSpace(queryParams.Get("view"))); view != "" {
		q.View = view
	}
	if !IsValidViewMode(q.View) {
		return nil, fmt.Errorf("%w: 'view' must be 'year' or 'month'", ErrValidation)
	}

	if yearStr := queryParams.Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid 'year' parameter: must be an integer", ErrValidation)
		}
		q.Year = year
	}

	if monthStr := queryParams.Get("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			return nil, fmt.Errorf("%w: invalid 'month' parameter: must be between 1 and 12", ErrValidation)
		}
		q.Month = time.Month(month)
	}

	return q, nil
}

// Dates enumerates the dates covered by the query. The current year ends
// today; earlier years are complete and later years are empty.
func (q *CalendarQuery) Dates(today time.Time) ([]time.Time, error) {
	if q.View == ViewModeMonth {
		return MonthDates(q.Year, q.Month, today)
	}
	if q.Year < 1 || q.Year > 9999 {
		return nil, fmt.Errorf("%w: year out of range", ErrValidation)
	}
	if q.Year == today.Year() {
		return DatesFromYearStart(today), nil
	}
	start := time.Date(q.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(q.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
	if q.Year > today.Year() {
		end = start.AddDate(0, 0, -1)
	}
	return datesBetween(start, end), nil
}
