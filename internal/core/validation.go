// internal/core/validation.go
package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ErrValidation marks input that failed validation. Messages wrapped around
// it are safe to return to the caller.
var ErrValidation = errors.New("validation failed")

// MaxTitleLength bounds habit titles (in characters).
const MaxTitleLength = 255

// View modes for the calendar summary.
const (
	ViewModeYear  = "year"
	ViewModeMonth = "month"
)

// NormalizeTitle trims a habit title and checks its length.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", fmt.Errorf("%w: title is required", ErrValidation)
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return "", fmt.Errorf("%w: title must be at most %d characters", ErrValidation, MaxTitleLength)
	}
	return trimmed, nil
}

// NormalizeWeekDays checks that every entry lies in [0,6] and returns the set
// sorted without duplicates. An empty set is rejected.
func NormalizeWeekDays(weekDays []int) ([]int, error) {
	if len(weekDays) == 0 {
		return nil, fmt.Errorf("%w: at least one week day is required", ErrValidation)
	}
	seen := make(map[int]bool, len(weekDays))
	normalized := make([]int, 0, len(weekDays))
	for _, day := range weekDays {
		if day < 0 || day > 6 {
			return nil, fmt.Errorf("%w: week day %d is outside 0-6", ErrValidation, day)
		}
		if seen[day] {
			continue
		}
		seen[day] = true
		normalized = append(normalized, day)
	}
	sort.Ints(normalized)
	return normalized, nil
}

// ContainsWeekDay reports whether weekDays includes day.
func ContainsWeekDay(weekDays []int, day int) bool {
	for _, d := range weekDays {
		if d == day {
			return true
		}
	}
	return false
}

// ParseID validates a UUID string and returns its canonical form.
func ParseID(value string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%w: malformed id", ErrValidation)
	}
	return parsed.String(), nil
}

// IsValidViewMode reports whether mode is a supported calendar view.
func IsValidViewMode(mode string) bool {
	return mode == ViewModeYear || mode == ViewModeMonth
}
