// internal/core/clock.go
package core

import "time"

// Clock supplies the current instant. Handlers and storage derive "today"
// from it so tests can pin the date.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// Today returns the UTC day start of the clock's current instant.
func Today(c Clock) time.Time {
	return StartOfDayUTC(c.Now())
}
