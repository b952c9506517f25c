// Package clock provides an injectable time source so services never
// read the wall clock directly and tests can pin time.
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location. The shop runs on
// Vietnam time regardless of where the server is deployed.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock creates a clock for the given IANA timezone name.
// Falls back to UTC if the zone cannot be loaded.
func NewSystemClock(timezone string) *SystemClock {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return &SystemClock{loc: loc}
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Fixed is a Clock that always returns the same instant. Test helper.
type Fixed struct {
	Time time.Time
}

func (f Fixed) Now() time.Time {
	return f.Time
}
