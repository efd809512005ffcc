package domain

import "time"

// Layouts used for completion markers and summary dates.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"
)

// DefaultTimeZone is the fleet's local time zone.
const DefaultTimeZone = "Asia/Yangon"

// Clock returns the current time in the fleet time zone.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock creates a Clock for loc. A nil now uses time.Now.
func NewClock(loc *time.Location, now func() time.Time) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Clock{loc: loc, now: now}
}

// Now returns the current time in the fleet time zone.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the current date formatted with DateLayout.
func (c *Clock) Today() string {
	return c.Now().Format(DateLayout)
}

// Location returns the clock's time zone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// FormatTimestamp formats t as a completion marker.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
