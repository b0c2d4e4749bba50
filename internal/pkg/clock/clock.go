package clock

import "time"

// Clock supplies the current instant in the business time zone.
// Day and month boundaries for attendance and corrections are taken from it.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type systemClock struct {
	loc *time.Location
}

func NewSystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &systemClock{loc: loc}
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *systemClock) Location() *time.Location {
	return c.loc
}

// FixedClock always reports the same instant. Used by tests.
type FixedClock struct {
	At  time.Time
	Loc *time.Location
}

func NewFixedClock(at time.Time, loc *time.Location) *FixedClock {
	return &FixedClock{At: at.In(loc), Loc: loc}
}

func (c *FixedClock) Now() time.Time {
	return c.At.In(c.Loc)
}

func (c *FixedClock) Location() *time.Location {
	return c.Loc
}

// Set moves the fixed clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.At = t.In(c.Loc)
}

// Today returns midnight of the current civil day.
func Today(c Clock) time.Time {
	return DateOf(c.Now(), c.Location())
}

// DateOf truncates t to the civil date in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// SameMonth reports whether a and b fall into the same calendar month in loc.
func SameMonth(a, b time.Time, loc *time.Location) bool {
	la, lb := a.In(loc), b.In(loc)
	return la.Year() == lb.Year() && la.Month() == lb.Month()
}

// MonthRange returns the first and last day of the month containing t.
func MonthRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return first, first.AddDate(0, 1, -1)
}

// SameCalendarMonth compares the year and month fields of a and b as they
// are, without zone conversion. Use it for civil dates read from storage.
func SameCalendarMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
