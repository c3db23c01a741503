package clock

import "time"

// Clock is the single source of "now" for the planner. Everything that
// distinguishes past from future takes one explicitly.
type Clock interface {
	Now() time.Time
}

// Real reads the system time.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

// Fixed always reports the instant it was last set to.
type Fixed struct {
	current time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{current: t}
}

func (c *Fixed) Now() time.Time {
	return c.current
}

// Set overrides the reported instant.
func (c *Fixed) Set(t time.Time) {
	c.current = t
}

// Advance moves the reported instant forward by d.
func (c *Fixed) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

// Or returns c, or a Real clock when c is nil.
func Or(c Clock) Clock {
	if c == nil {
		return Real{}
	}
	return c
}
