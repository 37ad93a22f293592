package clock

import "time"

// Clocker is the time source handed to code that checks expiries.
type Clocker interface {
	Now() time.Time
}

// TimeClocker reads the system clock.
type TimeClocker struct{}

// New returns the system clock.
func New() *TimeClocker {
	return &TimeClocker{}
}

// Now returns time.Now.
func (*TimeClocker) Now() time.Time {
	return time.Now()
}

// FixedClocker always reports the same instant.
type FixedClocker struct {
	at time.Time
}

// NewFixed returns a clock stopped at at.
func NewFixed(at time.Time) *FixedClocker {
	return &FixedClocker{at: at}
}

// NewFixedUnix returns a clock stopped at the given unix second.
func NewFixedUnix(sec int64) *FixedClocker {
	return NewFixed(time.Unix(sec, 0))
}

// Now returns the fixed instant.
func (c *FixedClocker) Now() time.Time {
	return c.at
}
