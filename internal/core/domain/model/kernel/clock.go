package kernel

import "time"

// Clock supplies the current instant. Operations read it once and reuse the value.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

// Now returns c.At.
func (c FixedClock) Now() time.Time {
	return c.At
}
