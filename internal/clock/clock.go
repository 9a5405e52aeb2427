package clock

import "time"

// Clock abstracts time lookups so row timestamps are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// Real is a Clock backed by the system clock.
type Real struct{}

// Now returns the current time.
func (Real) Now() time.Time { return time.Now() }

// Mock is a Clock pinned to a fixed instant.
type Mock struct {
	T time.Time
}

// Now returns the pinned instant.
func (m Mock) Now() time.Time { return m.T }
