// Package clock abstracts the ambient current-time source so that frame and
// report arithmetic stays deterministic under test. Production code uses
// RealClock; tests define fixed clocks in their own files.
package clock

import "time"

// Clock is the minimal time capability threaded through the core.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

var _ Clock = RealClock{}
