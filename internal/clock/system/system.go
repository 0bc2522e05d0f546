// Package system provides a real clock implementation.
package system

import "time"

// Clock implements sink.Clock using time.Now. Every record of a run is
// stamped from one call to Now, taken by the sink.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time in UTC.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
