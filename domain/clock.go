package domain

import "time"

// Clock abstracts "now" so aggregate timestamps stay deterministic in tests.
// Mutating operations take the time explicitly; services hold the Clock.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock, always UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
