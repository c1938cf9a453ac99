package services

import "time"

// Clock abstracts wall-clock time so status derivation, aging and reminder
// scheduling stay deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
