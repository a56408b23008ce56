package domain

import "time"

// Clock abstracts wall time so deadline logic is deterministic under test.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
