package hal

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Clock is a Waiter backed by a clock.Clock.
type Clock struct {
	clock.Clock
}

// NewClock returns a Waiter that sleeps on the wall clock.
func NewClock() Clock {
	return Clock{Clock: clock.New()}
}

// WaitMicroseconds sleeps for us microseconds.
func (c Clock) WaitMicroseconds(us int64) {
	if us <= 0 {
		return
	}
	c.Sleep(time.Duration(us) * time.Microsecond)
}
