package testutil

import (
	"sync"
	"time"
)

// DeterministicClock provides a thread-safe advancing wall clock for tests.
//
// Each Now() call returns the next timestamp in a fixed arithmetic
// progression, so the same scenario run twice stamps identical times and
// produces byte-identical projections. Distinct timestamps per call also
// keep otherwise-identical submissions from colliding on content identity.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	calls int64
}

// NewDeterministicClock creates a clock that starts at start and advances
// by step on every Now() call.
//
// A zero step freezes the clock: every call returns start.
func NewDeterministicClock(start time.Time, step time.Duration) *DeterministicClock {
	return &DeterministicClock{start: start, step: step}
}

// Now returns the next timestamp in the progression and advances.
//
// The first call returns start, the second start+step, and so on.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts := c.start.Add(time.Duration(c.calls) * c.step)
	c.calls++
	return ts
}

// Calls returns how many timestamps have been handed out.
func (c *DeterministicClock) Calls() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Reset rewinds the clock to its start time.
//
// Used for test reuse. After Reset(), the next Now() returns start again.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
}
