package testutil

import (
	"sync"
	"time"
)

// DeterministicClock hands out strictly increasing timestamps from a fixed
// epoch. Resolution records stamped with it are stable across runs, which
// keeps exported sessions byte-identical for golden comparison.
//
// Thread-safety: all methods are safe for concurrent use.
type DeterministicClock struct {
	mu   sync.Mutex
	base time.Time
	step time.Duration
	seq  int64
}

// NewDeterministicClock creates a clock starting at the given base time.
// Each Now() call advances by one second.
func NewDeterministicClock(base time.Time) *DeterministicClock {
	return &DeterministicClock{base: base, step: time.Second}
}

// Now returns the next timestamp: base + n seconds on the nth call.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.base.Add(time.Duration(c.seq) * c.step)
}

// Reset rewinds the clock so the next Now() returns base + 1s again.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
