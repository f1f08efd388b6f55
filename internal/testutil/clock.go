package testutil

import "sync"

// DeterministicClock numbers scenario messages 1, 2, 3, ... and can be
// rewound. Running a scenario, rewinding, and running it again against a
// fresh journal yields the same seqs and so the same message IDs, which is
// what golden transcripts rely on.
//
// Implements engine.LogicalClock. Safe for concurrent use.
type DeterministicClock struct {
	mu    sync.Mutex
	start int64
	seq   int64
}

// NewDeterministicClock returns a clock for a new session: Next returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// NewDeterministicClockAt returns a clock continuing a session whose last
// journaled seq is last.
func NewDeterministicClockAt(last int64) *DeterministicClock {
	return &DeterministicClock{start: last, seq: last}
}

// Next returns the seq of the next message.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the seq of the last message issued.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the clock to where it was created.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = c.start
}
