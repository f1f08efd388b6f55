package engine

import (
	"fmt"
	"sync/atomic"
)

// Clock numbers the messages of one session.
//
// Seq 1 is the first message of a session. An engine resuming a journaled
// session starts its clock at the session's last seq, so the next message
// continues the numbering and never collides with UNIQUE(session, seq).
//
// Thread-safety: Clock is safe for concurrent use. The Engine serialises
// operations, so in practice one goroutine calls Next.
type Clock struct {
	seq atomic.Int64
}

// NewClock returns a clock for a new session. Its first seq is 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt returns a clock continuing after seq last.
func NewClockAt(last int64) *Clock {
	c := &Clock{}
	c.seq.Store(last)
	return c
}

// Next returns the seq of the next message.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the seq of the last message issued.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

// checkClock refuses a caller-supplied clock that would reissue seqs already
// journaled for session.
func checkClock(c LogicalClock, session string, last int64) error {
	if current := c.Current(); current < last {
		return &RuntimeError{
			Code:    ErrCodeClockBehind,
			Message: fmt.Sprintf("clock is at seq %d, journal is at seq %d", current, last),
			Session: session,
			Seq:     last,
		}
	}
	return nil
}
