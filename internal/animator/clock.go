package animator

import "sync/atomic"

// Clock numbers frames with a strictly increasing sequence.
//
// The sequence is logical, not wall-clock: frame N is the Nth invocation of
// the frame body. Timestamps come from the primitive.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0. The first frame is 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that resumes after start.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next frame number and advances the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued frame number.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
