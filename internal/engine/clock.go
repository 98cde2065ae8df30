package engine

import "sync/atomic"

// Clock stamps delivered pulses with a strictly increasing sequence number.
//
// Sequence numbers are logical, never wall-clock: two runs of the same
// wiring stamp the same pulse with the same seq. The clock spans every press
// of an engine, so seq also orders pulses across presses.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next advances the clock and returns the new value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last value handed out, or 0 before the first Next.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
