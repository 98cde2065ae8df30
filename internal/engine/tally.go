package engine

import "github.com/roach88/pulsenet/internal/ir"

// Tally counts delivered pulses by level. The button pulse counts as low.
type Tally struct {
	Low  int64 `json:"low"`
	High int64 `json:"high"`
}

// Observe implements Observer.
func (t *Tally) Observe(p ir.Pulse) {
	if p.Level == ir.High {
		t.High++
	} else {
		t.Low++
	}
}

// Product returns Low × High.
func (t Tally) Product() int64 {
	return t.Low * t.High
}

// Total returns the number of pulses counted.
func (t Tally) Total() int64 {
	return t.Low + t.High
}
