package engine

import (
	"context"
	"fmt"

	"github.com/roach88/pulsenet/internal/ir"
	"github.com/roach88/pulsenet/internal/network"
)

// Recorder keeps delivered pulses in delivery order.
type Recorder struct {
	limit  int
	pulses []ir.Pulse
}

// NewRecorder records the pulses of the first presses presses.
// A limit of 0 records every press.
func NewRecorder(presses int) *Recorder {
	return &Recorder{limit: presses}
}

// Observe implements Observer.
func (r *Recorder) Observe(p ir.Pulse) {
	if r.limit > 0 && p.Press > r.limit {
		return
	}
	r.pulses = append(r.pulses, p)
}

// Pulses returns a copy of the recorded pulses.
func (r *Recorder) Pulses() []ir.Pulse {
	return append([]ir.Pulse(nil), r.pulses...)
}

// Press returns the pulses recorded for one press.
func (r *Recorder) Press(n int) []ir.Pulse {
	var out []ir.Pulse
	for _, p := range r.pulses {
		if p.Press == n {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of recorded pulses.
func (r *Recorder) Len() int { return len(r.pulses) }

// Trace runs presses presses and returns every delivered pulse.
func Trace(ctx context.Context, net *network.Network, presses int, opts ...Option) ([]ir.Pulse, error) {
	rec := NewRecorder(0)
	s := newSettings(append(opts, WithObserver(rec)))

	e, err := newEngine(net, s)
	if err != nil {
		return nil, err
	}
	if err := e.Run(ctx, presses); err != nil {
		return rec.Pulses(), fmt.Errorf("trace: %w", err)
	}
	return rec.Pulses(), nil
}
