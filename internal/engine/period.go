package engine

import (
	"math"

	"github.com/roach88/pulsenet/internal/ir"
)

// PeriodDetector records, for each witness, the first press during which it
// sends a high pulse.
//
// The first such press is taken as the witness's period. That holds for
// networks built from independent binary counters, where each counter resets
// on the press it fires; it is not checked.
type PeriodDetector struct {
	witnesses []string // first-appearance order, deduplicated
	periods   map[string]int
	watched   map[string]bool
}

// NewPeriodDetector watches the given modules. Duplicates are ignored.
func NewPeriodDetector(witnesses []string) *PeriodDetector {
	d := &PeriodDetector{
		periods: make(map[string]int, len(witnesses)),
		watched: make(map[string]bool, len(witnesses)),
	}
	for _, w := range witnesses {
		if d.watched[w] {
			continue
		}
		d.watched[w] = true
		d.witnesses = append(d.witnesses, w)
	}
	return d
}

// Observe implements Observer.
func (d *PeriodDetector) Observe(p ir.Pulse) {
	if p.Level != ir.High || !d.watched[p.Source] {
		return
	}
	if _, seen := d.periods[p.Source]; !seen {
		d.periods[p.Source] = p.Press
	}
}

// Done reports whether every witness has a period.
func (d *PeriodDetector) Done() bool {
	return len(d.periods) == len(d.witnesses)
}

// Witnesses returns the watched modules in first-appearance order.
func (d *PeriodDetector) Witnesses() []string {
	return append([]string(nil), d.witnesses...)
}

// Periods returns a copy of the periods found so far.
func (d *PeriodDetector) Periods() map[string]int {
	out := make(map[string]int, len(d.periods))
	for k, v := range d.periods {
		out[k] = v
	}
	return out
}

// Pending returns the witnesses without a period, in first-appearance order.
func (d *PeriodDetector) Pending() []string {
	var out []string
	for _, w := range d.witnesses {
		if _, ok := d.periods[w]; !ok {
			out = append(out, w)
		}
	}
	return out
}

// LCM returns the least common multiple of the periods found so far.
// Returns 1 when none are known.
func (d *PeriodDetector) LCM() (int64, error) {
	result := int64(1)
	for _, w := range d.witnesses {
		period, ok := d.periods[w]
		if !ok {
			continue
		}
		var overflow bool
		result, overflow = lcm(result, int64(period))
		if overflow {
			return 0, newLCMOverflowError(d.Periods())
		}
	}
	return result, nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// lcm returns the least common multiple of two positive values and whether
// it overflowed int64.
func lcm(a, b int64) (int64, bool) {
	q := a / gcd(a, b)
	if q > math.MaxInt64/b {
		return 0, true
	}
	return q * b, false
}
