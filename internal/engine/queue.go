package engine

import "github.com/roach88/pulsenet/internal/ir"

// pulseQueue is the FIFO of pulses sent but not yet delivered.
//
// Pulses are delivered strictly in the order they were sent; everything a
// module emits goes to the back. The queue is owned by one Engine and is
// never touched by more than one goroutine, so it does no locking.
type pulseQueue struct {
	pulses []ir.Pulse
}

// newPulseQueue creates an empty queue.
func newPulseQueue() *pulseQueue {
	return &pulseQueue{
		pulses: make([]ir.Pulse, 0, 64),
	}
}

// Enqueue appends a pulse to the back of the queue.
func (q *pulseQueue) Enqueue(p ir.Pulse) {
	q.pulses = append(q.pulses, p)
}

// TryDequeue removes and returns the front pulse.
// Returns (ir.Pulse{}, false) if the queue is empty.
func (q *pulseQueue) TryDequeue() (ir.Pulse, bool) {
	if len(q.pulses) == 0 {
		return ir.Pulse{}, false
	}

	p := q.pulses[0]

	// Clear the slot so the backing array does not pin the name strings.
	q.pulses[0] = ir.Pulse{}

	if len(q.pulses) == 1 {
		q.pulses = q.pulses[:0]
	} else {
		q.pulses = q.pulses[1:]
	}

	return p, true
}

// Len returns the number of pending pulses.
func (q *pulseQueue) Len() int {
	return len(q.pulses)
}

// Reset drops every pending pulse.
func (q *pulseQueue) Reset() {
	clear(q.pulses)
	q.pulses = q.pulses[:0]
}
