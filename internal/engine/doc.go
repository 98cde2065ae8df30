// Package engine drives button presses through a pulse network and answers
// queries over the resulting pulse stream.
//
// ARCHITECTURE:
//
// Single-Writer Press Loop:
// An Engine owns a network, a FIFO queue and a logical clock, and touches
// them from one goroutine. Press enqueues the button pulse and delivers
// pulses until the queue is empty:
//  1. dequeue the oldest pulse
//  2. stamp it with Clock.Next() and count it against the step quota
//  3. notify observers in registration order
//  4. hand it to the destination module and enqueue what it emits
//
// Observers:
// Queries are observers on the delivered stream: Tally counts levels,
// PeriodDetector records the first high press of each witness, Recorder
// keeps the trace. Observers never change the simulation.
//
// CRITICAL PATTERNS:
//
// Logical Clock:
// Every delivered pulse carries a seq from Clock.Next(). Two engines built
// from the same declarations stamp identical traces.
//
// FIFO Delivery:
// Emissions go to the back of the queue. Processing an emission before the
// pulses already queued gives different counts and a different trace.
package engine
