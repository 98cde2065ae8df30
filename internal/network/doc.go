// Package network models the module graph a button press propagates through.
//
// A Network is built once from declarations and owns every Module by name.
// Construction runs one topology-discovery pass: every declared module that
// names a conjunction as a destination is registered as one of that
// conjunction's inputs, remembered as low. Destinations that are never
// declared become sinks.
//
// Module is a closed variant over four kinds (broadcaster, flip-flop,
// conjunction, sink) with a single Receive operation selected by a switch.
// Module state (flip-flop on/off, conjunction memory) is mutated in place by
// Receive and is never reset; build a new Network for a fresh run.
//
// Networks are not safe for concurrent use. The engine drives them from a
// single goroutine.
package network
