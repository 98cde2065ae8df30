// Package harness runs YAML scenarios against the simulator.
//
// # Scenario Format
//
//	name: output_example
//	description: "Conjunction feeding a sink"
//	wiring: |
//	  broadcaster -> a
//	  %a -> inv, con
//	  &inv -> b
//	  %b -> con
//	  &con -> output
//	presses: 1000
//	trace_presses: 4
//	expect:
//	  low: 4250
//	  high: 2750
//	  product: 11687500
//	  first_low_press: 1
//
// Exactly one of wiring and wiring_file is required. wiring_file is resolved
// against the scenario file's directory. Unknown fields are rejected.
//
// Each query a scenario asks for runs on a freshly built network, so
// expectations never depend on one another.
//
// # Golden Traces
//
// RunWithGolden renders the pulses of the first trace_presses presses, one
// "source -level-> dest" line each with a "# press N" header per press, and
// compares them with testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
