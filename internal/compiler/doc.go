// Package compiler turns wiring text into module declarations.
//
// Each non-blank line declares one module:
//
//	broadcaster -> a, b, c
//	%a -> b
//	&inv -> a
//
// The prefix selects the kind (% flip-flop, & conjunction, none for the
// broadcaster). Destinations keep their written order. Lines starting with
// # are comments.
//
// Lines are parsed one at a time with a participle grammar so every error
// carries the line it came from. Compilation fails fast: the first
// malformed line or duplicate name aborts with a *CompileError.
//
// AnalyzeLoops reports the feedback loops (strongly connected components)
// of the compiled wiring graph. Loops are expected in pulse networks; they
// are reported for inspection, never rejected.
package compiler
