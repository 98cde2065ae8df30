// Package store provides the SQLite run log.
//
// The log is append-only:
//   - Runs: one row per query with its wiring hash, tally and answer
//   - Pulses: the delivered pulses of a run, when recorded
//
// # Critical Patterns
//
// Logical Ordering:
//   - runs are ordered by the seq the store assigns on write
//   - pulses keep the seq the engine stamped; reads ORDER BY seq ASC
//   - wall-clock time is never stored
//
// Identity:
//   - run ids come from an IDGenerator (UUIDv7 in production)
//   - wiring_hash is ir.WiringHash of the declarations that were run
//
// The log never restores module state; a recorded trace is for inspection.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
