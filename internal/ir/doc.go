// Package ir provides the foundational types shared by every pulsenet package.
//
// This package contains plain data types and their canonical encoding. All
// other internal packages import ir; ir imports nothing internal, so the
// wiring compiler, the network and the engine can agree on one vocabulary
// without circular dependencies.
//
// Key design constraints:
//   - Levels are booleans: Low is false, High is true
//   - Declarations keep destinations in wiring order
//   - Pulses are ordered by Seq (logical clock), never by wall-clock time
//   - Hashes are SHA-256 over canonical JSON with a domain prefix
package ir
