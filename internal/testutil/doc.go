// Package testutil provides fixtures shared by tests: synthetic counter
// wirings with known periods and deterministic run ids.
package testutil
