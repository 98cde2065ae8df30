// Package config loads pulsenet run configurations written in CUE.
//
// A configuration file is unified with the embedded #Config definition,
// which supplies defaults and rejects unknown fields:
//
//	wiring:    "modules.txt"
//	presses:   1000
//	target:    "rx"
//	witnesses: ["ia", "ib"]
package config
