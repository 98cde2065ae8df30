package harness

import (
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/ir"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Scenario is the name of the scenario that produced this result.
	Scenario string `json:"scenario"`

	// Pass is true if every expectation matched.
	Pass bool `json:"pass"`

	// Errors contains one message per failed expectation.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// WiringHash identifies the wiring that was run.
	WiringHash string `json:"wiring_hash"`

	// Tally is set when the scenario presses the button (presses > 0).
	Tally *engine.Tally `json:"tally,omitempty"`

	// MinPresses is set when min_presses is expected.
	MinPresses *engine.Result `json:"min_presses,omitempty"`

	// FirstLowPress is set when first_low_press is expected.
	FirstLowPress int `json:"first_low_press,omitempty"`

	// Trace holds the pulses of the first trace_presses presses.
	Trace []ir.Pulse `json:"trace,omitempty"`
}

// NewResult creates a passing result for the named scenario.
func NewResult(name string) *Result {
	return &Result{
		Scenario: name,
		Pass:     true,
	}
}

// Fail records a failed expectation.
func (r *Result) Fail(msg string) {
	r.Pass = false
	r.Errors = append(r.Errors, msg)
}
