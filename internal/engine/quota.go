package engine

import (
	"errors"
	"fmt"
)

// QuotaEnforcer bounds the number of deliveries within one press.
//
// Every wiring the simulator accepts settles after finitely many deliveries,
// so a press that keeps going is a bug in the network model, not an input
// error. The bound turns such a bug into an error instead of a hang.
type QuotaEnforcer struct {
	maxSteps int
	current  int
}

// NewQuotaEnforcer creates a quota enforcer with the given limit.
func NewQuotaEnforcer(maxSteps int) *QuotaEnforcer {
	return &QuotaEnforcer{
		maxSteps: maxSteps,
		current:  0,
	}
}

// Check counts one delivery of the given press against the limit.
//
// Returns StepsExceededError once the count goes past the limit.
func (q *QuotaEnforcer) Check(press int) error {
	q.current++
	if q.current > q.maxSteps {
		return &StepsExceededError{
			Press: press,
			Steps: q.current,
			Limit: q.maxSteps,
		}
	}
	return nil
}

// Reset sets the count back to 0. Called at the start of every press.
func (q *QuotaEnforcer) Reset() {
	q.current = 0
}

// Current returns the deliveries counted since the last Reset.
func (q *QuotaEnforcer) Current() int {
	return q.current
}

// MaxSteps returns the limit.
func (q *QuotaEnforcer) MaxSteps() int {
	return q.maxSteps
}

// StepsExceededError is returned when a press does not settle within the
// step limit. The engine that returned it is halted.
type StepsExceededError struct {
	Press int // 1-based press that failed to settle
	Steps int
	Limit int
}

// Error implements the error interface.
func (e *StepsExceededError) Error() string {
	return fmt.Sprintf("%s: press %d exceeded max steps: %d steps > %d limit",
		ErrCodeNonTerminatingPress, e.Press, e.Steps, e.Limit)
}

// Code returns the runtime error code for a press that did not settle.
func (e *StepsExceededError) Code() RuntimeErrorCode {
	return ErrCodeNonTerminatingPress
}

// IsStepsExceededError returns true if the error is a StepsExceededError.
func IsStepsExceededError(err error) bool {
	var se *StepsExceededError
	return errors.As(err, &se)
}
