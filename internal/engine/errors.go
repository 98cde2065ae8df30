package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while configuring or running a
// query.
//
// RuntimeError includes structured fields for diagnostics.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Module names the module involved, if any.
	Module string

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnknownEntry indicates the entry module is not declared.
	ErrCodeUnknownEntry RuntimeErrorCode = "UNKNOWN_ENTRY"

	// ErrCodeUnknownWitness indicates a witness name is not a declared module.
	ErrCodeUnknownWitness RuntimeErrorCode = "UNKNOWN_WITNESS"

	// ErrCodeNoWitnesses indicates the witness set is empty.
	ErrCodeNoWitnesses RuntimeErrorCode = "NO_WITNESSES"

	// ErrCodePressLimit indicates the press bound was reached without an answer.
	ErrCodePressLimit RuntimeErrorCode = "PRESS_LIMIT"

	// ErrCodeLCMOverflow indicates the combined period does not fit in int64.
	ErrCodeLCMOverflow RuntimeErrorCode = "LCM_OVERFLOW"

	// ErrCodeNonTerminatingPress indicates a press did not settle.
	// Reported through StepsExceededError.
	ErrCodeNonTerminatingPress RuntimeErrorCode = "NON_TERMINATING_PRESS"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("%s: %s (module=%s)", e.Code, e.Message, e.Module)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRuntimeError reports whether err is a RuntimeError with the given code,
// or a StepsExceededError when code is ErrCodeNonTerminatingPress.
func IsRuntimeError(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	if code == ErrCodeNonTerminatingPress {
		return IsStepsExceededError(err)
	}
	return false
}

// ErrEngineHalted is returned by Press after a press failed to settle.
var ErrEngineHalted = errors.New("engine halted after a press failed to settle")

func newUnknownEntryError(entry string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeUnknownEntry,
		Message: "entry module is not declared",
		Module:  entry,
	}
}

func newUnknownWitnessError(witness string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeUnknownWitness,
		Message: "witness is not a declared module",
		Module:  witness,
	}
}

func newNoWitnessesError(target string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeNoWitnesses,
		Message: "no witnesses to observe",
		Module:  target,
	}
}

func newPressLimitError(limit int, pending []string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodePressLimit,
		Message: fmt.Sprintf("no answer after %d presses", limit),
		Details: map[string]string{
			"max_presses": fmt.Sprintf("%d", limit),
			"pending":     fmt.Sprintf("%v", pending),
		},
	}
}

func newLCMOverflowError(periods map[string]int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeLCMOverflow,
		Message: "least common multiple of witness periods overflows int64",
		Details: map[string]string{
			"periods": fmt.Sprintf("%v", periods),
		},
	}
}
