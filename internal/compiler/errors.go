package compiler

import (
	"fmt"

	"github.com/pkg/errors"
)

// CompileErrorCode categorizes wiring errors.
type CompileErrorCode string

const (
	// ErrCodeMalformedWiring indicates a line that is not "<prefix><name> -> <dest>, ...".
	ErrCodeMalformedWiring CompileErrorCode = "MALFORMED_WIRING"

	// ErrCodeDuplicateModule indicates a module name declared twice.
	ErrCodeDuplicateModule CompileErrorCode = "DUPLICATE_MODULE"

	// ErrCodeRead indicates the wiring source could not be read.
	ErrCodeRead CompileErrorCode = "READ_FAILED"
)

// CompileError describes why wiring text could not be compiled.
// Both codes are fatal: compilation stops at the first one.
type CompileError struct {
	Code    CompileErrorCode
	Line    int    // 1-based; 0 when not tied to a line
	Text    string // offending line, trimmed
	Message string
	Err     error
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// IsMalformedWiring reports whether err is a MALFORMED_WIRING compile error.
func IsMalformedWiring(err error) bool {
	return hasCode(err, ErrCodeMalformedWiring)
}

// IsDuplicateModule reports whether err is a DUPLICATE_MODULE compile error.
func IsDuplicateModule(err error) bool {
	return hasCode(err, ErrCodeDuplicateModule)
}

func hasCode(err error, code CompileErrorCode) bool {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}
