package network

import (
	"errors"
	"fmt"
)

// DuplicateModuleError is returned by New when two declarations share a name.
type DuplicateModuleError struct {
	Name string
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("DUPLICATE_MODULE: module %q declared twice", e.Name)
}

// TopologyErrorCode categorizes failed topology queries.
type TopologyErrorCode string

const (
	// ErrCodeUnknownModule indicates the queried name is not a declared module.
	ErrCodeUnknownModule TopologyErrorCode = "UNKNOWN_MODULE"

	// ErrCodeNotConjunction indicates a conjunction was required.
	ErrCodeNotConjunction TopologyErrorCode = "NOT_CONJUNCTION"

	// ErrCodeNoPredecessor indicates nothing is wired to the target.
	ErrCodeNoPredecessor TopologyErrorCode = "NO_PREDECESSOR"

	// ErrCodeAmbiguousPredecessor indicates more than one module feeds the target.
	ErrCodeAmbiguousPredecessor TopologyErrorCode = "AMBIGUOUS_PREDECESSOR"
)

// TopologyError is returned by the build-time graph queries.
type TopologyError struct {
	Code    TopologyErrorCode
	Module  string
	Message string
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("%s: %s (module=%s)", e.Code, e.Message, e.Module)
}

// IsDuplicateModule reports whether err is a *DuplicateModuleError.
func IsDuplicateModule(err error) bool {
	var de *DuplicateModuleError
	return errors.As(err, &de)
}

// IsTopologyError reports whether err is a *TopologyError with the given code.
func IsTopologyError(err error, code TopologyErrorCode) bool {
	var te *TopologyError
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}
