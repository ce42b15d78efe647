//
//  Copyright © Manetu Inc. All rights reserved.
//

// Package common provides shared types and utilities used across the
// simulation engine packages.
//
// # Error Handling
//
// The [SimError] type provides structured error information for simulation
// failures, including reason codes suitable for audit records. The reason
// code taxonomy follows the engine's propagation policy:
//
//   - [ReasonNotFound] and [ReasonValidation] are caller errors, surfaced
//     immediately by the operation that detected them.
//   - [ReasonAnalysis] marks an unrecoverable failure during a run; the run
//     transitions to FAILED but partial results are retained.
//   - [ReasonCancelled] marks cooperative cancellation honored mid-run.
package common

import "fmt"

// ReasonCode is the machine-readable classification of a [SimError].
type ReasonCode int

// Reason codes for simulation errors.
const (
	// ReasonUnknown is an unexpected error condition.
	ReasonUnknown ReasonCode = iota
	// ReasonNotFound indicates an unknown scenario, simulation, or test id.
	ReasonNotFound
	// ReasonValidation indicates a malformed AccessChange or request.
	ReasonValidation
	// ReasonAnalysis indicates the rule catalog or permission source failed
	// during a run.
	ReasonAnalysis
	// ReasonCancelled indicates cooperative cancellation by the caller.
	ReasonCancelled
)

// String returns the symbolic name of the reason code.
func (c ReasonCode) String() string {
	switch c {
	case ReasonNotFound:
		return "NOTFOUND_ERROR"
	case ReasonValidation:
		return "VALIDATION_ERROR"
	case ReasonAnalysis:
		return "ANALYSIS_FAILURE"
	case ReasonCancelled:
		return "CANCELLED_BY_CALLER"
	default:
		return "UNKNOWN_ERROR"
	}
}

// SimError represents an error encountered during scenario management or
// simulation processing.
//
// SimError is returned by engine operations and internal services instead of
// the bare error interface so that reason codes flow into audit records and
// transport adapters without string matching.
type SimError struct {
	// ReasonCode is the machine-readable error classification.
	ReasonCode ReasonCode
	// Reason is a human-readable description of the error.
	Reason string
}

// Error implements the error interface, returning a formatted string
// containing both the reason message and the reason code.
func (e *SimError) Error() string {
	return fmt.Sprintf("%s(code-%s)", e.Reason, e.ReasonCode)
}

// NewError creates a new [SimError] with the specified reason code and message.
func NewError(code ReasonCode, format string, args ...interface{}) *SimError {
	return &SimError{ReasonCode: code, Reason: fmt.Sprintf(format, args...)}
}

// ReasonOf extracts the reason code from an error, returning [ReasonUnknown]
// for nil or non-SimError values.
func ReasonOf(err error) ReasonCode {
	if se, ok := err.(*SimError); ok {
		return se.ReasonCode
	}
	return ReasonUnknown
}

// IsNotFound reports whether the error is a [SimError] with [ReasonNotFound].
func IsNotFound(err error) bool {
	return ReasonOf(err) == ReasonNotFound
}

// IsValidation reports whether the error is a [SimError] with [ReasonValidation].
func IsValidation(err error) bool {
	return ReasonOf(err) == ReasonValidation
}
