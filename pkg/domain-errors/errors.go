// Package dErrors provides coded domain errors.
//
// Services and models return these so transports can map failures to wire
// responses without string matching. Infrastructure layers return sentinel
// errors (pkg/platform/sentinel) instead; services translate at the boundary.
package dErrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain failure.
type Code string

const (
	// CodeInvalidInput marks malformed external input (bad UUID, unknown enum).
	CodeInvalidInput Code = "invalid_input"
	// CodeInvalidActor marks a malformed or unrecognized actor. This is a
	// programming error upstream of the engine and should be logged as such,
	// never silently defaulted.
	CodeInvalidActor Code = "invalid_actor"
	// CodeConsistencyViolation marks a declared parent/organization mismatch
	// at creation time. Reported to the caller, not retried.
	CodeConsistencyViolation Code = "consistency_violation"
	// CodeInvariantViolation marks an illegal state transition on an entity.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeForbidden marks an authorization denial. The message carries the
	// human-readable reason; the UI distinguishes ownership denials from
	// pending-verification denials.
	CodeForbidden Code = "forbidden"
	// CodeNotFound covers both "does not exist" and "exists but is invisible
	// to this actor" — deliberately indistinguishable to avoid leaking
	// existence.
	CodeNotFound   Code = "not_found"
	CodeConflict   Code = "conflict"
	CodeBadRequest Code = "bad_request"
	CodeInternal   Code = "internal"
)

// Forbidden reason messages. The UI messages ownership denials and
// pending-verification denials differently, so these are part of the error
// contract, not free text.
const (
	ReasonNotAuthorized       = "not authorized"
	ReasonPendingVerification = "pending verification"
)

// Error is a domain error with a classification code.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is/As chains.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from the error chain, or CodeInternal when the
// error carries no domain classification.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the domain message from the error chain, or an empty
// string when the error is not a domain error.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
