// Package domainerrors provides code-carrying errors shared by services and
// transport layers. Services wrap infrastructure failures with a code; handlers
// translate codes into HTTP responses without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for transport mapping and logging.
type Code string

const (
	// CodeInvalidInput marks malformed or out-of-range request data.
	CodeInvalidInput Code = "invalid_input"
	// CodeMissingHeader marks a required request header that was not supplied.
	CodeMissingHeader Code = "missing_required_header"
	// CodeNotFound marks a lookup for an entity that does not exist.
	CodeNotFound Code = "not_found"
	// CodeRejected marks a credit line request that was evaluated and declined.
	// A business outcome, not a fault: state has been persisted before it is raised.
	CodeRejected Code = "rejected"
	// CodeEscalated marks a credit line request routed to a human agent after
	// the failed-attempt budget was exhausted. Carries the advisory message.
	CodeEscalated Code = "escalated"
	// CodeTooManyRequests marks a rate limiter denial.
	CodeTooManyRequests Code = "too_many_requests"
	// CodeUnavailable marks a dependency that is temporarily unreachable.
	CodeUnavailable Code = "unavailable"
	// CodeInternal marks unexpected faults. Details are logged, never returned.
	CodeInternal Code = "internal_error"
)

// Error is the concrete error type carrying a code and a safe message.
type Error struct {
	code Code
	msg  string
	err  error
}

// New builds an error with a code and a message safe to surface to callers.
func New(code Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is / errors.As.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{code: code, msg: msg, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

// Unwrap exposes the wrapped error.
func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the classification code.
func (e *Error) Code() Code {
	return e.code
}

// Message returns the caller-safe message without the code prefix.
func (e *Error) Message() string {
	return e.msg
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for plain errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return CodeInternal
}

// MessageOf extracts the caller-safe message, empty for plain errors.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.msg
	}
	return ""
}
