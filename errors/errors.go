package errors

import (
	"errors"
	"fmt"
)

// Error is the unified clientkit error type.
type Error struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// --- Common Error Constructors ---

// CapabilityNotFound creates an error for a required capability missing
// from the scope chain.
func CapabilityNotFound(scope, capability string) *Error {
	return &Error{
		Code: ErrCodeCapabilityNotFound, Message: fmt.Sprintf("no %s registered for scope %q", capability, scope),
		Details: map[string]any{"scope": scope, "capability": capability},
	}
}

// AmbiguousCapability creates an error for multiple instances of a
// capability where exactly one was required.
func AmbiguousCapability(scope, capability string, count int) *Error {
	return &Error{
		Code: ErrCodeAmbiguousCapability, Message: fmt.Sprintf("%d instances of %s registered for scope %q, expected one", count, capability, scope),
		Details: map[string]any{"scope": scope, "capability": capability, "count": count},
	}
}

// NoLoadBalancer creates an error for a load-balanced declaration without a
// load-balancing-capable transport in scope.
func NoLoadBalancer(client string) *Error {
	return &Error{
		Code: ErrCodeNoLoadBalancer, Message: fmt.Sprintf("no load-balancing transport for client %q; register one or set a fixed URL", client),
		Details: map[string]any{"client": client},
	}
}

// InvalidDeclaration creates an error for a declaration that failed validation.
func InvalidDeclaration(client string, cause error) *Error {
	return &Error{
		Code: ErrCodeInvalidDeclaration, Message: fmt.Sprintf("invalid declaration for client %q", client),
		Details: map[string]any{"client": client}, Cause: cause,
	}
}

// Invocation creates an error for a failed remote call.
func Invocation(target, method string, cause error) *Error {
	return &Error{
		Code: ErrCodeInvocation, Message: fmt.Sprintf("call %s on %s failed", method, target),
		Details: map[string]any{"target": target, "method": method}, Cause: cause,
	}
}

// FallbackInvocation creates an error for a fallback method that itself failed.
func FallbackInvocation(method string, cause error) *Error {
	return &Error{
		Code: ErrCodeFallbackInvocation, Message: fmt.Sprintf("fallback for %s failed", method),
		Details: map[string]any{"method": method}, Cause: cause,
	}
}

// --- Inspection helpers ---

// CodeOf returns the ErrorCode carried by err, or empty when err is not a
// clientkit error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCapabilityNotFound checks if the error indicates a missing required capability.
func IsCapabilityNotFound(err error) bool {
	return CodeOf(err) == ErrCodeCapabilityNotFound
}

// IsAmbiguousCapability checks if the error indicates an ambiguous capability lookup.
func IsAmbiguousCapability(err error) bool {
	return CodeOf(err) == ErrCodeAmbiguousCapability
}

// IsNoLoadBalancer checks if the error indicates a missing load-balancing transport.
func IsNoLoadBalancer(err error) bool {
	return CodeOf(err) == ErrCodeNoLoadBalancer
}

// IsInvalidDeclaration checks if the error is a declaration validation failure.
func IsInvalidDeclaration(err error) bool {
	return CodeOf(err) == ErrCodeInvalidDeclaration
}

// IsInvocation checks if the error is a failed remote call.
func IsInvocation(err error) bool {
	return CodeOf(err) == ErrCodeInvocation
}

// IsFallbackInvocation checks if the error is a failed fallback call.
func IsFallbackInvocation(err error) bool {
	return CodeOf(err) == ErrCodeFallbackInvocation
}
