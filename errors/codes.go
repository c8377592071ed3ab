package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Construction-time errors (fatal, never retried by clientkit)
const (
	// ErrCodeCapabilityNotFound indicates a required capability is absent
	// from the resolved scope chain.
	ErrCodeCapabilityNotFound ErrorCode = "CAPABILITY_NOT_FOUND"
	// ErrCodeAmbiguousCapability indicates more than one instance of a
	// capability was found where exactly one was required.
	ErrCodeAmbiguousCapability ErrorCode = "AMBIGUOUS_CAPABILITY"
	// ErrCodeNoLoadBalancer indicates a load-balanced client has no
	// load-balancing-capable transport in scope.
	ErrCodeNoLoadBalancer ErrorCode = "NO_LOAD_BALANCER"
	// ErrCodeInvalidDeclaration indicates a client declaration failed validation.
	ErrCodeInvalidDeclaration ErrorCode = "INVALID_DECLARATION"
)

// Call-time errors
const (
	// ErrCodeInvocation indicates a failure raised by the underlying client call.
	ErrCodeInvocation ErrorCode = "INVOCATION_FAILURE"
	// ErrCodeFallbackInvocation indicates the selected fallback method itself failed.
	ErrCodeFallbackInvocation ErrorCode = "FALLBACK_INVOCATION_FAILURE"
)

var constructionCodes = map[ErrorCode]bool{
	ErrCodeCapabilityNotFound:  true,
	ErrCodeAmbiguousCapability: true,
	ErrCodeNoLoadBalancer:      true,
	ErrCodeInvalidDeclaration:  true,
}

// IsConstructionCode returns true if the code is raised while building a
// client rather than while invoking one.
func IsConstructionCode(code ErrorCode) bool {
	return constructionCodes[code]
}
