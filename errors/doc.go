// Package errors provides structured error handling for clientkit.
// It implements typed errors with machine-readable codes for the
// construction-time and call-time failure modes of generated clients.
package errors
