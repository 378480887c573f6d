package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Availability errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates a backing service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeConnectionFailed indicates a failed connection to a backing service.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
)

// Registry errors
const (
	// ErrCodeNotFound indicates no instance is registered under the requested key.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidArgument indicates an instance does not satisfy the capability
	// required by its category, or a malformed key or category was supplied.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeAlreadyExists indicates a named resource was declared twice.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeDatabaseError indicates a database error.
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeConnectionFailed:   true,
	ErrCodeDatabaseError:      true,
	ErrCodeInternal:           false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
