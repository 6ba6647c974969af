package apperrors

import "errors"

// Sentinel errors shared by services, repositories and handlers. Callers
// wrap these with fmt.Errorf("...: %w", Err...) and the HTTP layer maps
// them to status codes with errors.Is.
var (
	// ErrInvalidInput covers missing or malformed fields and out-of-range
	// rating values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthenticated means the caller presented no token, or one that
	// is expired, malformed or carries a bad signature.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden means the session is valid but its role or ownership
	// does not permit the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means no matching resource exists.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is raised when a user or store email collides with
	// an existing row. The unique index is the source of truth.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInternal wraps unexpected storage or infrastructure failures.
	ErrInternal = errors.New("internal error")
)
