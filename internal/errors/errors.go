package errors

import "errors"

// Centralized sentinel errors for the application. Services return these
// (usually wrapped with context via fmt.Errorf and %w) instead of transport
// concerns like HTTP status codes; the API layer matches them with
// errors.Is() and maps them to responses.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that client input failed business-rule
	// validation.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that an operation conflicts with the current
	// state of a resource (e.g. deleting the thread that is streaming).
	ErrConflict = errors.New("resource conflict")

	// ErrUnavailable signifies that a remote collaborator (durable store or
	// streaming backend) could not be reached. The operation that triggered
	// it was not applied.
	ErrUnavailable = errors.New("service unavailable")

	// ErrInternal signifies an unexpected server-side failure. Used to avoid
	// leaking implementation details to clients.
	ErrInternal = errors.New("internal server error")
)
