package apperror

import "errors"

// Sentinel errors for the four failure classes the API distinguishes.
// Handlers map these to HTTP status codes with errors.Is; everything that
// doesn't match one of them is treated as an internal error.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError is a typed application error carrying a message that is safe to
// show to the client. Internal detail (SQL text, driver errors) belongs in
// the wrapped Err chain, never in Message.
type AppError struct {
	Err     error  // sentinel (and any wrapped cause)
	Message string // human-readable, client-safe message
	Field   string // optional: field causing the error (e.g. "uid", "email")
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that a record does not exist. The login flow converts it
// into Unauthorized before it reaches a client, so the message here is only
// ever seen in logs.
func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: resource + " not found",
	}
}

// ValidationFailed reports malformed or missing client input.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation on the given field.
// The stores construct these from the named constraint the engine reports.
func Conflict(field, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		Field:   field,
	}
}

// Unauthorized reports failed authentication. Callers must use the same
// message for "no such user" and "wrong password" so responses don't reveal
// which identifiers exist.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
