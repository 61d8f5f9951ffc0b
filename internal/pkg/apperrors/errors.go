package apperrors

import "errors"

// Authentication errors
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionInvalid     = errors.New("invalid session token")
)

// Authorization errors
var (
	ErrForbidden = errors.New("permission denied")
)

// Resource errors
var (
	ErrNoteNotFound    = errors.New("note not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("student profile not found")
	ErrStudentNotFound = errors.New("student not found")
)

// Validation errors
var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmptyContent       = errors.New("note content cannot be empty")
	ErrInvalidRole        = errors.New("invalid role")
)

// CustomError carries an underlying sentinel plus request-specific context.
type CustomError struct {
	Err     error
	Message string
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewValidationError wraps ErrValidationFailed with a message
func NewValidationError(message string) error {
	return &CustomError{Err: ErrValidationFailed, Message: message}
}
