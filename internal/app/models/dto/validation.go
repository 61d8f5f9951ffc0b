package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// BindingErrorMessage turns a form binding error into a user-facing message.
// Unrecognized errors fall back to the supplied message.
func BindingErrorMessage(err error, fallback string) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return fallback
	}
	return formatFieldError(fieldErrors[0])
}

// formatFieldError creates a human-readable validation error message
func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
