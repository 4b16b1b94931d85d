package compiler

import (
	"errors"
	"fmt"
)

// Validation error codes (E100-E199)
const (
	ErrSchemaViolation   = "E101" // scene violates the schema (shape, bounds, unknown field)
	ErrPlacementConflict = "E102" // object declares both layout and instances
	ErrUnresolvedAsset   = "E103" // referenced asset id not in the catalog
	ErrDuplicateName     = "E104" // duplicate camera or light name
)

// ValidationError represents one field-level scene validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors aggregates every violation found in one validation
// pass so callers can repair all of them at once.
type ValidationErrors struct {
	Errors []ValidationError
}

func (e *ValidationErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "scene validation failed"
	case 1:
		return fmt.Sprintf("scene validation failed: %s", e.Errors[0].Error())
	default:
		return fmt.Sprintf("scene validation failed with %d errors (first: %s)", len(e.Errors), e.Errors[0].Error())
	}
}

// NewValidationErrors wraps a non-empty error list; nil for an empty
// one.
func NewValidationErrors(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationErrors{Errors: errs}
}

// AsValidationErrors extracts an aggregated validation error from err.
func AsValidationErrors(err error) (*ValidationErrors, bool) {
	var verrs *ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}
