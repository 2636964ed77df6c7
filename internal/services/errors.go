package services

import (
	"errors"
	"fmt"
	"strings"
)

// Classified errors so handlers can pick a status code without matching on
// message text.
var (
	// ErrNotFound maps to 404.
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied maps to 403.
	ErrPermissionDenied = errors.New("permission denied")
	// Token errors are distinguished so logout can report what actually went
	// wrong instead of a blanket 400.
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrTokenBlacklisted = errors.New("token already blacklisted")
)

// ValidationError carries field-keyed messages and maps to 400.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}
