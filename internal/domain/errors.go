// Package domain holds the error taxonomy shared by the catalog and cart
// repositories. Callers discriminate with errors.As.
package domain

import (
	"fmt"
	"strings"
)

// ValidationError reports input rejected before any mutation took place.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MissingFields returns a ValidationError naming every absent field.
func MissingFields(fields ...string) *ValidationError {
	return &ValidationError{
		Fields:  fields,
		Message: "Missing required fields: " + strings.Join(fields, ", "),
	}
}

// Invalid returns a ValidationError for fields carrying unusable values.
func Invalid(message string, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Message: message}
}

// ConflictError reports a value that collides with a unique constraint.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", capitalize(e.Field))
}

// NotFoundError reports a referenced record that does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
