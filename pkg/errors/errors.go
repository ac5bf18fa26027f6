package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// HTTPStatus returns the HTTP status code for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// NotFoundError represents a lookup that matched no record
type NotFoundError struct {
	Resource string
	ID       string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns the HTTP status code for this error
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// EmptyCollectionError reports that a listing found zero records.
// An empty collection is surfaced to clients as 404, not as an empty 200.
type EmptyCollectionError struct {
	Resource string
}

// NewEmptyCollectionError creates a new empty collection error
func NewEmptyCollectionError(resource string) *EmptyCollectionError {
	return &EmptyCollectionError{Resource: resource}
}

// Error implements the error interface
func (e *EmptyCollectionError) Error() string {
	return fmt.Sprintf("no %s registered", e.Resource)
}

// HTTPStatus returns the HTTP status code for this error
func (e *EmptyCollectionError) HTTPStatus() int {
	return http.StatusNotFound
}

// StoreError wraps a failure surfaced by the database layer. The cause is
// preserved for server-side logging; clients only see a generic message.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError creates a new store error
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{
		Op:  op,
		Err: err,
	}
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store failure in %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store failure in %s", e.Op)
}

// Unwrap returns the wrapped error
func (e *StoreError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for this error
func (e *StoreError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// HTTPStatuser interface for errors that map to a specific HTTP status
type HTTPStatuser interface {
	HTTPStatus() int
}

// StatusOf returns the HTTP status an error maps to, defaulting to 500
// for untagged errors.
func StatusOf(err error) int {
	var st HTTPStatuser
	if errors.As(err, &st) {
		return st.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsStoreError reports whether err is a StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
