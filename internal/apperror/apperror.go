// Package apperror defines the domain error taxonomy shared by services and
// handlers. Services return these; handlers translate them to HTTP statuses.
package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrStorageWrite = errors.New("storage write failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError carries a sentinel plus a human-readable message. Fields is only
// populated for validation failures, one entry per violated field.
type AppError struct {
	Err     error
	Message string
	Fields  map[string]string
}

func (e *AppError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation builds a validation error from a field -> message map.
func Validation(fields map[string]string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: "the given data was invalid",
		Fields:  fields,
	}
}

// Field is a shorthand for a validation error on a single field.
func Field(field, message string) *AppError {
	return Validation(map[string]string{field: message})
}

func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s with ID %s not found", resource, id),
	}
}

// StorageWrite wraps a filesystem or object store failure. The cause is kept
// in the message for logs; callers match on ErrStorageWrite.
func StorageWrite(cause error) *AppError {
	return &AppError{
		Err:     ErrStorageWrite,
		Message: fmt.Sprintf("could not store file: %v", cause),
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// FieldsOf returns the per-field messages of a validation error, or nil.
func FieldsOf(err error) map[string]string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}
