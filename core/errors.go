package core

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Stable error codes exposed to API clients.
const (
	CodeValidation         = "validation_error"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeUnauthorized       = "unauthorized"
	CodeStorageUnavailable = "storage_unavailable"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Code   string
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Code: CodeValidation, Fields: flds}
}

// NewCodedValidationError is a ValidationError carrying a more specific code than CodeValidation.
func NewCodedValidationError(code string, err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Code: code, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// MissingFieldsError reports every missing required field at once.
func MissingFieldsError(fields ...string) error {
	flds := make([]FieldError, 0, len(fields))
	for _, f := range fields {
		flds = append(flds, FieldError{Field: f, Error: RequiredText})
	}
	return NewValidationError(
		fmt.Errorf("missing required fields: %s", strings.Join(fields, ", ")),
		flds...,
	)
}

// NotFoundError is returned when an id does not resolve to a row.
type NotFoundError struct {
	Resource string
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

func (err NotFoundError) Error() string {
	return err.Resource + " not found"
}

// ConflictError wraps a unique-constraint violation.
type ConflictError struct {
	Err error
}

func NewConflictError(err error) error {
	return &ConflictError{Err: err}
}

func (err ConflictError) Error() string {
	return "conflict: " + err.Err.Error()
}

// StorageUnavailableError wraps any failure to open or query the database.
type StorageUnavailableError struct {
	Err error
}

func NewStorageUnavailableError(err error) error {
	return &StorageUnavailableError{Err: err}
}

func (err StorageUnavailableError) Error() string {
	return "storage unavailable: " + err.Err.Error()
}

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

func IsConflict(err error) bool {
	var cErr *ConflictError
	return errors.As(err, &cErr)
}

func IsStorageUnavailable(err error) bool {
	var sErr *StorageUnavailableError
	return errors.As(err, &sErr)
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
