// Package apperror defines the error taxonomy shared by services and controllers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents user input issues.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation builds a ValidationError without field details.
func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError is returned when a record does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError is returned on unique constraint violations.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// UnauthorizedError is returned by the admin auth boundary.
type UnauthorizedError struct{}

func (e *UnauthorizedError) Error() string {
	return "unauthorized"
}

// UnavailableError marks an optional dependency that is not configured.
type UnavailableError struct {
	Message string
}

func (e *UnavailableError) Error() string {
	return e.Message
}

// PersistenceError wraps a storage failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps err as a PersistenceError unless it already is a typed app error.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		nf *NotFoundError
		cf *ConflictError
		pe *PersistenceError
	)
	if errors.As(err, &nf) || errors.As(err, &cf) || errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// StatusCode maps an error to the HTTP status the API responds with.
func StatusCode(err error) int {
	var (
		ve *ValidationError
		nf *NotFoundError
		cf *ConflictError
		ue *UnauthorizedError
		ua *UnavailableError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ue):
		return http.StatusUnauthorized
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &cf):
		return http.StatusConflict
	case errors.As(err, &ua):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

var tagMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"phone":    "must be a valid phone number",
	"oneof":    "has an unsupported value",
	"max":      "is too long",
	"min":      "is too short",
	"url":      "must be a valid URL",
	"gte":      "must not be negative",
}

// FromValidator converts validator errors into a ValidationError keyed by JSON field name.
func FromValidator(err error) error {
	var validationErr validator.ValidationErrors
	if !errors.As(err, &validationErr) {
		return &ValidationError{Message: err.Error()}
	}

	fields := make(map[string]string, len(validationErr))
	names := make([]string, 0, len(validationErr))
	for _, e := range validationErr {
		msg, ok := tagMessages[e.Tag()]
		if !ok {
			msg = "is invalid"
		}
		fields[e.Field()] = msg
		names = append(names, e.Field())
	}
	return &ValidationError{
		Message: "invalid fields: " + strings.Join(names, ", "),
		Fields:  fields,
	}
}
