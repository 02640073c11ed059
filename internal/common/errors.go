// Package common defines shared sentinel errors and typed validation errors
// used across surveykeeper components. Callers should use errors.Is /
// errors.As to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Validation errors. ShapeError, DuplicateIDError and TooManyItemsError
	// unwrap to these so call sites can match either the sentinel or the
	// detailed value.
	ErrorShape        = errors.New("invalid shape")
	ErrorDuplicateID  = errors.New("duplicate id")
	ErrorTooManyItems = errors.New("too many items")

	// Submission gate errors.
	ErrorCaptchaRequired        = errors.New("captcha required")
	ErrorCaptchaInvalid         = errors.New("captcha invalid")
	ErrorAuthenticationRequired = errors.New("authentication required")
	ErrorProxyBlocked           = errors.New("proxy blocked")
	ErrorDuplicateSubmission    = errors.New("duplicate submission")
)

// ShapeError reports a structural violation of a single field: a missing
// value, a length outside the allowed bounds or an unknown enum value.
type ShapeError struct {
	Field  string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("invalid shape: %s: %s", e.Field, e.Reason)
}

func (e *ShapeError) Unwrap() error { return ErrorShape }

// NewShapeError builds a ShapeError for the given field.
func NewShapeError(field string, format string, args ...any) *ShapeError {
	return &ShapeError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DuplicateIDError reports an id collision inside an aggregate, e.g. two
// questions sharing an id within a survey.
type DuplicateIDError struct {
	Scope string
	ID    int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate id: %s: %d", e.Scope, e.ID)
}

func (e *DuplicateIDError) Unwrap() error { return ErrorDuplicateID }

// TooManyItemsError reports that a collection exceeds its configured bound.
type TooManyItemsError struct {
	Scope string
	Limit int
}

func (e *TooManyItemsError) Error() string {
	return fmt.Sprintf("too many items: %s: limit %d", e.Scope, e.Limit)
}

func (e *TooManyItemsError) Unwrap() error { return ErrorTooManyItems }
