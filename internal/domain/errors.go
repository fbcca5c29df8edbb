package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrValidation         = errors.New("validation error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrStoreFailure       = errors.New("store failure")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// DenyReason is the machine-readable tag attached to every rejected operation.
// It is the only rejection detail the presentation layer receives.
type DenyReason string

const (
	ReasonInsufficientRole   DenyReason = "insufficient_role"
	ReasonSelfTarget         DenyReason = "self_target"
	ReasonInvalidRange       DenyReason = "invalid_range"
	ReasonNotFound           DenyReason = "not_found"
	ReasonInvalidInput       DenyReason = "invalid_input"
	ReasonDuplicate          DenyReason = "duplicate"
	ReasonInvalidTransition  DenyReason = "invalid_transition"
	ReasonUnauthenticated    DenyReason = "unauthenticated"
	ReasonInvalidCredentials DenyReason = "invalid_credentials"
	ReasonInvariantViolation DenyReason = "invariant_violation"
	ReasonStoreFailure       DenyReason = "store_failure"
)

func (r DenyReason) String() string { return string(r) }

// sentinel returns the sentinel error a reason belongs to.
func (r DenyReason) sentinel() error {
	switch r {
	case ReasonInsufficientRole, ReasonSelfTarget:
		return ErrForbidden
	case ReasonInvalidRange, ReasonInvalidInput:
		return ErrValidation
	case ReasonNotFound:
		return ErrNotFound
	case ReasonDuplicate:
		return ErrAlreadyExists
	case ReasonInvalidTransition:
		return ErrConflict
	case ReasonUnauthenticated, ReasonInvalidCredentials:
		return ErrUnauthorized
	case ReasonInvariantViolation:
		return ErrInvariantViolation
	default:
		return ErrStoreFailure
	}
}

// DeniedError is returned when an operation is rejected before any state change.
type DeniedError struct {
	Reason DenyReason
	Detail string
}

func (e *DeniedError) Error() string {
	if e.Detail == "" {
		return "denied: " + string(e.Reason)
	}
	return fmt.Sprintf("denied: %s: %s", e.Reason, e.Detail)
}

func (e *DeniedError) Unwrap() error { return e.Reason.sentinel() }

// Deny creates a DeniedError with the given reason and optional detail.
func Deny(reason DenyReason, detail string) *DeniedError {
	return &DeniedError{Reason: reason, Detail: detail}
}

// ErrorKind is the failure category surfaced to callers.
type ErrorKind string

const (
	KindNone               ErrorKind = ""
	KindInputInvalid       ErrorKind = "input_invalid"
	KindNotFound           ErrorKind = "not_found"
	KindDuplicate          ErrorKind = "duplicate"
	KindPermissionDenied   ErrorKind = "permission_denied"
	KindInvariantViolation ErrorKind = "invariant_violation"
	KindStoreFailure       ErrorKind = "store_failure"
)

// KindOf classifies err into one of the failure categories. Unknown errors are
// treated as store failures because the operation could not be completed.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvariantViolation):
		return KindInvariantViolation
	case errors.Is(err, ErrValidation):
		return KindInputInvalid
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyExists):
		return KindDuplicate
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrUnauthorized), errors.Is(err, ErrConflict):
		return KindPermissionDenied
	default:
		return KindStoreFailure
	}
}

// ReasonOf extracts the reason tag from err.
func ReasonOf(err error) DenyReason {
	if err == nil {
		return ""
	}
	var denied *DeniedError
	if errors.As(err, &denied) {
		return denied.Reason
	}
	switch KindOf(err) {
	case KindInputInvalid:
		return ReasonInvalidInput
	case KindNotFound:
		return ReasonNotFound
	case KindDuplicate:
		return ReasonDuplicate
	case KindInvariantViolation:
		return ReasonInvariantViolation
	case KindPermissionDenied:
		if errors.Is(err, ErrUnauthorized) {
			return ReasonUnauthenticated
		}
		if errors.Is(err, ErrConflict) {
			return ReasonInvalidTransition
		}
		return ReasonInsufficientRole
	default:
		return ReasonStoreFailure
	}
}
