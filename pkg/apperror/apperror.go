package apperror

import (
	"fmt"
	"strings"
)

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError covers bad input: oversized/invalid-type files, age < 18,
// income <= 0, unknown document types. Always recoverable, never fatal.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// NotFoundError ends the current operation with a 404-equivalent.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// UpstreamServiceError marks a scoring/analysis call that failed: non-2xx,
// timeout, or a payload we could not make sense of. Retryable by the caller.
type UpstreamServiceError struct {
	Service string
	Reason  string
	Cause   error
}

func (e *UpstreamServiceError) Error() string {
	msg := e.Service + " service error: " + e.Reason
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *UpstreamServiceError) Unwrap() error { return e.Cause }

func NewUpstream(service, reason string, cause error) *UpstreamServiceError {
	return &UpstreamServiceError{Service: service, Reason: reason, Cause: cause}
}

// PreconditionError rejects an operation whose business preconditions do not
// hold, e.g. approving an application with unverified documents. Missing
// carries the specific unmet items when known.
type PreconditionError struct {
	Reason  string
	Missing []string
}

func (e *PreconditionError) Error() string {
	if len(e.Missing) == 0 {
		return e.Reason
	}
	return e.Reason + ": " + strings.Join(e.Missing, ", ")
}

func NewPrecondition(reason string, missing ...string) *PreconditionError {
	return &PreconditionError{Reason: reason, Missing: missing}
}

// ConflictError signals a lost-update race: the record changed since it was
// read (version mismatch) or an idempotency key was reused.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

func NewConflict(reason string) *ConflictError { return &ConflictError{Reason: reason} }
