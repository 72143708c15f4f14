package domain

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Kind classifies an error for the HTTP layer
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindBusinessRule
	KindExternalService
)

// String returns the taxonomy name of the kind
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindUnauthorized:
		return "UnauthorizedError"
	case KindForbidden:
		return "ForbiddenError"
	case KindNotFound:
		return "NotFoundError"
	case KindConflict:
		return "ConflictError"
	case KindBusinessRule:
		return "BusinessRuleError"
	case KindExternalService:
		return "ExternalServiceError"
	}
	return "Error"
}

// HTTPStatus maps the kind to its response status code
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindBusinessRule:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindExternalService:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// FieldError is a single per-field validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified application error
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.cause
}

// Validation builds a 400 error for malformed input
func Validation(message string, fields ...FieldError) error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Unauthorized builds a 401 error
func Unauthorized(message string) error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Forbidden builds a 403 error
func Forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound builds a 404 error
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict builds a 409 error
func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// BusinessRule builds a 400 error for input that is well formed but
// violates a lifecycle guard
func BusinessRule(message string) error {
	return &Error{Kind: KindBusinessRule, Message: message}
}

// ExternalService builds a 503 error wrapping the upstream failure
func ExternalService(message string, cause error) error {
	return &Error{Kind: KindExternalService, Message: message, cause: errors.WithStack(cause)}
}

// JobStatusGuard is the BusinessRule returned when a job is not in the
// status a transition requires
func JobStatusGuard(expected JobStatus) error {
	return BusinessRule(fmt.Sprintf("Job must be in '%s' status", expected))
}

// IllegalTransition is the BusinessRule returned when the state machine
// has no edge from -> to
func IllegalTransition(from, to JobStatus) error {
	return BusinessRule(fmt.Sprintf("Job cannot move from '%s' to '%s'", from, to))
}

// ApplicationStatusGuard is the BusinessRule returned when an application
// is not in the status a transition requires
func ApplicationStatusGuard(expected ApplicationStatus) error {
	return BusinessRule(fmt.Sprintf("Application must be in '%s' status", expected))
}

// KindOf returns the kind of the first *Error in err's chain, or 0
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
