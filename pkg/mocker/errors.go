package mocker

import (
	"fmt"
	"net/http"
)

// Problem types.
const (
	TypeStatusCodeNotDefined = "status_code_not_defined"
	TypeNotAcceptable        = "not_acceptable"
	TypeExampleNotFound      = "example_not_found"
	TypeMissingErrorResponse = "missing_error_response"
	TypeValidationError      = "validation_error"
)

// ProblemError is a negotiation or configuration fault in RFC 7807 shape.
type ProblemError struct {
	Status int    `json:"status"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

// Error implements the error interface.
func (e *ProblemError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return e.Title
}

// Is matches problems of the same type, so a detailed error matches its
// sentinel.
func (e *ProblemError) Is(target error) bool {
	t, ok := target.(*ProblemError)
	return ok && t.Type == e.Type
}

// withDetail returns a copy of e carrying detail.
func (e *ProblemError) withDetail(format string, args ...any) *ProblemError {
	c := *e
	c.Detail = fmt.Sprintf(format, args...)
	return &c
}

// Sentinel problems.
var (
	ErrStatusCodeNotDefined = &ProblemError{
		Status: http.StatusNotFound,
		Type:   TypeStatusCodeNotDefined,
		Title:  "Requested status code is not defined in the schema.",
	}
	ErrNotAcceptable = &ProblemError{
		Status: http.StatusNotAcceptable,
		Type:   TypeNotAcceptable,
		Title:  "The server cannot produce a representation for your accept header.",
	}
	ErrExampleNotFound = &ProblemError{
		Status: http.StatusNotFound,
		Type:   TypeExampleNotFound,
		Title:  "Response for contentType was not found.",
	}
	ErrMissingErrorResponse = &ProblemError{
		Status: http.StatusInternalServerError,
		Type:   TypeMissingErrorResponse,
		Title:  "The request failed validation and the operation declares no client error response.",
	}
)
