// Package httputil provides shared HTTP utilities for consistent response handling.
package httputil

import (
	"net/http"

	"github.com/goccy/go-json"
)

// ProblemContentType is the RFC 7807 media type.
const ProblemContentType = "application/problem+json"

// Problem is an RFC 7807 problem document.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`

	// Validation lists request findings when the problem is a validation failure.
	Validation any `json:"validation,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, "application/json", status, data)
}

// WriteProblem writes p as application/problem+json using p.Status.
func WriteProblem(w http.ResponseWriter, p Problem) {
	if p.Status == 0 {
		p.Status = http.StatusInternalServerError
	}
	writeJSON(w, ProblemContentType, p.Status, p)
}

// WriteError writes a problem document built from a status and message.
// The error code becomes the problem type.
func WriteError(w http.ResponseWriter, status int, errCode, message string) {
	WriteProblem(w, Problem{
		Type:   errCode,
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// WriteNotFound writes a 404 Not Found problem.
func WriteNotFound(w http.ResponseWriter, errCode, message string) {
	WriteError(w, http.StatusNotFound, errCode, message)
}

// WriteMethodNotAllowed writes a 405 Method Not Allowed problem.
func WriteMethodNotAllowed(w http.ResponseWriter, errCode, message string) {
	WriteError(w, http.StatusMethodNotAllowed, errCode, message)
}

// WriteInternalError writes a 500 Internal Server Error problem.
func WriteInternalError(w http.ResponseWriter, errCode, message string) {
	WriteError(w, http.StatusInternalServerError, errCode, message)
}

func writeJSON(w http.ResponseWriter, contentType string, status int, data any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
