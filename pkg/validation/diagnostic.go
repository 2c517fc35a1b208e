package validation

import (
	"fmt"
	"strings"

	"github.com/getmockd/oasmock/pkg/contract"
)

// Severity of a diagnostic.
type Severity string

// Severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Code constants for machine-readable identification.
const (
	CodeRequired             = "required"
	CodeDeprecated           = "deprecated"
	CodeUnsupportedMediaType = "unsupported_media_type"
	CodeSchema               = "schema"
	CodeInvalidBody          = "invalid_body"
)

// LocationBody is the location of body diagnostics. Parameter diagnostics use
// the parameter's contract.Location.
const LocationBody = "body"

// Diagnostic is a single validation finding.
type Diagnostic struct {
	Severity Severity `json:"severity"`

	// Location is query, header, path or body.
	Location string `json:"location"`

	// Field is the parameter name or the path inside the body, e.g. "items[0].id".
	// Empty when the finding is about the whole location.
	Field string `json:"field,omitempty"`

	// Code is a machine-readable error code; schema findings use the failing
	// keyword ("type", "minimum", ...).
	Code string `json:"code"`

	Message string `json:"message"`
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	if d.Field != "" {
		return fmt.Sprintf("%s.%s: %s", d.Location, d.Field, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Location, d.Message)
}

// Path returns the location pointer as segments: ["query", "limit"].
func (d *Diagnostic) Path() []string {
	path := []string{d.Location}
	if d.Field != "" {
		path = append(path, d.Field)
	}
	return path
}

// Diagnostics is an ordered list of findings.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic has error severity.
func (ds Diagnostics) HasErrors() bool {
	for i := range ds {
		if ds[i].Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns the error-severity diagnostics.
func (ds Diagnostics) Errors() Diagnostics {
	return ds.filter(SeverityError)
}

// Warnings returns the warning-severity diagnostics.
func (ds Diagnostics) Warnings() Diagnostics {
	return ds.filter(SeverityWarning)
}

func (ds Diagnostics) filter(sev Severity) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// Summary returns a one-line description, used as problem detail.
func (ds Diagnostics) Summary() string {
	errs := ds.Errors()
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i := range errs {
		msgs[i] = errs[i].Error()
	}
	return fmt.Sprintf("%d validation errors: %s", len(errs), strings.Join(msgs, "; "))
}

// NewRequiredDiagnostic reports a missing required parameter.
func NewRequiredDiagnostic(in contract.Location, name string) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Location: string(in),
		Field:    name,
		Code:     CodeRequired,
		Message:  fmt.Sprintf("missing required %s parameter '%s'", in, name),
	}
}

// NewDeprecatedDiagnostic warns about a deprecated parameter in use.
func NewDeprecatedDiagnostic(in contract.Location, name string) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Location: string(in),
		Field:    name,
		Code:     CodeDeprecated,
		Message:  fmt.Sprintf("%s parameter '%s' is deprecated", in, name),
	}
}

// NewRequiredBodyDiagnostic reports a missing required request body.
func NewRequiredBodyDiagnostic() Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Location: LocationBody,
		Code:     CodeRequired,
		Message:  "request body is required",
	}
}

// NewUnsupportedMediaTypeDiagnostic reports a body whose media type the
// contract does not declare.
func NewUnsupportedMediaTypeDiagnostic(mediaType string, declared []string) Diagnostic {
	msg := fmt.Sprintf("unsupported media type '%s'", mediaType)
	if mediaType == "" {
		msg = "request body has no media type"
	}
	if len(declared) > 0 {
		msg += fmt.Sprintf(", expected one of: %s", strings.Join(declared, ", "))
	}
	return Diagnostic{
		Severity: SeverityError,
		Location: LocationBody,
		Code:     CodeUnsupportedMediaType,
		Message:  msg,
	}
}

// NewInvalidBodyDiagnostic reports a body that could not be decoded.
func NewInvalidBodyDiagnostic(mediaType string, err error) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Location: LocationBody,
		Code:     CodeInvalidBody,
		Message:  fmt.Sprintf("invalid %s body: %v", mediaType, err),
	}
}
