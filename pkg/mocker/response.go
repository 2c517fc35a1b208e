package mocker

import (
	"net/http"

	"github.com/getmockd/oasmock/pkg/contract"
	"github.com/getmockd/oasmock/pkg/validation"
)

// ProblemMediaType is the media type of generated problem documents.
const ProblemMediaType = "application/problem+json"

// Config controls negotiation. Zero values mean "not set".
type Config struct {
	// Dynamic forces body generation even when examples exist.
	Dynamic bool `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`

	// MediaTypes restricts the acceptable media types and takes precedence
	// over the request's Accept list.
	MediaTypes []string `json:"mediaTypes,omitempty" yaml:"mediaTypes,omitempty"`

	// Code selects the response definition by status code.
	Code string `json:"code,omitempty" yaml:"code,omitempty"`

	// ExampleKey selects a named example in static mode.
	ExampleKey string `json:"exampleKey,omitempty" yaml:"exampleKey,omitempty"`
}

// Merge returns c overlaid with the non-zero fields of o. Dynamic is taken
// from o when o is non-nil.
func (c Config) Merge(o *Config) Config {
	if o == nil {
		return c
	}
	out := c
	out.Dynamic = o.Dynamic
	if len(o.MediaTypes) > 0 {
		out.MediaTypes = o.MediaTypes
	}
	if o.Code != "" {
		out.Code = o.Code
	}
	if o.ExampleKey != "" {
		out.ExampleKey = o.ExampleKey
	}
	return out
}

// Response is a negotiated mock response.
type Response struct {
	StatusCode int         `json:"statusCode"`
	Code       string      `json:"code"`
	Headers    http.Header `json:"headers,omitempty"`
	Body       any         `json:"body,omitempty"`

	// MediaType is the chosen content type; empty when the response has no content.
	MediaType string `json:"mediaType,omitempty"`

	Content *contract.Content `json:"-"`
	Example *contract.Example `json:"-"`

	// Diagnostics holds the validation findings, including warnings.
	Diagnostics validation.Diagnostics `json:"diagnostics,omitempty"`
}

// validationProblem builds the body used for an invalid request when the
// error response has neither an example nor a schema. It is a plain map so
// every body encoder can serialize it.
func validationProblem(status int, diags validation.Diagnostics) map[string]any {
	errs := diags.Errors()
	items := make([]any, len(errs))
	for i, d := range errs {
		path := d.Path()
		location := make([]any, len(path))
		for j := range path {
			location[j] = path[j]
		}
		item := map[string]any{
			"location": location,
			"severity": string(d.Severity),
			"code":     d.Code,
			"message":  d.Message,
		}
		items[i] = item
	}
	return map[string]any{
		"type":       TypeValidationError,
		"title":      "Invalid request",
		"status":     status,
		"detail":     diags.Summary(),
		"validation": items,
	}
}
