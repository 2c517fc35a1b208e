package contract

import (
	"strconv"
	"strings"
)

// Schema is a decoded JSON Schema document. A nil Schema means "not declared".
//
// Schemas produced by the loader may contain "$ref" pointers into their own
// document; referenced components live under "components/schemas" of the
// root map.
type Schema map[string]any

// Location is where a parameter lives in the HTTP request.
type Location string

// Parameter locations.
const (
	LocationQuery  Location = "query"
	LocationHeader Location = "header"
	LocationPath   Location = "path"
)

// Style is the serialization convention of a parameter.
type Style string

// Parameter serialization styles.
const (
	StyleForm           Style = "form"
	StyleSpaceDelimited Style = "spaceDelimited"
	StylePipeDelimited  Style = "pipeDelimited"
	StyleDeepObject     Style = "deepObject"
	StyleSimple         Style = "simple"
	StyleLabel          Style = "label"
	StyleMatrix         Style = "matrix"
)

// Resource is one API operation being mocked.
type Resource struct {
	// ID is the operationId when declared, otherwise "METHOD path".
	ID string `json:"id" yaml:"id"`

	Method string `json:"method" yaml:"method"`
	Path   string `json:"path" yaml:"path"`

	// Request holds the declared request contract. Nil means nothing to validate.
	Request *RequestSpec `json:"request,omitempty" yaml:"request,omitempty"`

	// Responses are kept in document order; order drives default selection.
	Responses []ResponseDef `json:"responses" yaml:"responses"`
}

// RequestSpec groups the declared request parameters by location and the body.
type RequestSpec struct {
	Query   []Parameter  `json:"query,omitempty" yaml:"query,omitempty"`
	Headers []Parameter  `json:"headers,omitempty" yaml:"headers,omitempty"`
	Path    []Parameter  `json:"path,omitempty" yaml:"path,omitempty"`
	Body    *RequestBody `json:"body,omitempty" yaml:"body,omitempty"`
}

// RequestBody is the declared request body contract.
type RequestBody struct {
	Required bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Contents []Content `json:"contents" yaml:"contents"`
}

// Parameter is a declared request parameter.
type Parameter struct {
	Name       string   `json:"name" yaml:"name"`
	In         Location `json:"in" yaml:"in"`
	Style      Style    `json:"style,omitempty" yaml:"style,omitempty"`
	Explode    *bool    `json:"explode,omitempty" yaml:"explode,omitempty"`
	Required   bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Deprecated bool     `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Schema     Schema   `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// EffectiveStyle returns the declared style or the default for the location.
func (p *Parameter) EffectiveStyle() Style {
	if p.Style != "" {
		return p.Style
	}
	if p.In == LocationQuery {
		return StyleForm
	}
	return StyleSimple
}

// EffectiveExplode returns the declared explode flag or the style default:
// true for form, false for everything else.
func (p *Parameter) EffectiveExplode() bool {
	if p.Explode != nil {
		return *p.Explode
	}
	return p.EffectiveStyle() == StyleForm
}

// ResponseDef is one declared response of a Resource.
type ResponseDef struct {
	// Code is the status code as written in the document: "200", "2XX", "default".
	Code        string    `json:"code" yaml:"code"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Headers     []Header  `json:"headers,omitempty" yaml:"headers,omitempty"`
	Contents    []Content `json:"contents,omitempty" yaml:"contents,omitempty"`
}

// IsSuccess reports whether the code belongs to the 2xx class.
func (r *ResponseDef) IsSuccess() bool {
	return strings.HasPrefix(r.Code, "2")
}

// IsClientError reports whether the code belongs to the 4xx class.
func (r *ResponseDef) IsClientError() bool {
	return strings.HasPrefix(r.Code, "4")
}

// StatusCode converts Code to an HTTP status. Class patterns such as "4XX"
// become the first code of the class; anything else non-numeric ("default")
// yields fallback.
func (r *ResponseDef) StatusCode(fallback int) int {
	if n, err := strconv.Atoi(r.Code); err == nil {
		return n
	}
	if len(r.Code) == 3 && strings.EqualFold(r.Code[1:], "xx") {
		if d := r.Code[0]; d >= '1' && d <= '5' {
			return int(d-'0') * 100
		}
	}
	return fallback
}

// FindContent returns the content definition with the given media type.
func (r *ResponseDef) FindContent(mediaType string) (*Content, bool) {
	for i := range r.Contents {
		if strings.EqualFold(r.Contents[i].MediaType, mediaType) {
			return &r.Contents[i], true
		}
	}
	return nil, false
}

// Content is a (media type, schema, examples) triple.
type Content struct {
	MediaType string    `json:"mediaType" yaml:"mediaType"`
	Schema    Schema    `json:"schema,omitempty" yaml:"schema,omitempty"`
	Examples  []Example `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// FindExample returns the example with exactly the given key.
func (c *Content) FindExample(key string) (*Example, bool) {
	for i := range c.Examples {
		if c.Examples[i].Key == key {
			return &c.Examples[i], true
		}
	}
	return nil, false
}

// Example is a named literal payload.
type Example struct {
	Key     string `json:"key" yaml:"key"`
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Value   any    `json:"value" yaml:"value"`
}

// Header is a declared response header. Example wins over Schema when both
// are present.
type Header struct {
	Name    string `json:"name" yaml:"name"`
	Schema  Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
	Example any    `json:"example,omitempty" yaml:"example,omitempty"`
}

// FindResponse returns the response whose code equals code, ignoring case.
func (r *Resource) FindResponse(code string) (*ResponseDef, bool) {
	for i := range r.Responses {
		if strings.EqualFold(r.Responses[i].Code, code) {
			return &r.Responses[i], true
		}
	}
	return nil, false
}

// Params returns the declared parameters for a location.
func (r *Resource) Params(in Location) []Parameter {
	if r.Request == nil {
		return nil
	}
	switch in {
	case LocationQuery:
		return r.Request.Query
	case LocationHeader:
		return r.Request.Headers
	case LocationPath:
		return r.Request.Path
	}
	return nil
}
