package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/oasmock/internal/mediatype"
	"github.com/getmockd/oasmock/pkg/contract"
)

// errBodyTooLarge is returned when the body exceeds the configured limit.
var errBodyTooLarge = errors.New("request body too large")

// decodeError is a body that does not parse as its declared media type.
type decodeError struct {
	mediaType string
	err       error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("invalid %s body: %v", e.mediaType, e.err)
}

func (e *decodeError) Unwrap() error {
	return e.err
}

// NewRequest converts r into the transport-neutral request. The Prefer
// header is consumed here and never reaches validation. maxBody limits the
// body size when positive.
func NewRequest(r *http.Request, pathParams map[string]string, maxBody int64) (*contract.Request, error) {
	req := &contract.Request{
		Method:     r.Method,
		Path:       r.URL.Path,
		Query:      r.URL.Query(),
		Headers:    make(map[string][]string, len(r.Header)),
		PathParams: make(map[string][]string, len(pathParams)),
		Accept:     mediatype.ParseAccept(r.Header.Values("Accept")...),
	}
	for k, vs := range r.Header {
		k = http.CanonicalHeaderKey(k)
		if k == "Prefer" {
			continue
		}
		req.Headers[k] = vs
	}
	for k, v := range pathParams {
		req.PathParams[k] = []string{v}
	}

	data, err := readBody(r, maxBody)
	if err != nil {
		return req, err
	}
	if len(data) == 0 {
		return req, nil
	}
	req.MediaType = mediatype.Normalize(r.Header.Get("Content-Type"))
	if req.Body, err = decodeBody(req.MediaType, data); err != nil {
		return req, &decodeError{mediaType: req.MediaType, err: err}
	}
	return req, nil
}

func readBody(r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	defer func() { _ = r.Body.Close() }()

	reader := io.Reader(r.Body)
	if limit > 0 {
		reader = io.LimitReader(r.Body, limit+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, limit)
	}
	return data, nil
}

// decodeBody decodes data according to its media type. Unknown media types
// are passed through as a string.
func decodeBody(mediaType string, data []byte) (any, error) {
	switch {
	case mediatype.IsJSON(mediaType):
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case mediatype.IsYAML(mediaType):
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case mediatype.IsForm(mediaType):
		values, err := url.ParseQuery(string(data))
		if err != nil {
			return nil, err
		}
		return formValue(values), nil
	case mediatype.IsXML(mediaType):
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(data); err != nil {
			return nil, err
		}
		root := doc.Root()
		if root == nil {
			return nil, errors.New("document has no root element")
		}
		return xmlValue(root), nil
	}
	return string(data), nil
}

// formValue flattens single-valued fields to strings and keeps repeated
// fields as lists.
func formValue(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for k, vs := range values {
		if len(vs) == 1 {
			out[k] = vs[0]
			continue
		}
		list := make([]any, len(vs))
		for i, v := range vs {
			list[i] = v
		}
		out[k] = list
	}
	return out
}

// xmlValue maps an element to a JSON-like value: leaf elements become their
// text, other elements an object of attributes and children. Repeated child
// elements collapse into a list. Mixed text is kept under "#text".
func xmlValue(el *etree.Element) any {
	children := el.ChildElements()
	attrs := make([]etree.Attr, 0, len(el.Attr))
	for _, a := range el.Attr {
		if a.Space == "xmlns" || a.Key == "xmlns" {
			continue
		}
		attrs = append(attrs, a)
	}
	if len(children) == 0 && len(attrs) == 0 {
		return el.Text()
	}

	out := make(map[string]any, len(attrs)+len(children))
	for _, a := range attrs {
		out[a.Key] = a.Value
	}
	repeated := make(map[string]bool)
	for _, c := range children {
		v := xmlValue(c)
		prev, ok := out[c.Tag]
		switch {
		case !ok:
			out[c.Tag] = v
		case repeated[c.Tag]:
			out[c.Tag] = append(prev.([]any), v)
		default:
			out[c.Tag] = []any{prev, v}
			repeated[c.Tag] = true
		}
	}
	if text := strings.TrimSpace(el.Text()); text != "" {
		out["#text"] = text
	}
	return out
}
