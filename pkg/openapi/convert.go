package openapi

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/getmockd/oasmock/pkg/contract"
)

// defaultExampleKey names the example built from a media type's single
// "example" value.
const defaultExampleKey = "default"

type converter struct {
	hints   *orderHints
	schemas *schemaBundle
}

func (c *converter) resource(path, method string, item *openapi3.PathItem, op *openapi3.Operation) (*contract.Resource, error) {
	res := &contract.Resource{
		ID:     op.OperationID,
		Method: method,
		Path:   path,
	}
	if res.ID == "" {
		res.ID = method + " " + path
	}
	at := []string{"paths", path, strings.ToLower(method)}

	req, err := c.requestSpec(at, item.Parameters, op)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", res.ID, err)
	}
	res.Request = req

	if op.Responses != nil {
		responses := op.Responses.Map()
		for _, code := range ordered(responses, c.hints.keys(join(at, "responses")...)) {
			ref := responses[code]
			if ref == nil || ref.Value == nil {
				continue
			}
			def, err := c.response(join(at, "responses", code), code, ref.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: response %s: %w", res.ID, code, err)
			}
			res.Responses = append(res.Responses, def)
		}
	}
	return res, nil
}

// requestSpec merges path-item and operation parameters, the operation
// winning on (in, name). Cookie parameters are not validated.
func (c *converter) requestSpec(at []string, shared openapi3.Parameters, op *openapi3.Operation) (*contract.RequestSpec, error) {
	type key struct{ in, name string }
	var (
		order  []key
		params = make(map[key]*openapi3.Parameter)
	)
	for _, list := range []openapi3.Parameters{shared, op.Parameters} {
		for _, ref := range list {
			if ref == nil || ref.Value == nil {
				continue
			}
			k := key{ref.Value.In, ref.Value.Name}
			if _, ok := params[k]; !ok {
				order = append(order, k)
			}
			params[k] = ref.Value
		}
	}

	spec := &contract.RequestSpec{}
	for _, k := range order {
		p, err := c.parameter(params[k])
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", k.name, err)
		}
		switch p.In {
		case contract.LocationQuery:
			spec.Query = append(spec.Query, p)
		case contract.LocationHeader:
			spec.Headers = append(spec.Headers, p)
		case contract.LocationPath:
			spec.Path = append(spec.Path, p)
		}
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		body := op.RequestBody.Value
		contents, err := c.contents(join(at, "requestBody", "content"), body.Content)
		if err != nil {
			return nil, fmt.Errorf("request body: %w", err)
		}
		spec.Body = &contract.RequestBody{Required: body.Required, Contents: contents}
	}

	if len(spec.Query) == 0 && len(spec.Headers) == 0 && len(spec.Path) == 0 && spec.Body == nil {
		return nil, nil
	}
	return spec, nil
}

// parameter converts p. Parameters serialized through "content" keep no
// schema: their raw value is a document, not a styled string.
func (c *converter) parameter(p *openapi3.Parameter) (contract.Parameter, error) {
	out := contract.Parameter{
		Name:       p.Name,
		In:         contract.Location(p.In),
		Style:      contract.Style(p.Style),
		Explode:    p.Explode,
		Required:   p.Required,
		Deprecated: p.Deprecated,
	}
	if p.In == openapi3.ParameterInPath {
		out.Required = true
	}
	schema, err := c.schemas.convert(p.Schema)
	if err != nil {
		return out, err
	}
	out.Schema = schema
	return out, nil
}

func (c *converter) response(at []string, code string, r *openapi3.Response) (contract.ResponseDef, error) {
	def := contract.ResponseDef{Code: code}
	if r.Description != nil {
		def.Description = *r.Description
	}

	for _, name := range ordered(r.Headers, c.hints.keys(join(at, "headers")...)) {
		ref := r.Headers[name]
		if ref == nil || ref.Value == nil || http.CanonicalHeaderKey(name) == "Content-Type" {
			continue
		}
		h, err := c.header(name, &ref.Value.Parameter)
		if err != nil {
			return def, fmt.Errorf("header %s: %w", name, err)
		}
		def.Headers = append(def.Headers, h)
	}

	contents, err := c.contents(join(at, "content"), r.Content)
	if err != nil {
		return def, err
	}
	def.Contents = contents
	return def, nil
}

func (c *converter) header(name string, p *openapi3.Parameter) (contract.Header, error) {
	h := contract.Header{Name: name, Example: p.Example}
	if h.Example == nil {
		for _, key := range ordered(p.Examples, nil) {
			if ex := p.Examples[key]; ex != nil && ex.Value != nil {
				h.Example = ex.Value.Value
				break
			}
		}
	}
	schema, err := c.schemas.convert(p.Schema)
	if err != nil {
		return h, err
	}
	h.Schema = schema
	return h, nil
}

func (c *converter) contents(at []string, content openapi3.Content) ([]contract.Content, error) {
	if len(content) == 0 {
		return nil, nil
	}
	out := make([]contract.Content, 0, len(content))
	for _, mt := range ordered(content, c.hints.keys(at...)) {
		media := content[mt]
		if media == nil {
			continue
		}
		schema, err := c.schemas.convert(media.Schema)
		if err != nil {
			return nil, fmt.Errorf("content %s: %w", mt, err)
		}
		item := contract.Content{MediaType: mt, Schema: schema}

		for _, key := range ordered(media.Examples, c.hints.keys(join(at, mt, "examples")...)) {
			ex := media.Examples[key]
			if ex == nil || ex.Value == nil {
				continue
			}
			item.Examples = append(item.Examples, contract.Example{
				Key:     key,
				Summary: ex.Value.Summary,
				Value:   ex.Value.Value,
			})
		}
		if len(item.Examples) == 0 && media.Example != nil {
			item.Examples = []contract.Example{{Key: defaultExampleKey, Value: media.Example}}
		}
		out = append(out, item)
	}
	return out, nil
}

// join returns a new path; at is never modified.
func join(at []string, keys ...string) []string {
	return slices.Concat(at, keys)
}
