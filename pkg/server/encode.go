package server

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"

	"github.com/beevik/etree"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/oasmock/internal/mediatype"
	"github.com/getmockd/oasmock/pkg/contract"
	"github.com/getmockd/oasmock/pkg/mocker"
)

// encodeBody serializes body for mediaType. Strings are written verbatim for
// every media type except JSON, so literal XML or text examples pass through.
// schema supplies XML element names and may be nil.
func encodeBody(mediaType string, body any, schema contract.Schema) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	if mediatype.IsJSON(mediaType) || mediaType == mocker.ProblemMediaType {
		return json.Marshal(body)
	}
	switch v := body.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	}

	switch {
	case mediatype.IsYAML(mediaType):
		return yaml.Marshal(body)
	case mediatype.IsXML(mediaType):
		return encodeXML(body, schema)
	case mediatype.IsForm(mediaType):
		if m, ok := body.(map[string]any); ok {
			return []byte(formEncode(m)), nil
		}
	}
	return json.Marshal(body)
}

func encodeXML(body any, schema contract.Schema) ([]byte, error) {
	x := xmlEncoder{root: schema}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	s := x.deref(schema)
	root := doc.CreateElement(xmlName(s, "root"))
	x.fill(root, body, s)
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode XML: %w", err)
	}
	return data, nil
}

// xmlEncoder writes values following the OpenAPI xml object: name,
// attribute and wrapped.
type xmlEncoder struct {
	root contract.Schema
}

func (x xmlEncoder) deref(s contract.Schema) contract.Schema {
	if x.root == nil {
		return s
	}
	return x.root.Deref(s)
}

func (x xmlEncoder) fill(el *etree.Element, v any, schema contract.Schema) {
	switch t := v.(type) {
	case nil:
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(t)) {
			x.child(el, key, t[key], x.deref(schema.Property(key)))
		}
	case []any:
		items := x.deref(schema.Items())
		for _, item := range t {
			x.fill(el.CreateElement(xmlName(items, "item")), item, items)
		}
	default:
		el.SetText(scalar(t))
	}
}

// child appends the property key of el. Unwrapped arrays repeat the
// property element once per item.
func (x xmlEncoder) child(el *etree.Element, key string, v any, schema contract.Schema) {
	name := xmlName(schema, key)
	if xmlFlag(schema, "attribute") {
		if v != nil {
			el.CreateAttr(name, scalar(v))
		}
		return
	}
	list, ok := v.([]any)
	if !ok || xmlFlag(schema, "wrapped") {
		x.fill(el.CreateElement(name), v, schema)
		return
	}
	items := x.deref(schema.Items())
	for _, item := range list {
		x.fill(el.CreateElement(xmlName(items, name)), item, items)
	}
}

func xmlName(schema contract.Schema, fallback string) string {
	if spec, ok := schema["xml"].(map[string]any); ok {
		if name, ok := spec["name"].(string); ok && name != "" {
			return name
		}
	}
	return fallback
}

func xmlFlag(schema contract.Schema, flag string) bool {
	spec, ok := schema["xml"].(map[string]any)
	if !ok {
		return false
	}
	b, _ := spec[flag].(bool)
	return b
}

func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]any, []any:
		data, _ := json.Marshal(t)
		return string(data)
	}
	return fmt.Sprint(v)
}

func formEncode(m map[string]any) string {
	values := make(url.Values, len(m))
	for k, v := range m {
		if list, ok := v.([]any); ok {
			for _, item := range list {
				values.Add(k, scalar(item))
			}
			continue
		}
		values.Set(k, scalar(v))
	}
	return values.Encode()
}
