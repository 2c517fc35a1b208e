package openapi

import (
	"fmt"
	"maps"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"

	"github.com/getmockd/oasmock/pkg/contract"
)

const componentSchemaPrefix = "#/components/schemas/"

// schemaBundle converts OpenAPI schemas to standalone JSON Schema documents.
type schemaBundle struct {
	components map[string]any
}

func newSchemaBundle(doc *openapi3.T) (*schemaBundle, error) {
	b := &schemaBundle{}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return b, nil
	}
	b.components = make(map[string]any, len(doc.Components.Schemas))
	for name, ref := range doc.Components.Schemas {
		s, err := toMap(ref)
		if err != nil {
			return nil, fmt.Errorf("component schema %s: %w", name, err)
		}
		b.components[name] = normalizeSchema(s)
	}
	return b, nil
}

// convert returns ref as a contract.Schema. Schemas referencing components
// carry them under "components/schemas" so their pointers resolve.
func (b *schemaBundle) convert(ref *openapi3.SchemaRef) (contract.Schema, error) {
	if ref == nil || (ref.Ref == "" && ref.Value == nil) {
		return nil, nil
	}
	s, err := toMap(ref)
	if err != nil {
		return nil, err
	}
	out := contract.Schema(normalizeSchema(s))
	if b.components != nil && usesComponents(out) {
		bundle := maps.Clone(out)
		bundle["components"] = map[string]any{"schemas": b.components}
		return bundle, nil
	}
	return out, nil
}

func toMap(ref *openapi3.SchemaRef) (map[string]any, error) {
	raw, err := json.Marshal(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}
	return out, nil
}

// normalizeSchema rewrites OpenAPI 3.0 dialect into JSON Schema: nullable
// becomes a null type member, boolean exclusive bounds become numeric ones
// and x- extensions are dropped. Only schema positions are visited, so
// property names and literal values are left alone.
func normalizeSchema(s map[string]any) map[string]any {
	for k := range s {
		if strings.HasPrefix(k, "x-") {
			delete(s, k)
		}
	}

	if nullable, ok := s["nullable"].(bool); ok {
		delete(s, "nullable")
		if nullable {
			makeNullable(s)
		}
	}
	exclusiveBound(s, "exclusiveMinimum", "minimum")
	exclusiveBound(s, "exclusiveMaximum", "maximum")

	for _, key := range []string{"items", "additionalProperties", "not", "contains", "propertyNames",
		"if", "then", "else", "unevaluatedItems", "unevaluatedProperties"} {
		if sub, ok := s[key].(map[string]any); ok {
			normalizeSchema(sub)
		}
	}
	for _, key := range []string{"properties", "patternProperties", "$defs", "definitions", "dependentSchemas"} {
		if subs, ok := s[key].(map[string]any); ok {
			for _, v := range subs {
				if sub, ok := v.(map[string]any); ok {
					normalizeSchema(sub)
				}
			}
		}
	}
	for _, key := range []string{"allOf", "anyOf", "oneOf", "prefixItems"} {
		if subs, ok := s[key].([]any); ok {
			for _, v := range subs {
				if sub, ok := v.(map[string]any); ok {
					normalizeSchema(sub)
				}
			}
		}
	}
	return s
}

func makeNullable(s map[string]any) {
	switch t := s["type"].(type) {
	case string:
		if t != "null" {
			s["type"] = []any{t, "null"}
		}
	case []any:
		for _, v := range t {
			if v == "null" {
				return
			}
		}
		s["type"] = append(t, "null")
	}
	if enum, ok := s["enum"].([]any); ok {
		for _, v := range enum {
			if v == nil {
				return
			}
		}
		s["enum"] = append(enum, nil)
	}
}

func exclusiveBound(s map[string]any, exclusive, bound string) {
	flag, ok := s[exclusive].(bool)
	if !ok {
		return
	}
	delete(s, exclusive)
	if v, has := s[bound]; flag && has {
		s[exclusive] = v
		delete(s, bound)
	}
}

func usesComponents(v any) bool {
	switch t := v.(type) {
	case map[string]any:
		if ref, ok := t["$ref"].(string); ok && strings.HasPrefix(ref, componentSchemaPrefix) {
			return true
		}
		for _, sub := range t {
			if usesComponents(sub) {
				return true
			}
		}
	case contract.Schema:
		return usesComponents(map[string]any(t))
	case []any:
		for _, sub := range t {
			if usesComponents(sub) {
				return true
			}
		}
	}
	return false
}
