package deserialize

import (
	"strings"

	"github.com/getmockd/oasmock/pkg/contract"
)

// FormDeserializer handles the form style, the query default.
//
//	explode=true:  id=3&id=4&id=5, role=admin&firstName=Alex
//	explode=false: id=3,4,5, id=role,admin,firstName,Alex
type FormDeserializer struct{}

// Supports implements Deserializer.
func (FormDeserializer) Supports(style contract.Style) bool {
	return style == contract.StyleForm
}

// Deserialize implements Deserializer.
func (FormDeserializer) Deserialize(name string, values map[string][]string, schema contract.Schema, explode bool) any {
	raw := values[name]
	n := newNode(schema)

	switch n.Type() {
	case "array":
		if !explode && len(raw) == 1 {
			return coerceArray(strings.Split(raw[0], ","), n.Items())
		}
		return coerceArray(raw, n.Items())
	case "object":
		if explode {
			// Exploded objects spread their properties over the query string.
			out := make(map[string]any)
			for prop := range n.properties() {
				if v, ok := first(values[prop]); ok {
					out[prop] = coerceValue(v, n.Property(prop))
				}
			}
			return out
		}
		if v, ok := first(raw); ok {
			return pairsToObject(strings.Split(v, ","), n)
		}
		return map[string]any{}
	}

	if len(raw) == 1 {
		return coerceValue(raw[0], n)
	}
	return stringsToAny(raw)
}

// DelimitedDeserializer handles spaceDelimited and pipeDelimited arrays.
type DelimitedDeserializer struct {
	style     contract.Style
	delimiter string
}

// NewDelimitedDeserializer creates a deserializer splitting on delimiter.
func NewDelimitedDeserializer(style contract.Style, delimiter string) DelimitedDeserializer {
	return DelimitedDeserializer{style: style, delimiter: delimiter}
}

// Supports implements Deserializer.
func (d DelimitedDeserializer) Supports(style contract.Style) bool {
	return style == d.style
}

// Deserialize implements Deserializer.
func (d DelimitedDeserializer) Deserialize(name string, values map[string][]string, schema contract.Schema, _ bool) any {
	parts := strings.Split(strings.Join(values[name], d.delimiter), d.delimiter)
	n := newNode(schema)

	if n.Type() == "array" {
		return coerceArray(parts, n.Items())
	}
	if len(parts) == 1 {
		return coerceValue(parts[0], n)
	}
	return stringsToAny(parts)
}

// DeepObjectDeserializer handles deepObject: filter[status]=active&filter[type]=user.
type DeepObjectDeserializer struct{}

// Supports implements Deserializer.
func (DeepObjectDeserializer) Supports(style contract.Style) bool {
	return style == contract.StyleDeepObject
}

// Deserialize implements Deserializer.
func (DeepObjectDeserializer) Deserialize(name string, values map[string][]string, schema contract.Schema, _ bool) any {
	out := make(map[string]any)
	prefix := name + "["
	n := newNode(schema)

	for key, raw := range values {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		path := splitBrackets(rest)
		if len(path) == 0 {
			continue
		}
		setPath(out, path, raw, n)
	}
	return out
}

// HasDeepObject reports whether any name[...] key is present.
func HasDeepObject(name string, values map[string][]string) bool {
	prefix := name + "["
	for key := range values {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// splitBrackets turns `a][b]` (the part after "name[") into ["a", "b"].
func splitBrackets(rest string) []string {
	var path []string
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			return nil
		}
		path = append(path, rest[:end])
		rest = rest[end+1:]
		if rest == "" {
			break
		}
		if rest[0] != '[' {
			return nil
		}
		rest = rest[1:]
	}
	return path
}

func setPath(obj map[string]any, path []string, raw []string, n node) {
	key := path[0]
	prop := n.Property(key)

	if len(path) == 1 {
		if prop.Type() == "array" {
			obj[key] = coerceArray(raw, prop.Items())
			return
		}
		if v, ok := first(raw); ok {
			obj[key] = coerceValue(v, prop)
		}
		return
	}

	child, ok := obj[key].(map[string]any)
	if !ok {
		child = make(map[string]any)
		obj[key] = child
	}
	setPath(child, path[1:], raw, prop)
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
