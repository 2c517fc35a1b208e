package deserialize

import (
	"strconv"
	"strings"

	"github.com/getmockd/oasmock/pkg/contract"
)

// node is a position inside a parameter or body schema together with the
// root its "$ref"s resolve against.
type node struct {
	root   contract.Schema
	schema contract.Schema
}

func newNode(root contract.Schema) node {
	return node{root: root, schema: root.Deref(root)}
}

func (n node) at(s contract.Schema) node {
	return node{root: n.root, schema: n.root.Deref(s)}
}

func (n node) Type() string { return n.schema.Type() }

func (n node) Items() node { return n.at(n.schema.Items()) }

func (n node) Property(name string) node { return n.at(n.schema.Property(name)) }

func (n node) properties() map[string]any {
	props, _ := n.schema["properties"].(map[string]any)
	return props
}

// Coerce converts the string leaves of a decoded form or XML body to the
// types schema declares. Objects are walked by property and arrays by item;
// a lone string where an array is declared becomes a one-element array, and
// a single-key object wrapping an array (an XML wrapper element) is unwrapped.
func Coerce(value any, schema contract.Schema) any {
	if schema == nil {
		return value
	}
	return coerceTree(value, newNode(schema))
}

func coerceTree(value any, n node) any {
	switch t := value.(type) {
	case string:
		if n.Type() == "array" {
			return []any{coerceValue(t, n.Items())}
		}
		return coerceValue(t, n)
	case []any:
		items := n
		if n.Type() == "array" {
			items = n.Items()
		}
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = coerceTree(v, items)
		}
		return out
	case map[string]any:
		if n.Type() == "array" && len(t) == 1 {
			for _, v := range t {
				return coerceTree(v, n)
			}
		}
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = coerceTree(v, n.Property(k))
		}
		return out
	}
	return value
}

// coerceValue converts a raw string to the Go type the schema asks for.
// Values that do not parse stay strings so the schema check reports them.
func coerceValue(value string, n node) any {
	switch n.Type() {
	case "integer":
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	case "number":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	case "boolean":
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return value
}

func coerceArray(values []string, items node) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = coerceValue(v, items)
	}
	return out
}

// pairsToObject turns ["k1","v1","k2","v2"] into an object.
func pairsToObject(parts []string, n node) map[string]any {
	out := make(map[string]any, len(parts)/2)
	for i := 0; i+1 < len(parts); i += 2 {
		out[parts[i]] = coerceValue(parts[i+1], n.Property(parts[i]))
	}
	return out
}

// assignmentsToObject turns ["k1=v1","k2=v2"] into an object.
func assignmentsToObject(parts []string, n node) map[string]any {
	out := make(map[string]any, len(parts))
	for _, part := range parts {
		key, val, ok := strings.Cut(part, "=")
		if !ok || key == "" {
			continue
		}
		out[key] = coerceValue(val, n.Property(key))
	}
	return out
}

func first(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}
