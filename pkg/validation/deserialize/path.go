package deserialize

import (
	"strings"

	"github.com/getmockd/oasmock/pkg/contract"
)

// SimpleDeserializer handles the simple style, the path and header default.
//
//	array:  3,4,5
//	object: role,admin,firstName,Alex (explode: role=admin,firstName=Alex)
type SimpleDeserializer struct{}

// Supports implements Deserializer.
func (SimpleDeserializer) Supports(style contract.Style) bool {
	return style == contract.StyleSimple
}

// Deserialize implements Deserializer.
func (SimpleDeserializer) Deserialize(name string, values map[string][]string, schema contract.Schema, explode bool) any {
	value, _ := first(values[name])
	return splitValue(value, ",", schema, explode)
}

// LabelDeserializer handles the label style: .3.4.5 or .3,4,5.
type LabelDeserializer struct{}

// Supports implements Deserializer.
func (LabelDeserializer) Supports(style contract.Style) bool {
	return style == contract.StyleLabel
}

// Deserialize implements Deserializer.
func (LabelDeserializer) Deserialize(name string, values map[string][]string, schema contract.Schema, explode bool) any {
	value, _ := first(values[name])
	rest, ok := strings.CutPrefix(value, ".")
	if !ok {
		return value
	}

	sep := ","
	if explode {
		sep = "."
	}
	return splitValue(rest, sep, schema, explode)
}

// MatrixDeserializer handles the matrix style: ;id=5, ;id=3,4,5, ;id=3;id=4.
type MatrixDeserializer struct{}

// Supports implements Deserializer.
func (MatrixDeserializer) Supports(style contract.Style) bool {
	return style == contract.StyleMatrix
}

// Deserialize implements Deserializer.
func (MatrixDeserializer) Deserialize(name string, values map[string][]string, schema contract.Schema, explode bool) any {
	value, _ := first(values[name])
	rest, ok := strings.CutPrefix(value, ";")
	if !ok {
		return value
	}
	assign := name + "="
	n := newNode(schema)

	switch n.Type() {
	case "array":
		if explode {
			var items []string
			for _, part := range strings.Split(rest, ";") {
				if v, ok := strings.CutPrefix(part, assign); ok {
					items = append(items, v)
				}
			}
			return coerceArray(items, n.Items())
		}
		if v, ok := strings.CutPrefix(rest, assign); ok {
			return coerceArray(strings.Split(v, ","), n.Items())
		}
		return []any{}
	case "object":
		if explode {
			return assignmentsToObject(strings.Split(rest, ";"), n)
		}
		if v, ok := strings.CutPrefix(rest, assign); ok {
			return pairsToObject(strings.Split(v, ","), n)
		}
		return map[string]any{}
	}

	if v, ok := strings.CutPrefix(rest, assign); ok {
		return coerceValue(v, n)
	}
	return coerceValue(rest, n)
}

// splitValue applies the shared array/object/primitive rules of the simple
// and label styles.
func splitValue(value, sep string, schema contract.Schema, explode bool) any {
	n := newNode(schema)
	switch n.Type() {
	case "array":
		return coerceArray(strings.Split(value, sep), n.Items())
	case "object":
		parts := strings.Split(value, sep)
		if explode {
			return assignmentsToObject(parts, n)
		}
		return pairsToObject(parts, n)
	}
	return coerceValue(value, n)
}
