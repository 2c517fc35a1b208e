package contract

import (
	"strconv"
	"strings"
)

// Type returns the primary JSON type of the schema. For type unions the first
// non-null member wins. Schemas without "type" but with "properties" are
// treated as objects.
func (s Schema) Type() string {
	if s == nil {
		return ""
	}
	switch t := s["type"].(type) {
	case string:
		return t
	case []any:
		for _, v := range t {
			if str, ok := v.(string); ok && str != "null" {
				return str
			}
		}
	case []string:
		for _, str := range t {
			if str != "null" {
				return str
			}
		}
	}
	if _, ok := s["properties"]; ok {
		return "object"
	}
	return ""
}

// Items returns the array item schema, or nil.
func (s Schema) Items() Schema {
	return asSchema(s["items"])
}

// Property returns the schema of a named object property, or nil.
func (s Schema) Property(name string) Schema {
	props, ok := s["properties"].(map[string]any)
	if !ok {
		return nil
	}
	return asSchema(props[name])
}

// Ref returns the "$ref" pointer of the schema, if any.
func (s Schema) Ref() string {
	ref, _ := s["$ref"].(string)
	return ref
}

// Resolve follows a local JSON pointer ("#/components/schemas/Pet") with s
// as the document root. Only document-local pointers are supported.
func (s Schema) Resolve(ref string) (Schema, bool) {
	ptr, ok := strings.CutPrefix(ref, "#")
	if !ok {
		return nil, false
	}
	if ptr == "" {
		return s, true
	}
	var node any = map[string]any(s)
	for _, token := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
		switch n := node.(type) {
		case map[string]any:
			next, ok := n[token]
			if !ok {
				return nil, false
			}
			node = next
		case Schema:
			next, ok := n[token]
			if !ok {
				return nil, false
			}
			node = next
		case []any:
			idx, err := strconv.Atoi(token)
			if err != nil || idx < 0 || idx >= len(n) {
				return nil, false
			}
			node = n[idx]
		default:
			return nil, false
		}
	}
	out := asSchema(node)
	return out, out != nil
}

// maxRefHops bounds a chain of "$ref"s pointing at further "$ref"s.
const maxRefHops = 32

// Deref resolves sub against s (the document root) when sub is a "$ref"
// schema, following chains of references. sub is returned unchanged when it
// is not a reference or the pointer does not resolve.
func (s Schema) Deref(sub Schema) Schema {
	for range maxRefHops {
		ref := sub.Ref()
		if ref == "" {
			return sub
		}
		resolved, ok := s.Resolve(ref)
		if !ok {
			return sub
		}
		sub = resolved
	}
	return sub
}

func asSchema(v any) Schema {
	switch m := v.(type) {
	case map[string]any:
		return Schema(m)
	case Schema:
		return m
	}
	return nil
}
