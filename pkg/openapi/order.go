package openapi

import (
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// orderHints recovers mapping key order from the raw document. The OpenAPI
// model keeps responses, content and examples in Go maps.
type orderHints struct {
	root *yaml.Node
}

func newOrderHints(data []byte) *orderHints {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil || len(doc.Content) == 0 {
		return &orderHints{}
	}
	return &orderHints{root: doc.Content[0]}
}

// keys returns the mapping keys found at path in document order. Local
// "$ref" nodes met on the way are followed.
func (h *orderHints) keys(path ...string) []string {
	node := h.lookup(path...)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	out := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		out = append(out, node.Content[i].Value)
	}
	return out
}

func (h *orderHints) lookup(path ...string) *yaml.Node {
	node := h.root
	for _, key := range path {
		node = h.follow(node, 0)
		if node == nil || node.Kind != yaml.MappingNode {
			return nil
		}
		node = child(node, key)
	}
	return h.follow(node, 0)
}

// follow resolves a mapping that is a local "$ref" to its target.
func (h *orderHints) follow(node *yaml.Node, depth int) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode || depth > 16 {
		return node
	}
	ref := child(node, "$ref")
	if ref == nil || ref.Kind != yaml.ScalarNode {
		return node
	}
	ptr, ok := strings.CutPrefix(ref.Value, "#/")
	if !ok {
		return node
	}
	target := h.root
	for _, token := range strings.Split(ptr, "/") {
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
		if target = child(target, token); target == nil {
			return node
		}
	}
	return h.follow(target, depth+1)
}

func child(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// ordered lists the keys of m: hinted keys first in hint order, the rest sorted.
func ordered[V any](m map[string]V, hint []string) []string {
	out := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range hint {
		if _, ok := m[k]; ok && !seen[k] {
			out = append(out, k)
			seen[k] = true
		}
	}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if !seen[k] {
			out = append(out, k)
		}
	}
	return out
}
