package generator

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"reflect"
	"slices"

	"github.com/getmockd/oasmock/pkg/contract"
)

// ErrUnsatisfiable is returned when no value can satisfy a schema.
var ErrUnsatisfiable = errors.New("schema cannot be satisfied")

// errCycle marks a recursive $ref that was already being expanded. Optional
// properties and empty-allowed arrays swallow it; anything else reports it as
// ErrUnsatisfiable.
var errCycle = errors.New("recursive schema reference")

// DefaultSeed is the seed used when WithSeed is not given.
const DefaultSeed uint64 = 0x6f61736d6f636b

// Generator produces a value that validates against a schema.
type Generator interface {
	Generate(ctx context.Context, schema contract.Schema) (any, error)
}

// Option configures a SchemaGenerator.
type Option func(*SchemaGenerator)

// WithSeed sets the seed of the random source.
func WithSeed(seed uint64) Option {
	return func(g *SchemaGenerator) {
		g.seed = seed
	}
}

// WithFieldHeuristics toggles realistic strings derived from property names
// ("email", "city", "created_at"...). Enabled by default.
func WithFieldHeuristics(enabled bool) Option {
	return func(g *SchemaGenerator) {
		g.heuristics = enabled
	}
}

// SchemaGenerator is the default Generator. It is safe for concurrent use.
type SchemaGenerator struct {
	seed       uint64
	heuristics bool
}

// New creates a SchemaGenerator.
func New(opts ...Option) *SchemaGenerator {
	g := &SchemaGenerator{seed: DefaultSeed, heuristics: true}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate implements Generator. schema is also the root for "$ref"
// resolution. A nil schema yields nil.
func (g *SchemaGenerator) Generate(ctx context.Context, schema contract.Schema) (any, error) {
	if schema == nil {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := &run{
		gen:      g,
		ctx:      ctx,
		root:     schema,
		rng:      rand.New(rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15)),
		visiting: make(map[string]bool),
	}
	v, err := r.generate(map[string]any(schema), "")
	if errors.Is(err, errCycle) {
		return nil, fmt.Errorf("%w: %w", ErrUnsatisfiable, err)
	}
	return v, err
}

// run holds the state of one Generate call.
type run struct {
	gen      *SchemaGenerator
	ctx      context.Context
	root     contract.Schema
	rng      *rand.Rand
	visiting map[string]bool
}

func (r *run) generate(node any, name string) (any, error) {
	var s contract.Schema
	switch n := node.(type) {
	case nil:
		return nil, nil
	case bool:
		if !n {
			return nil, fmt.Errorf("%w: false schema", ErrUnsatisfiable)
		}
		return nil, nil
	case contract.Schema:
		s = n
	case map[string]any:
		s = n
	default:
		return nil, nil
	}
	if err := r.ctx.Err(); err != nil {
		return nil, err
	}

	// 1. const
	if v, ok := s["const"]; ok {
		return v, nil
	}

	// 2. example / examples
	if v, ok := s["example"]; ok {
		return v, nil
	}
	if examples, ok := s["examples"].([]any); ok && len(examples) > 0 {
		return examples[0], nil
	}

	// 3. enum
	if enum, ok := s["enum"].([]any); ok && len(enum) > 0 {
		return enum[r.rng.IntN(len(enum))], nil
	}

	// 4. default
	if v, ok := s["default"]; ok {
		return v, nil
	}

	// 5. $ref
	if ref := s.Ref(); ref != "" {
		resolved, release, err := r.enter(ref)
		if err != nil {
			return nil, err
		}
		defer release()
		return r.generate(resolved, name)
	}

	// 6. composition
	if all := schemaList(s["allOf"]); len(all) > 0 {
		merged, err := r.mergeAllOf(s, all)
		if err != nil {
			return nil, err
		}
		return r.generate(merged, name)
	}
	if one := schemaList(s["oneOf"]); len(one) > 0 {
		return r.generate(one[0], name)
	}
	if anyOf := schemaList(s["anyOf"]); len(anyOf) > 0 {
		return r.generate(anyOf[0], name)
	}

	// 7. type-specific
	switch s.Type() {
	case "object":
		return r.object(s)
	case "array":
		return r.array(s)
	case "string":
		return r.str(s, name)
	case "integer":
		return r.integer(s)
	case "number":
		return r.number(s)
	case "boolean":
		return r.rng.IntN(2) == 0, nil
	}
	return nil, nil
}

// enter resolves ref and marks it as being expanded until release is called.
func (r *run) enter(ref string) (contract.Schema, func(), error) {
	if r.visiting[ref] {
		return nil, nil, fmt.Errorf("%w: %s", errCycle, ref)
	}
	resolved, ok := r.root.Resolve(ref)
	if !ok {
		return nil, nil, fmt.Errorf("%w: unresolvable reference %s", ErrUnsatisfiable, ref)
	}
	r.visiting[ref] = true
	return resolved, func() { delete(r.visiting, ref) }, nil
}

// mergeAllOf folds the allOf members into a single schema. Properties and
// required lists are unioned; for other keywords the first writer wins.
func (r *run) mergeAllOf(parent contract.Schema, all []any) (contract.Schema, error) {
	merged := make(contract.Schema, len(parent))
	for k, v := range parent {
		if k != "allOf" {
			merged[k] = v
		}
	}

	for _, member := range all {
		sub, ok := member.(map[string]any)
		if !ok {
			if b, isBool := member.(bool); isBool && !b {
				return nil, fmt.Errorf("%w: false schema in allOf", ErrUnsatisfiable)
			}
			continue
		}
		if ref := contract.Schema(sub).Ref(); ref != "" {
			resolved, release, err := r.enter(ref)
			if err != nil {
				return nil, err
			}
			sub = resolved
			defer release()
		}
		if nested := schemaList(sub["allOf"]); len(nested) > 0 {
			flat, err := r.mergeAllOf(sub, nested)
			if err != nil {
				return nil, err
			}
			sub = flat
		}

		for k, v := range sub {
			switch k {
			case "properties":
				props, _ := merged["properties"].(map[string]any)
				out := make(map[string]any, len(props))
				maps.Copy(out, props)
				if extra, ok := v.(map[string]any); ok {
					maps.Copy(out, extra)
				}
				merged["properties"] = out
			case "required":
				req := slices.Clone(asList(merged["required"]))
				for _, name := range asList(v) {
					if !slices.Contains(req, name) {
						req = append(req, name)
					}
				}
				merged["required"] = req
			default:
				if _, exists := merged[k]; !exists {
					merged[k] = v
				}
			}
		}
	}
	return merged, nil
}

func schemaList(v any) []any {
	list, _ := v.([]any)
	return list
}

func asList(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out
	}
	return nil
}

func containsValue(values []any, v any) bool {
	for _, existing := range values {
		if reflect.DeepEqual(existing, v) {
			return true
		}
	}
	return false
}
