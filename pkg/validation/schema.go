package validation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/getmockd/oasmock/pkg/contract"
)

// ErrUnknownDraft is returned for an unrecognized JSON Schema draft name.
var ErrUnknownDraft = errors.New("unknown JSON Schema draft")

// SchemaValidator checks an instance against a schema. Implementations must
// be safe for concurrent use and free of side effects.
type SchemaValidator interface {
	Validate(ctx context.Context, instance any, schema contract.Schema) (Diagnostics, error)
}

// ParseDraft maps a draft name to its definition. Accepted names: draft4,
// draft6, draft7, draft2019 (2019-09) and draft2020 (2020-12).
func ParseDraft(name string) (*jsonschema.Draft, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "draft4", "4":
		return jsonschema.Draft4, nil
	case "draft6", "6":
		return jsonschema.Draft6, nil
	case "draft7", "7":
		return jsonschema.Draft7, nil
	case "draft2019", "2019-09", "draft2019-09":
		return jsonschema.Draft2019, nil
	case "draft2020", "2020-12", "draft2020-12", "":
		return jsonschema.Draft2020, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDraft, name)
}

// JSONSchemaValidator validates with santhosh-tekuri/jsonschema. Schemas are
// compiled on first use and cached by their canonical JSON encoding.
type JSONSchemaValidator struct {
	draft        *jsonschema.Draft
	assertFormat bool
	cache        sync.Map // canonical JSON -> *jsonschema.Schema
}

// SchemaOption configures a JSONSchemaValidator.
type SchemaOption func(*JSONSchemaValidator)

// WithDraft sets the dialect used when a schema has no "$schema".
func WithDraft(d *jsonschema.Draft) SchemaOption {
	return func(v *JSONSchemaValidator) {
		if d != nil {
			v.draft = d
		}
	}
}

// WithFormatAssertion makes "format" an assertion for drafts >= 2019-09,
// where it is an annotation by default.
func WithFormatAssertion(enabled bool) SchemaOption {
	return func(v *JSONSchemaValidator) {
		v.assertFormat = enabled
	}
}

// NewJSONSchemaValidator creates a validator defaulting to draft 2020-12.
func NewJSONSchemaValidator(opts ...SchemaOption) *JSONSchemaValidator {
	v := &JSONSchemaValidator{draft: jsonschema.Draft2020}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate implements SchemaValidator. A nil schema accepts everything.
// Compilation failures are returned as errors, never as diagnostics.
func (v *JSONSchemaValidator) Validate(ctx context.Context, instance any, schema contract.Schema) (Diagnostics, error) {
	if schema == nil {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compiled, err := v.compile(schema)
	if err != nil {
		return nil, err
	}

	value, err := toJSONValue(instance)
	if err != nil {
		return Diagnostics{{
			Severity: SeverityError,
			Code:     CodeSchema,
			Message:  fmt.Sprintf("value is not representable as JSON: %v", err),
		}}, nil
	}

	if err := compiled.Validate(value); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			var diags Diagnostics
			collectCauses(verr, &diags)
			return diags, nil
		}
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	return nil, nil
}

func (v *JSONSchemaValidator) compile(schema contract.Schema) (*jsonschema.Schema, error) {
	// Map keys are encoded sorted, which makes the encoding a stable cache key.
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	key := string(raw)

	if cached, ok := v.cache.Load(key); ok {
		return cached.(*jsonschema.Schema), nil
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = v.draft
	compiler.AssertFormat = v.assertFormat

	if err := compiler.AddResource("schema.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	actual, _ := v.cache.LoadOrStore(key, compiled)
	return actual.(*jsonschema.Schema), nil
}

// collectCauses flattens the error tree into its leaves.
func collectCauses(err *jsonschema.ValidationError, diags *Diagnostics) {
	if len(err.Causes) == 0 {
		*diags = append(*diags, Diagnostic{
			Severity: SeverityError,
			Field:    fieldFromPointer(err.InstanceLocation),
			Code:     keywordOf(err.KeywordLocation),
			Message:  err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectCauses(cause, diags)
	}
}

// fieldFromPointer converts "/items/0/id" to "items[0].id".
func fieldFromPointer(ptr string) string {
	if ptr == "" || ptr == "/" {
		return ""
	}
	var sb strings.Builder
	for _, part := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		if _, err := strconv.Atoi(part); err == nil {
			sb.WriteString("[" + part + "]")
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}

// keywordOf returns the last keyword of a keyword location, "/properties/a/type" -> "type".
func keywordOf(loc string) string {
	if i := strings.LastIndexByte(loc, '/'); i >= 0 && i < len(loc)-1 {
		kw := loc[i+1:]
		if _, err := strconv.Atoi(kw); err != nil {
			return kw
		}
	}
	return CodeSchema
}

// toJSONValue converts an instance into the value shapes the schema library
// understands (map[string]any, []any, string, bool, numbers, nil). Known
// shapes are converted directly; anything else takes a JSON round trip.
func toJSONValue(v any) (any, error) {
	switch t := v.(type) {
	case nil, bool, string, json.Number,
		float32, float64, int, int8, int32, int64, uint, uint8, uint32, uint64:
		return t, nil
	case int16:
		return int64(t), nil
	case uint16:
		return uint64(t), nil
	case []any:
		out := make([]any, len(t))
		for i := range t {
			item, err := toJSONValue(t[i])
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil
	case []string:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, nil
	case map[string]any:
		return toJSONObject(t)
	case contract.Schema:
		return toJSONObject(t)
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			val, err := toJSONValue(item)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(k)] = val
		}
		return out, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func toJSONObject(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, item := range m {
		val, err := toJSONValue(item)
		if err != nil {
			return nil, err
		}
		out[k] = val
	}
	return out, nil
}
