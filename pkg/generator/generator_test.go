package generator

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/oasmock/pkg/contract"
	"github.com/getmockd/oasmock/pkg/validation"
)

func generate(t *testing.T, schema contract.Schema) any {
	t.Helper()
	v, err := New().Generate(context.Background(), schema)
	require.NoError(t, err)
	return v
}

// --- priority chain ---

func TestGenerate_NilSchema(t *testing.T) {
	assert.Nil(t, generate(t, nil))
}

func TestGenerate_Priority(t *testing.T) {
	tests := []struct {
		name   string
		schema contract.Schema
		want   any
	}{
		{"const wins", contract.Schema{"const": "fixed", "example": "ex", "enum": []any{"a"}}, "fixed"},
		{"example over enum", contract.Schema{"type": "string", "example": "winner", "enum": []any{"a", "b"}}, "winner"},
		{"examples list", contract.Schema{"type": "string", "examples": []any{"first", "second"}}, "first"},
		{"default", contract.Schema{"type": "integer", "default": 42}, 42},
		{"enum single", contract.Schema{"enum": []any{"only"}, "default": "other"}, "only"},
		{"null type", contract.Schema{"type": "null"}, nil},
		{"typeless", contract.Schema{"description": "anything"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, generate(t, tt.schema))
		})
	}
}

func TestGenerate_EnumPick(t *testing.T) {
	got := generate(t, contract.Schema{"type": "string", "enum": []any{"red", "green", "blue"}})
	assert.Contains(t, []any{"red", "green", "blue"}, got)
}

// --- $ref and composition ---

func petDocument() contract.Schema {
	return contract.Schema{
		"$ref": "#/components/schemas/Pet",
		"components": map[string]any{
			"schemas": map[string]any{
				"Pet": map[string]any{
					"type":     "object",
					"required": []any{"id", "name"},
					"properties": map[string]any{
						"id":     map[string]any{"type": "integer", "minimum": 1},
						"name":   map[string]any{"type": "string", "minLength": 2},
						"parent": map[string]any{"$ref": "#/components/schemas/Pet"},
					},
				},
			},
		},
	}
}

func TestGenerate_RefResolution(t *testing.T) {
	got, ok := generate(t, petDocument()).(map[string]any)
	require.True(t, ok)
	assert.Contains(t, got, "id")
	assert.Contains(t, got, "name")
	assert.NotContains(t, got, "parent", "optional recursive property is dropped")
}

func TestGenerate_RequiredCycle(t *testing.T) {
	schema := contract.Schema{
		"$ref": "#/$defs/Node",
		"$defs": map[string]any{
			"Node": map[string]any{
				"type":       "object",
				"required":   []any{"next"},
				"properties": map[string]any{"next": map[string]any{"$ref": "#/$defs/Node"}},
			},
		},
	}
	_, err := New().Generate(context.Background(), schema)
	assert.ErrorIs(t, err, ErrUnsatisfiable)
}

func TestGenerate_CycleInArrayYieldsEmpty(t *testing.T) {
	schema := contract.Schema{
		"$ref": "#/$defs/Tree",
		"$defs": map[string]any{
			"Tree": map[string]any{
				"type":     "object",
				"required": []any{"children"},
				"properties": map[string]any{
					"children": map[string]any{"type": "array", "items": map[string]any{"$ref": "#/$defs/Tree"}},
				},
			},
		},
	}
	got := generate(t, schema)
	assert.Equal(t, map[string]any{"children": []any{}}, got)
}

func TestGenerate_UnresolvableRef(t *testing.T) {
	_, err := New().Generate(context.Background(), contract.Schema{"$ref": "#/components/schemas/Missing"})
	assert.ErrorIs(t, err, ErrUnsatisfiable)
}

func TestGenerate_AllOf(t *testing.T) {
	schema := contract.Schema{
		"allOf": []any{
			map[string]any{"$ref": "#/$defs/Base"},
			map[string]any{
				"type":       "object",
				"required":   []any{"extra"},
				"properties": map[string]any{"extra": map[string]any{"type": "boolean"}},
			},
		},
		"$defs": map[string]any{
			"Base": map[string]any{
				"type":       "object",
				"required":   []any{"id"},
				"properties": map[string]any{"id": map[string]any{"type": "integer"}},
			},
		},
	}
	got, ok := generate(t, schema).(map[string]any)
	require.True(t, ok)
	assert.Contains(t, got, "id")
	assert.Contains(t, got, "extra")
}

func TestGenerate_OneOfAnyOfFirst(t *testing.T) {
	assert.Equal(t, "a", generate(t, contract.Schema{"oneOf": []any{map[string]any{"const": "a"}, map[string]any{"const": "b"}}}))
	assert.Equal(t, 1, generate(t, contract.Schema{"anyOf": []any{map[string]any{"const": 1}, map[string]any{"const": 2}}}))
}

// --- type-specific ---

func TestGenerateString_Formats(t *testing.T) {
	tests := []struct {
		format string
		check  func(t *testing.T, v string)
	}{
		{"uuid", func(t *testing.T, v string) { _, err := uuid.Parse(v); assert.NoError(t, err) }},
		{"email", func(t *testing.T, v string) { assert.Contains(t, v, "@") }},
		{"date", func(t *testing.T, v string) { assert.Len(t, v, 10) }},
		{"date-time", func(t *testing.T, v string) { assert.True(t, strings.HasSuffix(v, "Z")) }},
		{"uri", func(t *testing.T, v string) { assert.True(t, strings.HasPrefix(v, "https://")) }},
		{"ipv4", func(t *testing.T, v string) { assert.Len(t, strings.Split(v, "."), 4) }},
		{"ipv6", func(t *testing.T, v string) { assert.Len(t, strings.Split(v, ":"), 8) }},
		{"hostname", func(t *testing.T, v string) { assert.True(t, strings.HasSuffix(v, ".example.com")) }},
		{"byte", func(t *testing.T, v string) { assert.NotEmpty(t, v) }},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			v, ok := generate(t, contract.Schema{"type": "string", "format": tt.format}).(string)
			require.True(t, ok)
			tt.check(t, v)
		})
	}
}

func TestGenerateString_Length(t *testing.T) {
	v := generate(t, contract.Schema{"type": "string", "minLength": 12}).(string)
	assert.Len(t, v, 12)

	v = generate(t, contract.Schema{"type": "string", "maxLength": 3}).(string)
	assert.Equal(t, "str", v)

	_, err := New().Generate(context.Background(), contract.Schema{"type": "string", "minLength": 5, "maxLength": 2})
	assert.ErrorIs(t, err, ErrUnsatisfiable)
}

func TestGenerateString_LiteralPattern(t *testing.T) {
	assert.Equal(t, "ACTIVE", generate(t, contract.Schema{"type": "string", "pattern": "^ACTIVE$"}))
}

func TestGenerateString_FieldNames(t *testing.T) {
	obj := generate(t, contract.Schema{
		"type": "object",
		"properties": map[string]any{
			"email":      map[string]any{"type": "string"},
			"created_at": map[string]any{"type": "string"},
			"nickname":   map[string]any{"type": "string"},
		},
	}).(map[string]any)

	assert.Contains(t, obj["email"], "@")
	assert.Contains(t, obj["created_at"], "T")
	assert.Equal(t, "string", obj["nickname"])

	plain, err := New(WithFieldHeuristics(false)).Generate(context.Background(), contract.Schema{
		"type":       "object",
		"properties": map[string]any{"email": map[string]any{"type": "string"}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"email": "string"}, plain)
}

func TestGenerateInteger(t *testing.T) {
	tests := []struct {
		name   string
		schema contract.Schema
		check  func(int64) bool
	}{
		{"default range", contract.Schema{"type": "integer"}, func(v int64) bool { return v >= 0 && v <= 100 }},
		{"bounds", contract.Schema{"type": "integer", "minimum": 10, "maximum": 12}, func(v int64) bool { return v >= 10 && v <= 12 }},
		{"min equals max", contract.Schema{"type": "integer", "minimum": 7, "maximum": 7}, func(v int64) bool { return v == 7 }},
		{"exclusive numeric", contract.Schema{"type": "integer", "exclusiveMinimum": 4, "exclusiveMaximum": 6}, func(v int64) bool { return v == 5 }},
		{"exclusive boolean", contract.Schema{"type": "integer", "minimum": 4, "exclusiveMinimum": true, "maximum": 5}, func(v int64) bool { return v == 5 }},
		{"only maximum", contract.Schema{"type": "integer", "maximum": -50}, func(v int64) bool { return v <= -50 }},
		{"multipleOf", contract.Schema{"type": "integer", "minimum": 1, "maximum": 20, "multipleOf": 7}, func(v int64) bool { return v == 7 || v == 14 }},
		{"wide range", contract.Schema{"type": "integer", "minimum": -5e18, "maximum": 5e18}, func(v int64) bool { return v >= -5e18 && v <= 5e18 }},
		{"maximum beyond int64", contract.Schema{"type": "integer", "minimum": 0, "maximum": 1e19}, func(v int64) bool { return v >= 0 }},
		{"minimum below int64", contract.Schema{"type": "integer", "minimum": -1e19, "maximum": 0}, func(v int64) bool { return v <= 0 }},
		{"only minimum near max", contract.Schema{"type": "integer", "minimum": 9.2e18}, func(v int64) bool { return v >= 9.2e18 }},
		{"only maximum near min", contract.Schema{"type": "integer", "maximum": -9.2e18}, func(v int64) bool { return v <= -9.2e18 }},
		{"full int64 range", contract.Schema{"type": "integer", "minimum": math.MinInt64, "maximum": math.MaxInt64}, func(int64) bool { return true }},
		{"multipleOf wide range", contract.Schema{"type": "integer", "minimum": -5e18, "maximum": 5e18, "multipleOf": 3}, func(v int64) bool { return v%3 == 0 }},
		{"multipleOf beyond int64", contract.Schema{"type": "integer", "minimum": -1, "maximum": 1, "multipleOf": 1e19}, func(v int64) bool { return v == 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := generate(t, tt.schema).(int64)
			require.True(t, ok)
			assert.True(t, tt.check(v), "got %d", v)
		})
	}
}

func TestGenerateNumber(t *testing.T) {
	v, ok := generate(t, contract.Schema{"type": "number", "minimum": 1.5, "maximum": 2.5}).(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, v, 1.5)
	assert.LessOrEqual(t, v, 2.5)

	v = generate(t, contract.Schema{"type": "number", "minimum": 0.25, "maximum": 0.35, "multipleOf": 0.1}).(float64)
	assert.Equal(t, 0.3, v)
}

func TestGenerate_Unsatisfiable(t *testing.T) {
	tests := []struct {
		name   string
		schema contract.Schema
	}{
		{"minimum above maximum", contract.Schema{"type": "integer", "minimum": 5, "maximum": 1}},
		{"empty exclusive range", contract.Schema{"type": "number", "minimum": 1, "maximum": 1, "exclusiveMaximum": true}},
		{"minItems above maxItems", contract.Schema{"type": "array", "minItems": 3, "maxItems": 1}},
		{"false items", contract.Schema{"type": "array", "minItems": 1, "items": false}},
		{"no multiple in range", contract.Schema{"type": "integer", "minimum": 1, "maximum": 5, "multipleOf": 10}},
		{"no multiple near int64 max", contract.Schema{"type": "integer", "minimum": 9.2e18, "multipleOf": 1e18}},
		{"range above int64", contract.Schema{"type": "integer", "minimum": 1e19, "maximum": 2e19}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Generate(context.Background(), tt.schema)
			assert.ErrorIs(t, err, ErrUnsatisfiable)
		})
	}
}

func TestGenerateArray(t *testing.T) {
	got := generate(t, contract.Schema{"type": "array", "items": map[string]any{"type": "string"}}).([]any)
	assert.Len(t, got, 1)

	got = generate(t, contract.Schema{"type": "array", "minItems": 5, "items": map[string]any{"type": "boolean"}}).([]any)
	assert.Len(t, got, 5)

	got = generate(t, contract.Schema{"type": "array", "maxItems": 0}).([]any)
	assert.Empty(t, got)

	got = generate(t, contract.Schema{"type": "array", "minItems": 2, "uniqueItems": true}).([]any)
	assert.Equal(t, []any{"item", "item2"}, got)
}

func TestGenerateObject_MinProperties(t *testing.T) {
	got := generate(t, contract.Schema{"type": "object", "minProperties": 2}).(map[string]any)
	assert.Len(t, got, 2)

	_, err := New().Generate(context.Background(), contract.Schema{
		"type": "object", "minProperties": 1, "additionalProperties": false,
	})
	assert.ErrorIs(t, err, ErrUnsatisfiable)
}

// --- properties ---

func TestGenerate_Idempotent(t *testing.T) {
	schema := contract.Schema{
		"type": "object",
		"properties": map[string]any{
			"id":    map[string]any{"type": "string", "format": "uuid"},
			"score": map[string]any{"type": "number"},
			"tags":  map[string]any{"type": "array", "minItems": 3, "items": map[string]any{"type": "integer"}},
			"when":  map[string]any{"type": "string", "format": "date-time"},
		},
	}

	gen := New()
	first, err := gen.Generate(context.Background(), schema)
	require.NoError(t, err)
	for range 5 {
		again, err := gen.Generate(context.Background(), schema)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	other, err := New(WithSeed(7)).Generate(context.Background(), schema)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestGenerate_RoundTrip(t *testing.T) {
	schemas := map[string]contract.Schema{
		"pet": petDocument(),
		"order": {
			"type":     "object",
			"required": []any{"id", "quantity", "status", "items"},
			"properties": map[string]any{
				"id":       map[string]any{"type": "string", "format": "uuid"},
				"quantity": map[string]any{"type": "integer", "minimum": 1, "maximum": 9, "multipleOf": 3},
				"price":    map[string]any{"type": "number", "exclusiveMinimum": 0, "maximum": 1},
				"status":   map[string]any{"type": "string", "enum": []any{"placed", "approved"}},
				"note":     map[string]any{"type": []any{"string", "null"}, "maxLength": 4},
				"contact":  map[string]any{"type": "string", "format": "email"},
				"items": map[string]any{
					"type":        "array",
					"minItems":    2,
					"uniqueItems": true,
					"items": map[string]any{
						"type":       "object",
						"required":   []any{"sku"},
						"properties": map[string]any{"sku": map[string]any{"type": "string", "minLength": 8}},
						"additionalProperties": false,
					},
				},
			},
		},
		"allOf": {
			"allOf": []any{
				map[string]any{"type": "object", "required": []any{"a"}, "properties": map[string]any{"a": map[string]any{"type": "integer"}}},
				map[string]any{"type": "object", "required": []any{"b"}, "properties": map[string]any{"b": map[string]any{"type": "string", "format": "date"}}},
			},
		},
	}

	validator := validation.NewJSONSchemaValidator(validation.WithFormatAssertion(true))
	for name, schema := range schemas {
		t.Run(name, func(t *testing.T) {
			v, err := New().Generate(context.Background(), schema)
			require.NoError(t, err)

			diags, err := validator.Validate(context.Background(), v, schema)
			require.NoError(t, err)
			assert.Empty(t, diags, "generated %v", v)
		})
	}
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Generate(ctx, contract.Schema{"type": "string"})
	assert.ErrorIs(t, err, context.Canceled)
}
