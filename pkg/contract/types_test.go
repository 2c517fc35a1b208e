package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseDef_StatusCode(t *testing.T) {
	tests := []struct {
		code     string
		fallback int
		want     int
	}{
		{"200", 500, 200},
		{"422", 500, 422},
		{"2XX", 500, 200},
		{"4xx", 500, 400},
		{"default", 200, 200},
		{"9XX", 500, 500},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			r := ResponseDef{Code: tt.code}
			assert.Equal(t, tt.want, r.StatusCode(tt.fallback))
		})
	}
}

func TestResponseDef_Classes(t *testing.T) {
	assert.True(t, (&ResponseDef{Code: "201"}).IsSuccess())
	assert.True(t, (&ResponseDef{Code: "2XX"}).IsSuccess())
	assert.False(t, (&ResponseDef{Code: "default"}).IsSuccess())
	assert.True(t, (&ResponseDef{Code: "422"}).IsClientError())
	assert.False(t, (&ResponseDef{Code: "500"}).IsClientError())
}

func TestResource_FindResponse_CaseInsensitive(t *testing.T) {
	res := Resource{Responses: []ResponseDef{{Code: "200"}, {Code: "4XX"}}}

	got, ok := res.FindResponse("4xx")
	assert.True(t, ok)
	assert.Equal(t, "4XX", got.Code)

	_, ok = res.FindResponse("205")
	assert.False(t, ok)
}

func TestParameter_Defaults(t *testing.T) {
	q := Parameter{Name: "q", In: LocationQuery}
	assert.Equal(t, StyleForm, q.EffectiveStyle())
	assert.True(t, q.EffectiveExplode())

	h := Parameter{Name: "X-Id", In: LocationHeader}
	assert.Equal(t, StyleSimple, h.EffectiveStyle())
	assert.False(t, h.EffectiveExplode())

	explode := true
	p := Parameter{Name: "id", In: LocationPath, Style: StyleLabel, Explode: &explode}
	assert.Equal(t, StyleLabel, p.EffectiveStyle())
	assert.True(t, p.EffectiveExplode())
}

func TestContent_FindExample(t *testing.T) {
	c := Content{MediaType: "application/json", Examples: []Example{
		{Key: "first", Value: 1},
		{Key: "second", Value: 2},
	}}

	ex, ok := c.FindExample("second")
	assert.True(t, ok)
	assert.Equal(t, 2, ex.Value)

	_, ok = c.FindExample("Second")
	assert.False(t, ok)
}

func TestSchema_Helpers(t *testing.T) {
	root := Schema{
		"type": "object",
		"properties": map[string]any{
			"pet": map[string]any{"$ref": "#/components/schemas/Pet"},
			"ids": map[string]any{"type": "array", "items": map[string]any{"type": "integer"}},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"Pet": map[string]any{"type": []any{"null", "object"}},
			},
		},
	}

	assert.Equal(t, "object", root.Type())
	assert.Equal(t, "integer", root.Property("ids").Items().Type())
	assert.Nil(t, root.Property("missing"))

	pet := root.Deref(root.Property("pet"))
	assert.Equal(t, "object", pet.Type())

	_, ok := root.Resolve("#/components/schemas/Missing")
	assert.False(t, ok)
	_, ok = root.Resolve("other.json#/x")
	assert.False(t, ok)

	assert.Equal(t, "object", Schema{"properties": map[string]any{}}.Type())
	assert.Equal(t, "", Schema(nil).Type())
}

func TestSchema_DerefChains(t *testing.T) {
	root := Schema{
		"$ref": "#/components/schemas/Limit",
		"components": map[string]any{
			"schemas": map[string]any{
				"Limit": map[string]any{"$ref": "#/components/schemas/Count"},
				"Count": map[string]any{"type": "integer"},
				"Loop":  map[string]any{"$ref": "#/components/schemas/Loop"},
			},
		},
	}

	assert.Equal(t, "integer", root.Deref(root).Type())

	loop := Schema{"$ref": "#/components/schemas/Loop"}
	assert.Equal(t, "#/components/schemas/Loop", root.Deref(loop).Ref())

	dangling := Schema{"$ref": "#/components/schemas/Missing"}
	assert.Equal(t, dangling, root.Deref(dangling))
}
