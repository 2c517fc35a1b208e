package validation

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/getmockd/oasmock/internal/mediatype"
	"github.com/getmockd/oasmock/pkg/contract"
	"github.com/getmockd/oasmock/pkg/validation/deserialize"
)

// MediaValidator checks decoded bodies of the media types it supports.
type MediaValidator interface {
	Supports(mediaType string) bool
	Validate(ctx context.Context, body any, schema contract.Schema) (Diagnostics, error)
}

// MediaRegistry is an ordered list of media validators. Like
// deserialize.Registry, lookups work on an immutable snapshot.
type MediaRegistry struct {
	mu   sync.Mutex
	list atomic.Pointer[[]MediaValidator]
}

// NewMediaRegistry creates a registry holding vs in order.
func NewMediaRegistry(vs ...MediaValidator) *MediaRegistry {
	r := &MediaRegistry{}
	snapshot := append([]MediaValidator(nil), vs...)
	r.list.Store(&snapshot)
	return r
}

// NewDefaultMediaRegistry validates JSON and YAML documents as decoded, and
// form and XML bodies after coercing their text leaves. Other media types
// have no validator.
func NewDefaultMediaRegistry(schemas SchemaValidator) *MediaRegistry {
	return NewMediaRegistry(
		DocumentValidator{Schemas: schemas},
		EncodedValidator{Schemas: schemas},
	)
}

// Register appends v after the existing validators.
func (r *MediaRegistry) Register(v MediaValidator) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.snapshot()
	next := make([]MediaValidator, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, v)
	r.list.Store(&next)
}

// Get returns the first validator supporting mediaType. Parameters and case
// of mediaType are ignored.
func (r *MediaRegistry) Get(mediaType string) (MediaValidator, bool) {
	mt := mediatype.Normalize(mediaType)
	for _, v := range r.snapshot() {
		if v.Supports(mt) {
			return v, true
		}
	}
	return nil, false
}

// Len returns the number of registered validators.
func (r *MediaRegistry) Len() int {
	return len(r.snapshot())
}

func (r *MediaRegistry) snapshot() []MediaValidator {
	if p := r.list.Load(); p != nil {
		return *p
	}
	return nil
}

// DocumentValidator handles JSON (including +json) and YAML bodies, whose
// decoded values already carry their types.
type DocumentValidator struct {
	Schemas SchemaValidator
}

// Supports implements MediaValidator.
func (DocumentValidator) Supports(mediaType string) bool {
	return mediatype.IsJSON(mediaType) || mediatype.IsYAML(mediaType)
}

// Validate implements MediaValidator.
func (v DocumentValidator) Validate(ctx context.Context, body any, schema contract.Schema) (Diagnostics, error) {
	return v.Schemas.Validate(ctx, body, schema)
}

// EncodedValidator handles form and XML bodies. Their leaves decode as
// text, so they are coerced to the schema's scalar types first.
type EncodedValidator struct {
	Schemas SchemaValidator
}

// Supports implements MediaValidator.
func (EncodedValidator) Supports(mediaType string) bool {
	return mediatype.IsForm(mediaType) || mediatype.IsXML(mediaType)
}

// Validate implements MediaValidator.
func (v EncodedValidator) Validate(ctx context.Context, body any, schema contract.Schema) (Diagnostics, error) {
	return v.Schemas.Validate(ctx, deserialize.Coerce(body, schema), schema)
}
