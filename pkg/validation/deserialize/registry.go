package deserialize

import (
	"sync"
	"sync/atomic"

	"github.com/getmockd/oasmock/pkg/contract"
)

// Deserializer converts the raw values of one parameter into a structured
// value. values holds every raw value of the parameter's location keyed by
// name; most styles only read values[name], deepObject reads name[...] keys.
type Deserializer interface {
	Supports(style contract.Style) bool
	Deserialize(name string, values map[string][]string, schema contract.Schema, explode bool) any
}

// Registry is an ordered list of deserializers. Lookups work on an immutable
// snapshot, so a concurrent Register is observed either completely or not at
// all.
type Registry struct {
	mu   sync.Mutex // serializes writers
	list atomic.Pointer[[]Deserializer]
}

// NewRegistry creates a registry holding ds in order.
func NewRegistry(ds ...Deserializer) *Registry {
	r := &Registry{}
	snapshot := append([]Deserializer(nil), ds...)
	r.list.Store(&snapshot)
	return r
}

// NewDefaultRegistry creates a registry with every built-in style.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		FormDeserializer{},
		NewDelimitedDeserializer(contract.StyleSpaceDelimited, " "),
		NewDelimitedDeserializer(contract.StylePipeDelimited, "|"),
		DeepObjectDeserializer{},
		SimpleDeserializer{},
		LabelDeserializer{},
		MatrixDeserializer{},
	)
}

// Register appends d after the existing deserializers.
func (r *Registry) Register(d Deserializer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.snapshot()
	next := make([]Deserializer, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, d)
	r.list.Store(&next)
}

// Get returns the first registered deserializer supporting style.
func (r *Registry) Get(style contract.Style) (Deserializer, bool) {
	for _, d := range r.snapshot() {
		if d.Supports(style) {
			return d, true
		}
	}
	return nil, false
}

// Len returns the number of registered deserializers.
func (r *Registry) Len() int {
	return len(r.snapshot())
}

func (r *Registry) snapshot() []Deserializer {
	if p := r.list.Load(); p != nil {
		return *p
	}
	return nil
}
