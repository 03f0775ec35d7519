package resource

import "sync"

// Constructor builds an empty resource of a concrete type from its shared attributes.
type Constructor func(b Base) Resource

// Registry maps (datatype, kind) to the constructor used when resources are
// rebuilt from serialized units.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]map[Kind]Constructor
}

// NewRegistry returns a registry holding only the built-in variants.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]map[Kind]Constructor)}
}

// Default is the process-wide registry consulted by the XLIFF engine.
var Default = NewRegistry()

var builtins = map[Kind]Constructor{
	KindString: func(b Base) Resource { return NewString(b, "", "") },
	KindArray:  func(b Base) Resource { return NewArray(b, nil, nil) },
	KindPlural: func(b Base) Resource { return NewPlural(b, nil, nil) },
}

// Register installs ctor for the datatype and kind, replacing any earlier one.
func (r *Registry) Register(datatype string, kind Kind, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byKind, ok := r.ctors[datatype]
	if !ok {
		byKind = make(map[Kind]Constructor)
		r.ctors[datatype] = byKind
	}
	byKind[kind] = ctor
}

// Unregister removes every registration for the datatype.
func (r *Registry) Unregister(datatype string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ctors, datatype)
}

// Reset drops all registrations.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors = make(map[string]map[Kind]Constructor)
}

// Lookup returns the constructor registered for the datatype and kind.
func (r *Registry) Lookup(datatype string, kind Kind) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.ctors[datatype][kind]
	return ctor, ok
}

// New builds a resource for b.Datatype and kind, falling back to the
// built-in variant when nothing is registered.
func (r *Registry) New(b Base, kind Kind) Resource {
	if ctor, ok := r.Lookup(b.Datatype, kind); ok {
		return ctor(b)
	}
	ctor, ok := builtins[kind]
	if !ok {
		ctor = builtins[KindString]
	}
	return ctor(b)
}

// Register installs ctor in the default registry.
func Register(datatype string, kind Kind, ctor Constructor) {
	Default.Register(datatype, kind, ctor)
}

// Unregister removes a datatype from the default registry.
func Unregister(datatype string) {
	Default.Unregister(datatype)
}

// ResetRegistry restores the default registry to the built-ins only.
func ResetRegistry() {
	Default.Reset()
}

// ContextStringConstructor adapts NewContextString to the registry.
func ContextStringConstructor(b Base) Resource {
	return NewContextString(b, "", "")
}
