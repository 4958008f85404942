package generator

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Placeholder is the value produced for an unrecognised type tag.
const Placeholder = "unknown"

// Params is what a Factory receives when a column is resolved.
type Params struct {
	Modifier    string
	HasModifier bool
	Rows        int // number of cells the column will hold
}

// Factory builds the generator for one column.
type Factory func(p Params) Generator

// Registry maps type tags to generator factories.
// Tags without a factory resolve to a placeholder generator.
type Registry struct {
	mu        sync.RWMutex
	factories map[TypeTag]Factory
	fallback  Factory
}

// NewRegistry returns an empty registry whose fallback yields Placeholder.
func NewRegistry() *Registry {
	placeholder := Constant(Placeholder)
	return &Registry{
		factories: make(map[TypeTag]Factory),
		fallback:  func(Params) Generator { return placeholder },
	}
}

// Register adds a factory for tag.
// Panics if the tag is TagUnknown or already registered.
func (r *Registry) Register(tag TypeTag, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tag == TagUnknown {
		panic("generator: cannot register TagUnknown")
	}
	if _, exists := r.factories[tag]; exists {
		panic(fmt.Sprintf("generator already registered: %s", tag))
	}

	r.factories[tag] = f
}

// Resolve returns the generator for a schema type tag. It never fails:
// unknown or unregistered tags get the placeholder generator.
func (r *Registry) Resolve(typeTag string, p Params) Generator {
	tag := LookupTag(typeTag)

	r.mu.RLock()
	f, ok := r.factories[tag]
	r.mu.RUnlock()

	if !ok {
		slog.Debug("no generator for type tag, using placeholder", "type", typeTag)
		return r.fallback(p)
	}
	return f(p)
}

// Tags returns the registered tags in declaration order.
func (r *Registry) Tags() []TypeTag {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]TypeTag, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}
