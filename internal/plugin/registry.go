// Package plugin implements a static plugin registry: dynamic dispatch
// over a (namespace, name) pair through an explicit, in-process
// registry of constructors built at init() time, rather than a dynamic
// import or setuptools entrypoint lookup.
package plugin

import (
	"log/slog"
	"sort"
)

// Constructor builds a new plugin instance for a given registered name.
type Constructor func(name string) interface{}

// Registry is a namespace -> name -> Constructor table. The zero value
// is ready to use. A Registry is safe to read from concurrently once
// all Register calls (normally made from package init funcs) have
// completed; it performs no locking of its own since registration is
// expected to happen once, at build time.
type Registry struct {
	namespaces map[string]map[string]Constructor
	// insertion order per namespace, for Iterate and for "last wins"
	// diagnostics.
	order map[string][]string
}

func NewRegistry() *Registry {
	return &Registry{
		namespaces: make(map[string]map[string]Constructor),
		order:      make(map[string][]string),
	}
}

// Register adds ctor under name (and each alias) within namespace. If a
// name is already registered, the new registration wins and a debug log
// line records the overwrite rather than raising an error, since
// re-registration is how tests substitute fixture plugins for real ones.
func (r *Registry) Register(namespace, name string, aliases []string, ctor Constructor) {
	if r.namespaces[namespace] == nil {
		r.namespaces[namespace] = make(map[string]Constructor)
	}
	for _, n := range append([]string{name}, aliases...) {
		if _, exists := r.namespaces[namespace][n]; exists {
			slog.Default().Debug("plugin: name already registered, overwriting", "namespace", namespace, "name", n)
		} else {
			r.order[namespace] = append(r.order[namespace], n)
		}
		r.namespaces[namespace][n] = ctor
	}
}

// Load constructs the plugin registered under (namespace, name).
func (r *Registry) Load(namespace, name string) (interface{}, error) {
	ns, ok := r.namespaces[namespace]
	if !ok {
		return nil, &NotFoundError{Namespace: namespace}
	}
	ctor, ok := ns[name]
	if !ok {
		return nil, &NotFoundError{Namespace: namespace, Name: name}
	}
	return ctor(name), nil
}

// Iterate constructs one instance per distinct registered name in
// namespace, in registration order. Unlike Load, a missing namespace
// simply yields no results rather than an error.
func (r *Registry) Iterate(namespace string) []interface{} {
	ns := r.namespaces[namespace]
	if ns == nil {
		return nil
	}
	// Every registered name (including aliases) gets its own entry, in
	// registration order: an alias is a second key pointing at the same
	// constructor.
	var out []interface{}
	for _, name := range r.order[namespace] {
		out = append(out, ns[name](name))
	}
	return out
}

// Names returns the registered names (including aliases) within
// namespace, in registration order.
func (r *Registry) Names(namespace string) []string {
	out := make([]string, len(r.order[namespace]))
	copy(out, r.order[namespace])
	return out
}

// Namespaces returns the set of namespaces with at least one
// registration.
func (r *Registry) Namespaces() []string {
	out := make([]string, 0, len(r.namespaces))
	for ns := range r.namespaces {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}
