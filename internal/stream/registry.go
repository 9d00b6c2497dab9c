package stream

import "github.com/holland-backup/holland/internal/plugin"

var registry = plugin.NewRegistry()

// Register adds a stream plugin constructor under name (plus any
// aliases) in the stream namespace.
func Register(name string, aliases []string, ctor func(name string) Plugin) {
	registry.Register(Namespace, name, aliases, func(n string) interface{} {
		return ctor(n)
	})
}

// Load constructs the stream plugin registered under name.
func Load(name string) (Plugin, error) {
	v, err := registry.Load(Namespace, name)
	if err != nil {
		return nil, err
	}
	return v.(Plugin), nil
}

// List returns the name of every registered stream plugin.
func List() []string {
	return registry.Names(Namespace)
}
