package plugin

import "log/slog"

// Loader abstracts where a plugin instance comes from. Load must
// propagate any failure to construct a named plugin. Iterate must
// swallow per-plugin construction failures (logging them) rather than
// aborting the whole enumeration, since Iterate is used for
// best-effort discovery (e.g. the hook pipeline loading every
// registered hook) where one broken plugin shouldn't block the rest.
type Loader interface {
	Load(namespace, name string) (interface{}, error)
	Iterate(namespace string) []interface{}
}

// RegistryLoader adapts a Registry to the Loader interface.
type RegistryLoader struct {
	Registry *Registry
}

func (l RegistryLoader) Load(namespace, name string) (interface{}, error) {
	return l.Registry.Load(namespace, name)
}

func (l RegistryLoader) Iterate(namespace string) []interface{} {
	return l.Registry.Iterate(namespace)
}

// ChainedLoader tries each Loader in order. Load returns the first
// success; if every loader fails, it returns the last error seen.
// Iterate concatenates every loader's results in chain order; since
// Loader.Iterate returns no error, there is nothing for it to log or
// skip.
type ChainedLoader struct {
	Loaders []Loader
	Logger  *slog.Logger
}

func (c ChainedLoader) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c ChainedLoader) Load(namespace, name string) (interface{}, error) {
	var lastErr error
	for _, l := range c.Loaders {
		v, err := l.Load(namespace, name)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = &NotFoundError{Namespace: namespace, Name: name}
	}
	return nil, lastErr
}

func (c ChainedLoader) Iterate(namespace string) []interface{} {
	var out []interface{}
	for _, l := range c.Loaders {
		out = append(out, l.Iterate(namespace)...)
	}
	return out
}
