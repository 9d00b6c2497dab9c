// Package config implements the ini-like configuration format used for
// both the global holland config and per-backupset configs: an ordered
// tree of sections and string options, each option carrying the source
// file and line range it was read from.
package config

import (
	"strings"
)

// Provenance records where a key's value came from: the path it was read
// from and the (possibly multi-line, via continuation) line range.
type Provenance struct {
	Path      string
	StartLine int
	EndLine   int
}

// Tree is an ordered map of keys to either string values or nested *Tree
// sections, preserving insertion order and per-key provenance. The zero
// value is a usable, empty, unnamed root tree.
type Tree struct {
	// Section is this tree's own name ("" for the root).
	Section string
	// Path is the file this tree was parsed from, or "" if constructed
	// in memory.
	Path string

	order  []string
	values map[string]interface{} // string or *Tree
	source map[string]Provenance
}

func New() *Tree {
	return &Tree{
		values: make(map[string]interface{}),
		source: make(map[string]Provenance),
	}
}

func (t *Tree) ensure() {
	if t.values == nil {
		t.values = make(map[string]interface{})
	}
	if t.source == nil {
		t.source = make(map[string]Provenance)
	}
}

// Keys returns the keys of this tree in insertion order.
func (t *Tree) Keys() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Has reports whether key is present directly on this tree (not a
// descendant).
func (t *Tree) Has(key string) bool {
	t.ensure()
	_, ok := t.values[key]
	return ok
}

// Get returns the raw value stored under key: a string for an option, a
// *Tree for a subsection, or nil if absent.
func (t *Tree) Get(key string) interface{} {
	t.ensure()
	return t.values[key]
}

// GetString returns the string option stored under key, or "" if absent
// or if the value is a subsection.
func (t *Tree) GetString(key string) string {
	if v, ok := t.Get(key).(string); ok {
		return v
	}
	return ""
}

// Sub returns the subsection stored under key, creating and
// inserting an empty one if absent. It panics if key already names a
// string option — callers should check Has/Get first when that matters.
func (t *Tree) Sub(key string) *Tree {
	t.ensure()
	if v, ok := t.values[key]; ok {
		if sub, ok := v.(*Tree); ok {
			return sub
		}
		panic("config: " + key + " is an option, not a section")
	}
	sub := New()
	sub.Section = key
	t.setRaw(key, sub)
	return sub
}

// Set stores a string option under key, appending it to the order if new.
func (t *Tree) Set(key, value string, prov Provenance) {
	t.setRaw(key, value)
	t.ensure()
	t.source[key] = prov
}

func (t *Tree) setRaw(key string, value interface{}) {
	t.ensure()
	if _, exists := t.values[key]; !exists {
		t.order = append(t.order, key)
	}
	t.values[key] = value
}

// SourceOf returns the provenance recorded for key, if any.
func (t *Tree) SourceOf(key string) (Provenance, bool) {
	t.ensure()
	p, ok := t.source[key]
	return p, ok
}

// IsAfter reports whether key1 appears later in insertion order than key2.
func (t *Tree) IsAfter(key1, key2 string) bool {
	idx := func(k string) int {
		for i, key := range t.order {
			if key == k {
				return i
			}
		}
		return -1
	}
	return idx(key1) > idx(key2)
}

// Rename moves the value stored under oldKey to newKey, preserving its
// relative position among the other keys, then drops oldKey.
func (t *Tree) Rename(oldKey, newKey string) {
	t.ensure()
	if !t.Has(oldKey) {
		return
	}
	t.values[newKey] = t.values[oldKey]
	if p, ok := t.source[oldKey]; ok {
		t.source[newKey] = p
	}

	rest := make([]string, 0, len(t.order))
	for _, k := range t.order {
		switch k {
		case newKey:
			continue
		case oldKey:
			rest = append(rest, newKey)
		default:
			rest = append(rest, k)
		}
	}
	t.order = rest

	delete(t.values, oldKey)
	delete(t.source, oldKey)
}

// Delete removes key from this tree.
func (t *Tree) Delete(key string) {
	t.ensure()
	if !t.Has(key) {
		return
	}
	delete(t.values, key)
	delete(t.source, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// OptionName canonicalizes an option key: underscores become hyphens,
// so `some_key` and `some-key` refer to the same option.
func OptionName(key string) string {
	return strings.ReplaceAll(strings.TrimSpace(key), "_", "-")
}

// Merge copies every option and subsection from src into t, overwriting
// any option already present in t. Subsections are merged recursively.
// Merge returns an error if src tries to overwrite an option with a
// section or vice versa.
func (t *Tree) Merge(src *Tree) error {
	t.ensure()
	for _, key := range src.order {
		v := src.values[key]
		if sub, ok := v.(*Tree); ok {
			existing, isSection := t.Get(key).(*Tree)
			if t.Has(key) && !isSection {
				return &mergeConflictError{key: key}
			}
			if !t.Has(key) {
				existing = t.Sub(key)
			}
			if err := existing.Merge(sub); err != nil {
				return err
			}
			continue
		}
		if _, isSection := t.Get(key).(*Tree); isSection {
			return &mergeConflictError{key: key}
		}
		t.Set(key, v.(string), src.source[key])
	}
	return nil
}

// Meld copies every option and subsection from src into t that is not
// already present in t. Existing values in t are always preserved.
func (t *Tree) Meld(src *Tree) error {
	t.ensure()
	for _, key := range src.order {
		v := src.values[key]
		if sub, ok := v.(*Tree); ok {
			existing, isSection := t.Get(key).(*Tree)
			if t.Has(key) && !isSection {
				return &mergeConflictError{key: key}
			}
			if !t.Has(key) {
				existing = t.Sub(key)
				if p, ok := src.source[key]; ok {
					t.source[key] = p
				}
			}
			if err := existing.Meld(sub); err != nil {
				return err
			}
			continue
		}
		if !t.Has(key) {
			t.Set(key, v.(string), src.source[key])
		}
	}
	return nil
}

type mergeConflictError struct{ key string }

func (e *mergeConflictError) Error() string {
	return "config: value-namespace conflict merging key " + e.key
}
