package config

import (
	"fmt"
	"log/slog"
)

// Configspec is a Tree whose string leaves are configspec check
// expressions (e.g. `integer(default=1, min=0)`) rather than plain
// values. Validate walks a parsed config Tree against it.
type Configspec struct {
	*Tree
}

// NewConfigspec parses a configspec document with the same grammar as a
// regular config file.
func NewConfigspec(text string) (*Configspec, error) {
	tree, err := ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("config: parsing configspec: %w", err)
	}
	return &Configspec{Tree: tree}, nil
}

// ValidateOptions controls Validate's tolerance for config keys the
// configspec doesn't know about.
type ValidateOptions struct {
	// SuppressMissing skips the pass that warns about and removes config
	// keys the configspec does not define.
	SuppressMissing bool
	// IgnoreUnknownSections skips the "unknown section" warning for
	// subsections with no configspec entry. Such subsections are left
	// as they are either way: their options are neither checked nor
	// removed.
	IgnoreUnknownSections bool
	Logger                *slog.Logger
}

// Validate checks cfg against the configspec, filling in defaults,
// applying each value's validator, renaming aliased keys, and removing
// (with a logged warning) any key cfg has that the configspec does not
// define. It mutates cfg in place and returns it, or a *ValidationError
// aggregating every problem found.
func (cs *Configspec) Validate(cfg *Tree, opts ValidateOptions) (*Tree, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	verr := &ValidationError{}
	cs.validateSection(cfg, cfg, verr, opts)
	if !opts.SuppressMissing {
		cs.checkMissing(cfg, cfg, verr, opts)
	}
	if len(verr.Issues) > 0 {
		return cfg, verr
	}
	return cfg, nil
}

func (cs *Configspec) validateSection(specNode, cfgNode *Tree, verr *ValidationError, opts ValidateOptions) {
	for _, key := range specNode.Keys() {
		v := specNode.Get(key)
		if subspec, ok := v.(*Tree); ok {
			subcfg, ok := cfgNode.Get(key).(*Tree)
			if !ok {
				subcfg = cfgNode.Sub(key)
			}
			cs.validateSection(subspec, subcfg, verr, opts)
			continue
		}
		cs.validateOption(key, specNode, cfgNode, verr, opts)
	}
}

func (cs *Configspec) validateOption(key string, specNode, cfgNode *Tree, verr *ValidationError, opts ValidateOptions) {
	raw := specNode.GetString(key)
	check, err := ParseCheck(raw)
	if err != nil {
		verr.add(ValidationIssue{Section: cfgNode.Section, Key: key, Message: err.Error()})
		return
	}

	value := cfgNode.GetString(key)
	present := cfgNode.Has(key)
	if !present {
		if check.IsAlias() {
			opts.Logger.Debug("config: alias target absent, skipping", "key", key)
			return
		}
		if check.HasDefault {
			value = check.Default
		}
	}

	validator, err := LoadValidator(check)
	if err != nil {
		verr.add(ValidationIssue{Section: cfgNode.Section, Key: key, Message: err.Error()})
		return
	}
	converted, err := validator.Validate(check, value)
	if err != nil {
		prov, _ := cfgNode.SourceOf(key)
		verr.add(ValidationIssue{
			Section: cfgNode.Section, Key: key,
			Message: err.Error(), Source: prov,
		})
		return
	}

	// Replace the raw string with its validated Go value; callers that
	// need the canonical string form use validator.Format.
	cfgNode.setRaw(key, converted)
	if !present {
		if prov, ok := specNode.SourceOf(key); ok {
			cfgNode.source[key] = prov
		}
	}

	if check.IsAlias() {
		if !cfgNode.Has(check.AliasOf) || cfgNode.IsAfter(key, check.AliasOf) {
			cfgNode.Rename(key, check.AliasOf)
		} else {
			cfgNode.Delete(key)
		}
	}
}

func (cs *Configspec) checkMissing(specNode, cfgNode *Tree, verr *ValidationError, opts ValidateOptions) {
	for _, key := range cfgNode.Keys() {
		v := cfgNode.Get(key)
		if sub, ok := v.(*Tree); ok {
			specSub, hasSpec := specNode.Get(key).(*Tree)
			if !hasSpec {
				if !opts.IgnoreUnknownSections {
					opts.Logger.Warn("config: unknown section", "section", key)
				}
				continue
			}
			cs.checkMissing(specSub, sub, verr, opts)
			continue
		}
		if !specNode.Has(key) {
			prov, _ := cfgNode.SourceOf(key)
			opts.Logger.Warn("config: unknown option",
				"key", key, "section", cfgNode.Section,
				"source", prov.Path, "line", prov.StartLine)
			cfgNode.Delete(key)
		}
	}
}
