package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	sectionRe = regexp.MustCompile(`^\s*\[(?P<name>[^]]+)\]\s*(?:#.*)?$`)
	keyRe     = regexp.MustCompile(`^(?P<key>[^:=\s\[][^:=]*)=\s*(?P<value>.*)$`)
	emptyRe   = regexp.MustCompile(`^\s*($|#|;)`)
	contRe    = regexp.MustCompile(`^\s+(?P<value>.+?)\s*$`)
	includeRe = regexp.MustCompile(`^%include\s+(?P<name>.+?)\s*$`)
)

// unquote strips a single layer of surrounding double quotes and
// resolves backslash escapes. An unquoted value is returned unchanged
// (after trimming a trailing inline comment, handled by
// stripInlineComment).
func unquote(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		inner := trimmed[1 : len(trimmed)-1]
		var b strings.Builder
		for i := 0; i < len(inner); i++ {
			if inner[i] == '\\' && i+1 < len(inner) {
				i++
				b.WriteByte(inner[i])
				continue
			}
			b.WriteByte(inner[i])
		}
		return b.String()
	}
	return trimmed
}

// stripInlineComment trims a trailing ` # ...` comment from an unquoted
// value, respecting quoted runs (a `#` inside a quoted string does not
// start a comment).
func stripInlineComment(value string) string {
	inQuotes := false
	escaped := false
	for i, r := range value {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '"':
			inQuotes = !inQuotes
		case '#':
			if !inQuotes {
				return strings.TrimSpace(value[:i])
			}
		}
	}
	return strings.TrimSpace(value)
}

// ParseFile reads and parses a single file, resolving %include directives
// relative to its directory.
func ParseFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()
	return parse(f, path)
}

// ParseString parses an in-memory config with no associated file path,
// so %include directives are resolved relative to the current directory.
func ParseString(text string) (*Tree, error) {
	return parse(strings.NewReader(text), "")
}

func parse(r io.Reader, path string) (*Tree, error) {
	root := New()
	root.Path = path
	section := root
	var currentKey string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		if emptyRe.MatchString(line) {
			continue
		}

		if m := sectionRe.FindStringSubmatch(line); m != nil {
			name := m[sectionRe.SubexpIndex("name")]
			if existing, ok := root.Get(name).(*Tree); ok {
				section = existing
			} else {
				section = root.Sub(name)
			}
			root.source[name] = Provenance{Path: path, StartLine: lineno, EndLine: lineno}
			currentKey = ""
			continue
		}

		if m := keyRe.FindStringSubmatch(line); m != nil {
			key := OptionName(m[keyRe.SubexpIndex("key")])
			value := unquote(stripInlineComment(m[keyRe.SubexpIndex("value")]))
			section.Set(key, value, Provenance{Path: path, StartLine: lineno, EndLine: lineno})
			currentKey = key
			continue
		}

		if m := contRe.FindStringSubmatch(line); m != nil {
			if currentKey == "" {
				return nil, &ContinuationError{Path: path, Line: lineno}
			}
			existing := section.GetString(currentKey)
			appended := existing + unquote(stripInlineComment(m[contRe.SubexpIndex("value")]))
			prov, _ := section.SourceOf(currentKey)
			prov.EndLine = lineno
			section.Set(currentKey, appended, prov)
			continue
		}

		if m := includeRe.FindStringSubmatch(line); m != nil {
			incPath := m[includeRe.SubexpIndex("name")]
			if !filepath.IsAbs(incPath) {
				base := "."
				if path != "" {
					base = filepath.Dir(path)
				}
				incPath = filepath.Join(base, incPath)
			}
			sub, err := ParseFile(incPath)
			if err != nil {
				return nil, err
			}
			if err := root.Merge(sub); err != nil {
				return nil, err
			}
			continue
		}

		return nil, &ParseError{Path: path, Line: lineno, Text: line}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return root, nil
}

// ReadFiles parses each path in order and merges them into a single tree,
// later files overwriting options from earlier ones.
func ReadFiles(paths []string) (*Tree, error) {
	out := New()
	for _, p := range paths {
		cfg, err := ParseFile(p)
		if err != nil {
			return nil, err
		}
		if err := out.Merge(cfg); err != nil {
			return nil, err
		}
		out.Path = p
	}
	return out, nil
}
