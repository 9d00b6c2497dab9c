package config

import "fmt"

// ParseError describes a syntax error encountered while reading a config
// file: an unrecognized line that matches none of the grammar productions.
type ParseError struct {
	Path string
	Line int
	Text string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: invalid line %d: %q", e.Line, e.Text)
	}
	return fmt.Sprintf("config: %s:%d: invalid line: %q", e.Path, e.Line, e.Text)
}

// ContinuationError is raised when a continuation line appears before any
// key has been seen in the current section.
type ContinuationError struct {
	Path string
	Line int
}

func (e *ContinuationError) Error() string {
	return fmt.Sprintf("config: %s:%d: unexpected continuation line", e.Path, e.Line)
}

// ValidationIssue is one error produced while validating a config against
// a Configspec. Source carries the provenance of the offending key, when
// known, so the message can point back at a file and line range.
type ValidationIssue struct {
	Section string
	Key     string
	Message string
	Source  Provenance
}

func (i ValidationIssue) String() string {
	if i.Source.Path == "" {
		return fmt.Sprintf("[%s] -> %s: %s", i.Section, i.Key, i.Message)
	}
	if i.Source.StartLine == i.Source.EndLine {
		return fmt.Sprintf("%s: source line %d: [%s] -> %s: %s",
			i.Source.Path, i.Source.StartLine, i.Section, i.Key, i.Message)
	}
	return fmt.Sprintf("%s: source line %d-%d: [%s] -> %s: %s",
		i.Source.Path, i.Source.StartLine, i.Source.EndLine, i.Section, i.Key, i.Message)
}

// ValidationError aggregates every ValidationIssue produced by a single
// Configspec.Validate call. A config with no errors produces a nil
// *ValidationError, never an empty non-nil one.
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("1 validation error encountered\n%s", e.Issues[0])
	}
	msg := fmt.Sprintf("%d validation errors encountered", len(e.Issues))
	for _, issue := range e.Issues {
		msg += "\n" + issue.String()
	}
	return msg
}

func (e *ValidationError) add(issue ValidationIssue) {
	e.Issues = append(e.Issues, issue)
}
