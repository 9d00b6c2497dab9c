package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Validator converts a raw string config value to a validated Go value
// (Validate) and formats a Go value back to its string config
// representation (Format). Every configspec check name below maps to
// exactly one Validator.
type Validator interface {
	Validate(check Check, value string) (interface{}, error)
	Format(value interface{}) string
}

var validatorRegistry = map[string]Validator{}

func registerValidator(names []string, v Validator) {
	for _, n := range names {
		validatorRegistry[n] = v
	}
}

// LoadValidator looks up the validator named by check.Name.
func LoadValidator(check Check) (Validator, error) {
	v, ok := validatorRegistry[check.Name]
	if !ok {
		return nil, fmt.Errorf("config: no validator found for check %q", check.Name)
	}
	return v, nil
}

func init() {
	registerValidator([]string{"boolean"}, boolValidator{})
	registerValidator([]string{"float"}, floatValidator{})
	registerValidator([]string{"percent"}, percentValidator{})
	registerValidator([]string{"integer"}, intValidator{})
	registerValidator([]string{"string"}, stringValidator{})
	registerValidator([]string{"option"}, optionValidator{})
	registerValidator([]string{"list", "force_list"}, listValidator{})
	registerValidator([]string{"tuple"}, tupleValidator{})
	registerValidator([]string{"set"}, setValidator{})
	registerValidator([]string{"namearg"}, nameArgValidator{})
	registerValidator([]string{"cmdline"}, cmdlineValidator{})
	registerValidator([]string{"log_level"}, logLevelValidator{})
	registerValidator([]string{"compression", "archive_method"}, optionValidator{})
}

// boolean: yes/on/true/1 -> true, no/off/false/0 -> false.
type boolValidator struct{}

func (boolValidator) Validate(_ Check, value string) (interface{}, error) {
	switch strings.ToLower(value) {
	case "yes", "on", "true", "1":
		return true, nil
	case "no", "off", "false", "0":
		return false, nil
	}
	return nil, fmt.Errorf("invalid boolean value %q", value)
}
func (boolValidator) Format(value interface{}) string {
	if b, _ := value.(bool); b {
		return "yes"
	}
	return "no"
}

type floatValidator struct{}

func (floatValidator) Validate(_ Check, value string) (interface{}, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid format for float %q", value)
	}
	return f, nil
}
func (floatValidator) Format(value interface{}) string {
	return fmt.Sprintf("%.2f", value.(float64))
}

// percent: "100%" -> 1.0, "3%" -> 0.03. Bare numbers are accepted too.
type percentValidator struct{}

func (percentValidator) Validate(_ Check, value string) (interface{}, error) {
	v := strings.TrimSuffix(value, "%")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid format for percent %q: %w", value, err)
	}
	return f / 100.0, nil
}
func (percentValidator) Format(value interface{}) string {
	return fmt.Sprintf("%g%%", value.(float64)*100)
}

type intValidator struct{}

func (intValidator) Validate(check Check, value string) (interface{}, error) {
	base := 10
	if b, ok := check.IntKwarg("base"); ok {
		base = b
	}
	n, err := strconv.ParseInt(value, base, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid format for integer %q", value)
	}
	if min, ok := check.IntKwarg("min"); ok && n < int64(min) {
		return nil, fmt.Errorf("integer value must be >= %d", min)
	}
	if max, ok := check.IntKwarg("max"); ok && n > int64(max) {
		return nil, fmt.Errorf("integer value exceeds maximum %d", max)
	}
	return int(n), nil
}
func (intValidator) Format(value interface{}) string {
	return strconv.Itoa(value.(int))
}

type stringValidator struct{}

func (stringValidator) Validate(_ Check, value string) (interface{}, error) { return value, nil }
func (stringValidator) Format(value interface{}) string                    { return value.(string) }

// option: value must be one of check.Args.
type optionValidator struct{}

func (optionValidator) Validate(check Check, value string) (interface{}, error) {
	for _, opt := range check.Args {
		if opt == value {
			return value, nil
		}
	}
	return nil, fmt.Errorf("invalid option %q - choose from: %s", value, strings.Join(check.Args, ","))
}
func (optionValidator) Format(value interface{}) string { return value.(string) }

// list/force_list: comma-separated values, each individually unquoted.
type listValidator struct{}

func splitCSV(value string) []string {
	var out []string
	var b strings.Builder
	inQuote := false
	flush := func() {
		cell := strings.TrimSpace(b.String())
		if cell != "" {
			out = append(out, unquote(cell))
		}
		b.Reset()
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == ',' && !inQuote:
			flush()
		default:
			b.WriteByte(c)
		}
	}
	flush()
	return out
}

func (listValidator) Validate(_ Check, value string) (interface{}, error) {
	if value == "" {
		return []string{}, nil
	}
	return splitCSV(value), nil
}
func (listValidator) Format(value interface{}) string {
	return strings.Join(value.([]string), ",")
}

type tupleValidator struct{ listValidator }

func (tupleValidator) Validate(_ Check, value string) (interface{}, error) {
	if value == "" {
		return [0]string{}, nil
	}
	return splitCSV(value), nil
}

type setValidator struct{ listValidator }

func (setValidator) Validate(_ Check, value string) (interface{}, error) {
	items := splitCSV(value)
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set, nil
}
func (setValidator) Format(value interface{}) string {
	set := value.(map[string]struct{})
	items := make([]string, 0, len(set))
	for k := range set {
		items = append(items, k)
	}
	return strings.Join(items, ",")
}

// NameArg is the value produced by the namearg validator: "name:arg".
type NameArg struct {
	Name string
	Arg  string
}

type nameArgValidator struct{}

func (nameArgValidator) Validate(_ Check, value string) (interface{}, error) {
	name, arg, _ := strings.Cut(value, ":")
	return NameArg{Name: name, Arg: arg}, nil
}
func (nameArgValidator) Format(value interface{}) string {
	na := value.(NameArg)
	return na.Name + ":" + na.Arg
}

// cmdline: shell-style word splitting, e.g. for pre-args/post-args.
type cmdlineValidator struct{}

func (cmdlineValidator) Validate(_ Check, value string) (interface{}, error) {
	if value == "" {
		return []string{}, nil
	}
	return shlexSplit(value)
}
func (cmdlineValidator) Format(value interface{}) string {
	return shlexJoin(value.([]string))
}

type logLevelValidator struct{}

var logLevelNames = map[string]string{
	"debug": "debug", "info": "info", "warning": "warning", "error": "error", "fatal": "fatal",
}

func (logLevelValidator) Validate(_ Check, value string) (interface{}, error) {
	name := strings.ToLower(value)
	if _, ok := logLevelNames[name]; !ok {
		return nil, fmt.Errorf("invalid log level %q", value)
	}
	return name, nil
}
func (logLevelValidator) Format(value interface{}) string { return value.(string) }
