package fixer

import (
	"encoding/json"
	"fmt"
	"sort"

	gjsonschema "github.com/google/jsonschema-go/jsonschema"

	"github.com/wharflab/polish/internal/fault"
)

// JSON schema type names accepted in Option.AllowedTypes.
const (
	TypeBool   = "boolean"
	TypeString = "string"
	TypeInt    = "integer"
	TypeArray  = "array"
	TypeObject = "object"
)

// Option describes one configuration option of a fixer.
type Option struct {
	Name        string
	Description string

	// AllowedTypes lists JSON schema types the value may take.
	AllowedTypes []string

	// AllowedValues restricts the value to an enumeration (optional).
	AllowedValues []any

	// AllowedSubset restricts an array value to unique items from this list.
	AllowedSubset []string

	// Default applies when the option is not supplied. It is ignored unless
	// HasDefault is set, so that false and "" can be defaults.
	Default    any
	HasDefault bool
}

// Schema returns the JSON schema for the option value.
func (o Option) Schema() *gjsonschema.Schema {
	s := &gjsonschema.Schema{Description: o.Description}
	switch len(o.AllowedTypes) {
	case 0:
	case 1:
		s.Type = o.AllowedTypes[0]
	default:
		s.Types = append([]string(nil), o.AllowedTypes...)
	}
	if len(o.AllowedValues) > 0 {
		s.Enum = append([]any(nil), o.AllowedValues...)
	}
	if len(o.AllowedSubset) > 0 {
		items := make([]any, len(o.AllowedSubset))
		for i, v := range o.AllowedSubset {
			items[i] = v
		}
		s.Type = TypeArray
		s.Types = nil
		s.Items = &gjsonschema.Schema{Type: TypeString, Enum: items}
		s.UniqueItems = true
	}
	return s
}

// ValidateConfig checks supplied options against the schema of f and returns
// the options with defaults filled in. Values are normalized to their JSON
// form (numbers become float64, lists become []any).
func ValidateConfig(f Fixer, options map[string]any) (map[string]any, error) {
	name := f.Metadata().Name
	schema := OptionsOf(f)
	known := make(map[string]Option, len(schema))
	for _, o := range schema {
		known[o.Name] = o
	}

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(schema))
	for _, k := range keys {
		o, ok := known[k]
		if !ok {
			return nil, fault.New(fault.InvalidConfiguration, "unknown option").WithNames(name).WithOption(k)
		}
		value, err := toJSONValue(options[k])
		if err != nil {
			return nil, fault.New(fault.InvalidConfiguration, "value is not serializable").
				WithNames(name).WithOption(k).Wrap(err)
		}
		resolved, err := o.Schema().Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("resolve schema for %s.%s: %w", name, k, err)
		}
		if err := resolved.Validate(value); err != nil {
			return nil, fault.New(fault.InvalidConfiguration, "invalid value %s", describe(value)).
				WithNames(name).WithOption(k).Wrap(err)
		}
		out[k] = value
	}

	for _, o := range schema {
		if _, ok := out[o.Name]; ok {
			continue
		}
		if !o.HasDefault {
			return nil, fault.New(fault.InvalidConfiguration, "missing required option").WithNames(name).WithOption(o.Name)
		}
		value, err := toJSONValue(o.Default)
		if err != nil {
			return nil, fmt.Errorf("default for %s.%s: %w", name, o.Name, err)
		}
		out[o.Name] = value
	}
	return out, nil
}

func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func describe(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
