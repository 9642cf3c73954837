package ruleset

import (
	"maps"
	"slices"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/wharflab/polish/internal/fault"
)

// ValueOf converts a decoded configuration value (bool or options mapping)
// into a Value.
func ValueOf(name string, raw any) (Value, error) {
	switch v := raw.(type) {
	case bool:
		return Value{Enabled: v}, nil
	case map[string]any:
		return Configure(maps.Clone(v)), nil
	case nil:
		return Value{}, fault.New(fault.InvalidConfiguration, "missing value, expected true, false or options").WithNames(name)
	default:
		return Value{}, fault.New(fault.InvalidConfiguration, "unsupported value %v (%T), expected true, false or options", raw, raw).WithNames(name)
	}
}

// EntriesFromMap converts an unordered mapping, as read from a config file,
// into entries. Set references come first and concrete rules second, each
// group sorted by name, so a rule entry always overrides what a set enabled.
func EntriesFromMap(m map[string]any) ([]Entry, error) {
	names := slices.Collect(maps.Keys(m))
	slices.SortFunc(names, func(a, b string) int {
		if IsSetName(a) != IsSetName(b) {
			if IsSetName(a) {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	})

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		v, err := ValueOf(name, m[name])
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Name: name, Value: v})
	}
	return entries, nil
}

// ParseEntries parses a rule selection given on the command line. It accepts
// either a JSON object, whose key order is kept, or a comma-separated list of
// names where a leading "-" disables the name.
func ParseEntries(text string) ([]Entry, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "{") {
		var node yaml.Node
		if err := yaml.Unmarshal([]byte(text), &node); err != nil {
			return nil, fault.New(fault.InvalidConfiguration, "invalid rules JSON").Wrap(err)
		}
		if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
			return entriesFromNode(node.Content[0])
		}
		return entriesFromNode(&node)
	}

	var entries []Entry
	for part := range strings.SplitSeq(text, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(name, "-"); ok {
			entries = append(entries, Entry{Name: rest, Value: Disable()})
			continue
		}
		entries = append(entries, Entry{Name: name, Value: Enable()})
	}
	return entries, nil
}

// entriesFromNode reads a YAML mapping in document order.
func entriesFromNode(node *yaml.Node) ([]Entry, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fault.New(fault.InvalidConfiguration, "rules must be a mapping (line %d)", node.Line)
	}
	entries := make([]Entry, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var raw any
		if err := val.Decode(&raw); err != nil {
			return nil, fault.New(fault.InvalidConfiguration, "line %d", val.Line).WithNames(key.Value).Wrap(err)
		}
		v, err := ValueOf(key.Value, raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Name: key.Value, Value: v})
	}
	return entries, nil
}
