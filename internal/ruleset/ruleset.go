// Package ruleset resolves named, possibly nested rule sets into a flat map
// from rule name to configuration.
//
// A set is an ordered list of entries. Each entry names a rule or another set
// (prefixed with "@") and carries true, false or an options mapping.
// Resolution walks the entries depth-first in declaration order; every entry
// overwrites whatever an earlier one left for the same rule.
package ruleset

import (
	"fmt"
	"maps"
	"strings"
)

// SetPrefix marks a name as a set reference.
const SetPrefix = "@"

// IsSetName reports whether name refers to a set rather than a rule.
func IsSetName(name string) bool {
	return strings.HasPrefix(name, SetPrefix)
}

// Value is the configuration attached to a rule or set reference.
type Value struct {
	Enabled bool

	// Options are the rule options. Nil means defaults.
	Options map[string]any
}

// Enable returns an enabled value with default options.
func Enable() Value { return Value{Enabled: true} }

// Disable returns a disabled value.
func Disable() Value { return Value{} }

// Configure returns an enabled value with the given options.
func Configure(opts map[string]any) Value {
	return Value{Enabled: true, Options: opts}
}

func (v Value) clone() Value {
	return Value{Enabled: v.Enabled, Options: maps.Clone(v.Options)}
}

func (v Value) String() string {
	switch {
	case !v.Enabled:
		return "false"
	case v.Options == nil:
		return "true"
	default:
		return fmt.Sprintf("%v", v.Options)
	}
}

// Entry is one declaration in a set or in a user rule selection.
type Entry struct {
	Name  string
	Value Value
}

// Set is an author-defined, named collection of entries.
type Set struct {
	Name        string
	Description string

	// Risky marks sets that enable risky rules.
	Risky bool

	// Deprecated sets still resolve; Successors name their replacements.
	Deprecated bool
	Successors []string

	// Entries in declaration order.
	Entries []Entry
}

// Notice records a deprecated rule or set met during resolution.
type Notice struct {
	// Name is the deprecated rule or set.
	Name string

	// Successors are the replacements; empty means removal without one.
	Successors []string

	// Path is the chain of sets that referenced Name.
	Path []string
}

func (n Notice) String() string {
	kind := "rule"
	if IsSetName(n.Name) {
		kind = "set"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %q is deprecated", kind, n.Name)
	if len(n.Successors) > 0 {
		quoted := make([]string, len(n.Successors))
		for i, s := range n.Successors {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		fmt.Fprintf(&b, ", use %s instead", strings.Join(quoted, ", "))
	} else {
		b.WriteString(" and will be removed")
	}
	if len(n.Path) > 0 {
		fmt.Fprintf(&b, " (via %s)", strings.Join(n.Path, " -> "))
	}
	return b.String()
}
