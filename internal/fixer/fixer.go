// Package fixer defines the contract every style fixer satisfies, the option
// schema fixers declare, and the Registry that orders enabled fixers.
package fixer

import (
	"slices"

	"github.com/wharflab/polish/internal/tokens"
)

// Metadata contains static information about a fixer. It is built once when
// the fixer is constructed and never mutated.
type Metadata struct {
	// Name is the unique, stable identifier (e.g., "array_syntax").
	Name string

	// Summary is a one-line description.
	Summary string

	// Description explains the fixer in more detail (optional).
	Description string

	// Priority orders otherwise unordered fixers. Higher runs earlier.
	Priority int

	// Before lists fixers this one must run before, when both are enabled.
	Before []string

	// After lists fixers this one must run after, when both are enabled.
	After []string

	// ConflictsWith lists fixers whose effect contradicts this one.
	ConflictsWith []string

	// Risky marks fixers that may change program behavior.
	Risky bool

	// RiskyDescription explains what makes the fixer risky.
	RiskyDescription string

	// Experimental marks fixers that may change or be removed.
	Experimental bool

	// Samples are example inputs used for documentation.
	Samples []Sample
}

// Sample is a documented input together with the options to apply.
type Sample struct {
	Code    string
	Options map[string]any
}

// Whitespace carries the indentation and line ending in effect for a file.
type Whitespace struct {
	Indent     string
	LineEnding string
}

// DefaultWhitespace returns four-space indentation with "\n" line endings.
func DefaultWhitespace() Whitespace {
	return Whitespace{Indent: "    ", LineEnding: "\n"}
}

// Config is the transient per-run overlay applied to a fixer.
type Config struct {
	// Options are validated option values with defaults filled in.
	Options map[string]any

	Whitespace Whitespace
}

// Bool returns a boolean option, or false when unset.
func (c Config) Bool(name string) bool {
	v, _ := c.Options[name].(bool)
	return v
}

// String returns a string option, or "" when unset.
func (c Config) String(name string) string {
	v, _ := c.Options[name].(string)
	return v
}

// Strings returns a list option, or nil when unset.
func (c Config) Strings(name string) []string {
	switch v := c.Options[name].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// HasString reports whether a list option contains value.
func (c Config) HasString(name, value string) bool {
	return slices.Contains(c.Strings(name), value)
}

// Fixer is a named transformation over a token stream.
type Fixer interface {
	// Metadata returns static information about the fixer.
	Metadata() Metadata

	// IsCandidate is a cheap, conservative pre-check. It must never return
	// false for a stream the fixer would change.
	IsCandidate(s *tokens.Stream) bool

	// Fix mutates the stream in place. Applying it twice in a row must not
	// change the stream on the second application. Fixers perform no I/O.
	Fix(s *tokens.Stream, cfg Config) error
}

// ConfigurableFixer is implemented by fixers that accept options.
type ConfigurableFixer interface {
	Fixer

	// Options returns the option schema.
	Options() []Option
}

// DeprecatedFixer is implemented by fixers scheduled for removal.
type DeprecatedFixer interface {
	Fixer

	// Successors names the fixers that replace this one. Empty means the
	// fixer is removed without replacement.
	Successors() []string
}

// OptionsOf returns the option schema of f, or nil when f takes no options.
func OptionsOf(f Fixer) []Option {
	if cf, ok := f.(ConfigurableFixer); ok {
		return cf.Options()
	}
	return nil
}

// Deprecation reports whether f is deprecated and names its successors.
func Deprecation(f Fixer) ([]string, bool) {
	if df, ok := f.(DeprecatedFixer); ok {
		return df.Successors(), true
	}
	return nil, false
}
