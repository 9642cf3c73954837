// Package fault defines the typed failures shared by the tokenizer, the fixer
// registry, the rule set resolver and the convergence pipeline.
//
// Every failure surfaced by those layers is a *Error carrying exactly one Kind.
// Kinds double as sentinels, so callers can write
//
//	if errors.Is(err, fault.UnknownRuleName) { ... }
//
// and use errors.As to recover the offending names, option or pass number.
package fault

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies a failure category.
type Kind string

// Error implements error so a Kind can be used as an errors.Is target.
func (k Kind) Error() string { return string(k) }

const (
	LexError             Kind = "LexError"
	UnbalancedStructure  Kind = "UnbalancedStructure"
	IndexOutOfRange      Kind = "IndexOutOfRange"
	UnknownRuleName      Kind = "UnknownRuleName"
	UnknownSetName       Kind = "UnknownSetName"
	InvalidConfiguration Kind = "InvalidConfiguration"
	DuplicateName        Kind = "DuplicateName"
	OrderingCycle        Kind = "OrderingCycle"
	Conflict             Kind = "Conflict"
	NonConvergence       Kind = "NonConvergence"
)

// Class groups kinds by how a caller should react to them.
type Class string

const (
	// ClassStructural covers malformed input or a fixer bug. Fatal for the file.
	ClassStructural Class = "structural"
	// ClassConfiguration covers catalog or rule-selection defects. Fatal for the run.
	ClassConfiguration Class = "configuration"
	// ClassConvergence covers fixers with contradictory effects.
	ClassConvergence Class = "convergence"
)

// Class returns the class a kind belongs to.
func (k Kind) Class() Class {
	switch k {
	case LexError, UnbalancedStructure, IndexOutOfRange:
		return ClassStructural
	case NonConvergence:
		return ClassConvergence
	default:
		return ClassConfiguration
	}
}

// Error is a typed failure.
type Error struct {
	Kind Kind

	// Names lists the rules, sets or fixers involved, in a deterministic order.
	Names []string

	// Option is the offending option name for InvalidConfiguration.
	Option string

	// Offset is the byte offset in the source, or -1 when not applicable.
	Offset int

	// Pass is the 1-based pass number for NonConvergence and UnbalancedStructure.
	Pass int

	// Path is the chain of set references leading to the failure.
	Path []string

	// Suggestion is a close known name for unknown-name errors.
	Suggestion string

	Msg string
	Err error
}

// New returns an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Offset: -1, Msg: fmt.Sprintf(format, args...)}
}

// Error implements error.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if len(e.Names) > 0 {
		b.WriteString("(")
		b.WriteString(strings.Join(e.Names, ", "))
		b.WriteString(")")
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Option != "" {
		fmt.Fprintf(&b, " [option %q]", e.Option)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	if e.Pass > 0 {
		fmt.Fprintf(&b, " in pass %d", e.Pass)
	}
	if len(e.Path) > 0 {
		fmt.Fprintf(&b, " (via %s)", strings.Join(e.Path, " -> "))
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "; did you mean %q?", e.Suggestion)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is reports whether target is this error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.Err }

// WithNames sets the involved names and returns e.
func (e *Error) WithNames(names ...string) *Error {
	e.Names = names
	return e
}

// WithOption sets the offending option and returns e.
func (e *Error) WithOption(name string) *Error {
	e.Option = name
	return e
}

// WithOffset sets the source offset and returns e.
func (e *Error) WithOffset(offset int) *Error {
	e.Offset = offset
	return e
}

// WithPass sets the pass number and returns e.
func (e *Error) WithPass(pass int) *Error {
	e.Pass = pass
	return e
}

// WithPath sets the set expansion path and returns e.
func (e *Error) WithPath(path []string) *Error {
	e.Path = append([]string(nil), path...)
	return e
}

// WithSuggestion sets the "did you mean" name and returns e.
func (e *Error) WithSuggestion(name string) *Error {
	e.Suggestion = name
	return e
}

// Wrap sets the cause and returns e.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return ""
}
