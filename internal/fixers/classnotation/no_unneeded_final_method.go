// Package classnotation implements fixers for class, enum and method
// declarations.
package classnotation

import (
	"slices"
	"strings"

	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/tokens"
)

// NoUnneededFinalMethodName is the name of the no_unneeded_final_method fixer.
const NoUnneededFinalMethodName = "no_unneeded_final_method"

// NoUnneededFinalMethodFixer removes final from methods where it has no effect.
type NoUnneededFinalMethodFixer struct{}

// NewNoUnneededFinalMethodFixer creates a new no_unneeded_final_method fixer instance.
func NewNoUnneededFinalMethodFixer() *NoUnneededFinalMethodFixer {
	return &NoUnneededFinalMethodFixer{}
}

// Metadata returns the fixer metadata.
func (f *NoUnneededFinalMethodFixer) Metadata() fixer.Metadata {
	return fixer.Metadata{
		Name:             NoUnneededFinalMethodName,
		Summary:          "Removes `final` from methods where possible.",
		Risky:            true,
		RiskyDescription: "Risky when child class overrides a `private` method.",
		Samples: []fixer.Sample{
			{Code: "<?php\nfinal class Foo\n{\n    final public function foo1() {}\n    final protected function bar() {}\n    final private function baz() {}\n}\n\nclass Bar\n{\n    final private function bar1() {}\n}\n"},
			{Code: "<?php\nfinal class Foo\n{\n    final private function baz() {}\n}\n\nclass Bar\n{\n    final private function bar1() {}\n}\n", Options: map[string]any{"private_methods": false}},
		},
	}
}

// Options returns the option schema.
func (f *NoUnneededFinalMethodFixer) Options() []fixer.Option {
	return []fixer.Option{{
		Name:         "private_methods",
		Description:  "Private methods of non-`final` classes must not be declared `final`.",
		AllowedTypes: []string{fixer.TypeBool},
		Default:      true,
		HasDefault:   true,
	}}
}

// IsCandidate reports whether the stream declares a class or enum and uses final.
func (f *NoUnneededFinalMethodFixer) IsCandidate(s *tokens.Stream) bool {
	return s.ContainsKeyword("final") && (s.ContainsKeyword("class") || s.ContainsKeyword("enum"))
}

// Fix removes final from methods of final classes and enums, and from
// private methods other than constructors.
func (f *NoUnneededFinalMethodFixer) Fix(s *tokens.Stream, cfg fixer.Config) error {
	privateMethods := cfg.Bool("private_methods")

	var removals []int
	for i := range s.Len() {
		t := s.At(i)
		var final bool
		switch {
		case t.IsKeyword("class"):
			if isAnonymousClass(s, i) {
				continue
			}
			final = slices.Contains(classModifiers(s, i), "final")
		case t.IsKeyword("enum"):
			final = true
		default:
			continue
		}

		open := s.Next(i, func(t tokens.Token) bool { return t.Kind == tokens.BraceOpen })
		if open < 0 {
			continue
		}
		end, err := s.FindBlockEnd(open)
		if err != nil {
			return err
		}
		found, err := unneededFinals(s, open, end, final, privateMethods)
		if err != nil {
			return err
		}
		removals = append(removals, found...)
	}

	for k := len(removals) - 1; k >= 0; k-- {
		if err := removeModifier(s, removals[k]); err != nil {
			return err
		}
	}
	return nil
}

// unneededFinals returns the indices of final modifiers to drop from the
// methods declared directly in the class body open..end.
func unneededFinals(s *tokens.Stream, open, end int, classFinal, privateMethods bool) ([]int, error) {
	var out []int
	for i := open + 1; i < end; i++ {
		t := s.At(i)
		if t.Kind == tokens.BraceOpen {
			blockEnd, err := s.FindBlockEnd(i)
			if err != nil {
				return nil, err
			}
			i = blockEnd
			continue
		}
		if !t.IsKeyword("function") {
			continue
		}
		mods := methodModifiers(s, i)
		finalIdx, ok := mods["final"]
		if !ok {
			continue
		}
		if classFinal {
			out = append(out, finalIdx)
			continue
		}
		if _, private := mods["private"]; private && privateMethods && !isConstructor(s, i) {
			out = append(out, finalIdx)
		}
	}
	return out, nil
}

var methodModifierWords = []string{"final", "abstract", "public", "protected", "private", "static"}

// methodModifiers maps each modifier keyword preceding the function keyword at
// i to its index.
func methodModifiers(s *tokens.Stream, i int) map[string]int {
	mods := map[string]int{}
	for p := s.PrevMeaningful(i); p >= 0; p = s.PrevMeaningful(p) {
		word, ok := modifierWord(s.At(p), methodModifierWords)
		if !ok {
			break
		}
		mods[word] = p
	}
	return mods
}

var classModifierWords = []string{"final", "abstract", "readonly"}

func classModifiers(s *tokens.Stream, i int) []string {
	var mods []string
	for p := s.PrevMeaningful(i); p >= 0; p = s.PrevMeaningful(p) {
		word, ok := modifierWord(s.At(p), classModifierWords)
		if !ok {
			break
		}
		mods = append(mods, word)
	}
	return mods
}

func modifierWord(t tokens.Token, words []string) (string, bool) {
	if t.Kind != tokens.Keyword {
		return "", false
	}
	lower := strings.ToLower(t.Text)
	for _, w := range words {
		if lower == w {
			return w, true
		}
	}
	return "", false
}

func isAnonymousClass(s *tokens.Stream, i int) bool {
	p := s.PrevMeaningful(i)
	return p >= 0 && s.At(p).IsKeyword("new")
}

func isConstructor(s *tokens.Stream, function int) bool {
	n := s.NextMeaningful(function)
	if n >= 0 && s.At(n).IsOperator("&") {
		n = s.NextMeaningful(n)
	}
	return n >= 0 && strings.EqualFold(s.At(n).Text, "__construct")
}

// removeModifier drops the keyword at i and the whitespace that follows it.
func removeModifier(s *tokens.Stream, i int) error {
	end := i + 1
	if next, ok := s.Get(end); ok && next.Kind == tokens.Whitespace {
		end++
	}
	return s.ReplaceRange(i, end, nil)
}
