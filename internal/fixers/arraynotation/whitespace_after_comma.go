package arraynotation

import (
	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/fixers/analysis"
	"github.com/wharflab/polish/internal/tokens"
)

// WhitespaceAfterCommaName is the name of the whitespace_after_comma_in_array fixer.
const WhitespaceAfterCommaName = "whitespace_after_comma_in_array"

// WhitespaceAfterCommaFixer inserts a space after each comma of an array literal.
type WhitespaceAfterCommaFixer struct{}

// NewWhitespaceAfterCommaFixer creates a new whitespace_after_comma_in_array fixer instance.
func NewWhitespaceAfterCommaFixer() *WhitespaceAfterCommaFixer {
	return &WhitespaceAfterCommaFixer{}
}

// Metadata returns the fixer metadata.
func (f *WhitespaceAfterCommaFixer) Metadata() fixer.Metadata {
	return fixer.Metadata{
		Name:    WhitespaceAfterCommaName,
		Summary: "In array declaration, there MUST be a whitespace after each comma.",
		Samples: []fixer.Sample{
			{Code: "<?php\n$sample = array(1,'a',$b,);\n"},
			{Code: "<?php\n$sample = [1,2, 3,  4,    5];\n", Options: map[string]any{"ensure_single_space": true}},
		},
	}
}

// Options returns the option schema.
func (f *WhitespaceAfterCommaFixer) Options() []fixer.Option {
	return []fixer.Option{{
		Name:         "ensure_single_space",
		Description:  "If there are only horizontal whitespaces after the comma then ensure it is a single space.",
		AllowedTypes: []string{fixer.TypeBool},
		Default:      false,
		HasDefault:   true,
	}}
}

// IsCandidate reports whether the stream contains array literals.
func (f *WhitespaceAfterCommaFixer) IsCandidate(s *tokens.Stream) bool {
	return s.ContainsKeyword("array") || s.ContainsKind(tokens.ArraySquareOpen)
}

// Fix inserts or normalizes whitespace after top-level array commas.
func (f *WhitespaceAfterCommaFixer) Fix(s *tokens.Stream, cfg fixer.Config) error {
	single := cfg.Bool("ensure_single_space")
	openers := analysis.ArrayOpeners(s)
	for k := len(openers) - 1; k >= 0; k-- {
		commas, err := analysis.TopLevelCommas(s, openers[k])
		if err != nil {
			return err
		}
		for c := len(commas) - 1; c >= 0; c-- {
			if err := fixAfterComma(s, commas[c], single); err != nil {
				return err
			}
		}
	}
	return nil
}

func fixAfterComma(s *tokens.Stream, comma int, single bool) error {
	next, ok := s.Get(comma + 1)
	if !ok {
		return nil
	}
	if next.Kind != tokens.Whitespace {
		return s.Insert(comma+1, tokens.NewToken(tokens.Whitespace, " "))
	}
	if !single || next.Text == " " || next.HasNewline() || endsLineWithComment(s, comma+2) {
		return nil
	}
	return s.Set(comma+1, tokens.NewToken(tokens.Whitespace, " "))
}

// endsLineWithComment reports whether the token at i is a comment that is the
// last thing on its line. Alignment before such comments is preserved.
func endsLineWithComment(s *tokens.Stream, i int) bool {
	t, ok := s.Get(i)
	if !ok || !t.IsComment() {
		return false
	}
	if t.IsLineComment() {
		return true
	}
	after, ok := s.Get(i + 1)
	return !ok || (after.Kind == tokens.Whitespace && after.HasNewline())
}
