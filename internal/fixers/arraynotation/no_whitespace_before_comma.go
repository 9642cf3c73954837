package arraynotation

import (
	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/fixers/analysis"
	"github.com/wharflab/polish/internal/tokens"
)

// NoWhitespaceBeforeCommaName is the name of the no_whitespace_before_comma_in_array fixer.
const NoWhitespaceBeforeCommaName = "no_whitespace_before_comma_in_array"

// NoWhitespaceBeforeCommaFixer removes whitespace before array commas.
type NoWhitespaceBeforeCommaFixer struct{}

// NewNoWhitespaceBeforeCommaFixer creates a new no_whitespace_before_comma_in_array fixer instance.
func NewNoWhitespaceBeforeCommaFixer() *NoWhitespaceBeforeCommaFixer {
	return &NoWhitespaceBeforeCommaFixer{}
}

// Metadata returns the fixer metadata.
func (f *NoWhitespaceBeforeCommaFixer) Metadata() fixer.Metadata {
	return fixer.Metadata{
		Name:    NoWhitespaceBeforeCommaName,
		Summary: "In array declaration, there MUST NOT be a whitespace before each comma.",
		Samples: []fixer.Sample{
			{Code: "<?php $x = array(1 , \"2\");\n"},
			{Code: "<?php\n    $x = [<<<EOD\nfoo\nEOD\n        , 'bar'\n    ];\n", Options: map[string]any{"after_heredoc": true}},
		},
	}
}

// Options returns the option schema.
func (f *NoWhitespaceBeforeCommaFixer) Options() []fixer.Option {
	return []fixer.Option{{
		Name:         "after_heredoc",
		Description:  "Whether the whitespace between heredoc end and comma should be removed.",
		AllowedTypes: []string{fixer.TypeBool},
		Default:      false,
		HasDefault:   true,
	}}
}

// IsCandidate reports whether the stream contains array literals.
func (f *NoWhitespaceBeforeCommaFixer) IsCandidate(s *tokens.Stream) bool {
	return s.ContainsKeyword("array") || s.ContainsKind(tokens.ArraySquareOpen)
}

// Fix removes whitespace directly before top-level array commas.
func (f *NoWhitespaceBeforeCommaFixer) Fix(s *tokens.Stream, cfg fixer.Config) error {
	afterHeredoc := cfg.Bool("after_heredoc")
	openers := analysis.ArrayOpeners(s)
	for k := len(openers) - 1; k >= 0; k-- {
		commas, err := analysis.TopLevelCommas(s, openers[k])
		if err != nil {
			return err
		}
		for c := len(commas) - 1; c >= 0; c-- {
			ws := commas[c] - 1
			if s.At(ws).Kind != tokens.Whitespace {
				continue
			}
			before := s.At(ws - 1)
			if before.IsComment() || before.Kind.IsOpener() {
				continue
			}
			if before.Kind == tokens.Heredoc && !afterHeredoc {
				continue
			}
			if err := s.Remove(ws); err != nil {
				return err
			}
		}
	}
	return nil
}
