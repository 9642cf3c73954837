// Package arraynotation implements fixers for array literal style.
package arraynotation

import (
	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/fixer/configutil"
	"github.com/wharflab/polish/internal/fixers/analysis"
	"github.com/wharflab/polish/internal/fixers/comma"
	"github.com/wharflab/polish/internal/tokens"
)

// ArraySyntaxName is the name of the array_syntax fixer.
const ArraySyntaxName = "array_syntax"

// ArraySyntaxConfig is the configuration for the array_syntax fixer.
type ArraySyntaxConfig struct {
	// Syntax is "short" for [] or "long" for array().
	Syntax string `koanf:"syntax"`
}

// ArraySyntaxFixer converts array literals between short and long syntax.
type ArraySyntaxFixer struct{}

// NewArraySyntaxFixer creates a new array_syntax fixer instance.
func NewArraySyntaxFixer() *ArraySyntaxFixer {
	return &ArraySyntaxFixer{}
}

// Metadata returns the fixer metadata.
func (f *ArraySyntaxFixer) Metadata() fixer.Metadata {
	return fixer.Metadata{
		Name:     ArraySyntaxName,
		Summary:  "PHP arrays should be declared using the configured syntax.",
		Priority: 37,
		Before: []string{
			WhitespaceAfterCommaName,
			NoWhitespaceBeforeCommaName,
			comma.TrailingCommaInMultilineName,
			comma.NoTrailingCommaInSinglelineName,
			NoTrailingCommaInSinglelineArrayName,
		},
		Samples: []fixer.Sample{
			{Code: "<?php\n$a = array(1,2);\n"},
			{Code: "<?php\n$b = [1,2];\n", Options: map[string]any{"syntax": "long"}},
		},
	}
}

// Options returns the option schema.
func (f *ArraySyntaxFixer) Options() []fixer.Option {
	return []fixer.Option{{
		Name:          "syntax",
		Description:   "Whether to use the `long` or `short` array syntax.",
		AllowedTypes:  []string{fixer.TypeString},
		AllowedValues: []any{"long", "short"},
		Default:       "short",
		HasDefault:    true,
	}}
}

// IsCandidate reports whether the stream contains arrays of either syntax.
func (f *ArraySyntaxFixer) IsCandidate(s *tokens.Stream) bool {
	return s.ContainsKeyword("array") || s.ContainsKind(tokens.ArraySquareOpen)
}

// Fix converts every array literal to the configured syntax.
func (f *ArraySyntaxFixer) Fix(s *tokens.Stream, cfg fixer.Config) error {
	opts, err := configutil.Decode[ArraySyntaxConfig](cfg.Options)
	if err != nil {
		return err
	}
	if opts.Syntax == "long" {
		return toLong(s)
	}
	return toShort(s)
}

func toShort(s *tokens.Stream) error {
	for i := s.Len() - 1; i >= 0; i-- {
		if !s.At(i).IsKeyword("array") {
			continue
		}
		open := s.NextMeaningful(i)
		if open < 0 || s.At(open).Kind != tokens.ParenOpen {
			continue
		}
		end, err := s.FindBlockEnd(open)
		if err != nil {
			return err
		}
		if err := s.Set(end, tokens.NewToken(tokens.ArraySquareClose, "]")); err != nil {
			return err
		}
		if err := s.Set(open, tokens.NewToken(tokens.ArraySquareOpen, "[")); err != nil {
			return err
		}
		// Drop the keyword and any whitespace between it and the bracket.
		// Comments in between are kept before the bracket.
		removeTo := i + 1
		if removeTo < open && s.At(removeTo).Kind == tokens.Whitespace {
			removeTo++
		}
		if err := s.ReplaceRange(i, removeTo, nil); err != nil {
			return err
		}
	}
	return nil
}

func toLong(s *tokens.Stream) error {
	openers := analysis.ArrayOpeners(s)
	for k := len(openers) - 1; k >= 0; k-- {
		open := openers[k]
		if s.At(open).Kind != tokens.ArraySquareOpen || analysis.IsDestructuring(s, open) {
			continue
		}
		end, err := s.FindBlockEnd(open)
		if err != nil {
			return err
		}
		if err := s.Set(end, tokens.NewToken(tokens.ParenClose, ")")); err != nil {
			return err
		}
		if err := s.ReplaceRange(open, open+1, []tokens.Token{
			tokens.NewToken(tokens.Keyword, "array"),
			tokens.NewToken(tokens.ParenOpen, "("),
		}); err != nil {
			return err
		}
	}
	return nil
}
