// Package comma implements fixers for trailing commas in multi-element
// constructs: arrays, argument lists, parameter lists and match arms.
package comma

import (
	"slices"

	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/fixer/configutil"
	"github.com/wharflab/polish/internal/fixers/analysis"
	"github.com/wharflab/polish/internal/tokens"
)

// TrailingCommaInMultilineName is the name of the trailing_comma_in_multiline fixer.
const TrailingCommaInMultilineName = "trailing_comma_in_multiline"

// Element kinds selectable through the elements option.
const (
	ElementArrays             = "arrays"
	ElementArguments          = "arguments"
	ElementParameters         = "parameters"
	ElementMatch              = "match"
	ElementArrayDestructuring = "array_destructuring"
	ElementGroupImport        = "group_import"
)

// TrailingCommaInMultilineConfig is the configuration for trailing_comma_in_multiline.
type TrailingCommaInMultilineConfig struct {
	Elements     []string `koanf:"elements"`
	AfterHeredoc bool     `koanf:"after_heredoc"`
}

// TrailingCommaInMultilineFixer adds a trailing comma after the last element
// of multiline constructs.
type TrailingCommaInMultilineFixer struct{}

// NewTrailingCommaInMultilineFixer creates a new trailing_comma_in_multiline fixer instance.
func NewTrailingCommaInMultilineFixer() *TrailingCommaInMultilineFixer {
	return &TrailingCommaInMultilineFixer{}
}

// Metadata returns the fixer metadata.
func (f *TrailingCommaInMultilineFixer) Metadata() fixer.Metadata {
	return fixer.Metadata{
		Name:    TrailingCommaInMultilineName,
		Summary: "Arguments lists, array destructuring lists, arrays that are multi-line, `match`-lines and parameters lists must have a trailing comma.",
		Samples: []fixer.Sample{
			{Code: "<?php\narray(\n    1,\n    2\n);\n"},
			{Code: "<?php\nfoo(\n    1,\n    2\n);\n", Options: map[string]any{"elements": []string{"arguments"}}},
		},
	}
}

// Options returns the option schema.
func (f *TrailingCommaInMultilineFixer) Options() []fixer.Option {
	return []fixer.Option{
		{
			Name:          "elements",
			Description:   "Where to fix multiline trailing comma.",
			AllowedSubset: []string{ElementArrays, ElementArguments, ElementParameters, ElementMatch},
			Default:       []string{ElementArrays},
			HasDefault:    true,
		},
		{
			Name:         "after_heredoc",
			Description:  "Whether a trailing comma should also be placed after heredoc end.",
			AllowedTypes: []string{fixer.TypeBool},
			Default:      false,
			HasDefault:   true,
		},
	}
}

// IsCandidate reports whether the stream contains any bracketed list.
func (f *TrailingCommaInMultilineFixer) IsCandidate(s *tokens.Stream) bool {
	return s.ContainsKind(tokens.ParenOpen, tokens.ArraySquareOpen) || s.ContainsKeyword("match")
}

// Fix adds missing trailing commas.
func (f *TrailingCommaInMultilineFixer) Fix(s *tokens.Stream, cfg fixer.Config) error {
	opts, err := configutil.Decode[TrailingCommaInMultilineConfig](cfg.Options)
	if err != nil {
		return err
	}

	var openers []int
	if slices.Contains(opts.Elements, ElementArrays) {
		for _, i := range analysis.ArrayOpeners(s) {
			if s.At(i).Kind == tokens.ParenOpen || !analysis.IsDestructuring(s, i) {
				openers = append(openers, i)
			}
		}
	}
	if slices.Contains(opts.Elements, ElementArguments) {
		openers = append(openers, analysis.ArgumentOpeners(s)...)
	}
	if slices.Contains(opts.Elements, ElementParameters) {
		openers = append(openers, analysis.ParameterOpeners(s)...)
	}
	if slices.Contains(opts.Elements, ElementMatch) {
		openers = append(openers, analysis.MatchOpeners(s)...)
	}
	slices.Sort(openers)
	openers = slices.Compact(openers)

	for k := len(openers) - 1; k >= 0; k-- {
		if err := addTrailingComma(s, openers[k], opts.AfterHeredoc); err != nil {
			return err
		}
	}
	return nil
}

func addTrailingComma(s *tokens.Stream, open int, afterHeredoc bool) error {
	end, err := s.FindBlockEnd(open)
	if err != nil {
		return err
	}
	last := s.PrevMeaningful(end)
	if last <= open {
		return nil
	}
	lastTok := s.At(last)
	if lastTok.Kind == tokens.Comma || lastTok.Kind == tokens.Semicolon {
		return nil
	}
	if lastTok.Kind == tokens.Heredoc && !afterHeredoc {
		return nil
	}
	if !analysis.NewlineBetween(s, last, end) {
		return nil
	}
	return s.Insert(last+1, tokens.NewToken(tokens.Comma, ","))
}
