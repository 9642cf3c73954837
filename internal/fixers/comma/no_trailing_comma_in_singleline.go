package comma

import (
	"slices"

	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/fixer/configutil"
	"github.com/wharflab/polish/internal/fixers/analysis"
	"github.com/wharflab/polish/internal/tokens"
)

// NoTrailingCommaInSinglelineName is the name of the no_trailing_comma_in_singleline fixer.
const NoTrailingCommaInSinglelineName = "no_trailing_comma_in_singleline"

// NoTrailingCommaInSinglelineConfig is the configuration for no_trailing_comma_in_singleline.
type NoTrailingCommaInSinglelineConfig struct {
	Elements []string `koanf:"elements"`
}

// NoTrailingCommaInSinglelineFixer removes trailing commas from lists that fit
// on a single line.
type NoTrailingCommaInSinglelineFixer struct{}

// NewNoTrailingCommaInSinglelineFixer creates a new no_trailing_comma_in_singleline fixer instance.
func NewNoTrailingCommaInSinglelineFixer() *NoTrailingCommaInSinglelineFixer {
	return &NoTrailingCommaInSinglelineFixer{}
}

// Metadata returns the fixer metadata.
func (f *NoTrailingCommaInSinglelineFixer) Metadata() fixer.Metadata {
	return fixer.Metadata{
		Name:    NoTrailingCommaInSinglelineName,
		Summary: "If a list of values separated by a comma is contained on a single line, then the last item MUST NOT have a trailing comma.",
		Samples: []fixer.Sample{
			{Code: "<?php\nfoo($a,);\n$foo = array(1,);\n[$foo, $bar,] = $array;\nuse a\\{ClassA, ClassB,};\n"},
			{Code: "<?php\nfoo($a,);\n[$foo, $bar,] = $array;\n", Options: map[string]any{"elements": []string{ElementArrayDestructuring}}},
		},
	}
}

// Options returns the option schema.
func (f *NoTrailingCommaInSinglelineFixer) Options() []fixer.Option {
	all := []string{ElementArguments, ElementArrayDestructuring, ElementArrays, ElementGroupImport}
	return []fixer.Option{{
		Name:          "elements",
		Description:   "Which elements to fix.",
		AllowedSubset: all,
		Default:       all,
		HasDefault:    true,
	}}
}

// IsCandidate reports whether the stream contains a comma.
func (f *NoTrailingCommaInSinglelineFixer) IsCandidate(s *tokens.Stream) bool {
	return s.ContainsKind(tokens.Comma)
}

// Fix removes trailing commas from single-line lists.
func (f *NoTrailingCommaInSinglelineFixer) Fix(s *tokens.Stream, cfg fixer.Config) error {
	opts, err := configutil.Decode[NoTrailingCommaInSinglelineConfig](cfg.Options)
	if err != nil {
		return err
	}
	return RemoveSinglelineTrailingCommas(s, opts.Elements)
}

// RemoveSinglelineTrailingCommas removes trailing commas from single-line
// lists of the given element kinds.
func RemoveSinglelineTrailingCommas(s *tokens.Stream, elements []string) error {
	var openers []int
	for _, i := range analysis.ArrayOpeners(s) {
		destructuring := s.At(i).Kind == tokens.ArraySquareOpen && analysis.IsDestructuring(s, i)
		if destructuring && slices.Contains(elements, ElementArrayDestructuring) ||
			!destructuring && slices.Contains(elements, ElementArrays) {
			openers = append(openers, i)
		}
	}
	if slices.Contains(elements, ElementArguments) {
		openers = append(openers, analysis.ArgumentOpeners(s)...)
	}
	if slices.Contains(elements, ElementArrayDestructuring) {
		openers = append(openers, listOpeners(s)...)
	}
	if slices.Contains(elements, ElementGroupImport) {
		openers = append(openers, analysis.GroupImportOpeners(s)...)
	}
	slices.Sort(openers)
	openers = slices.Compact(openers)

	for k := len(openers) - 1; k >= 0; k-- {
		if err := removeTrailingComma(s, openers[k]); err != nil {
			return err
		}
	}
	return nil
}

// listOpeners returns the '(' of list() destructuring.
func listOpeners(s *tokens.Stream) []int {
	var out []int
	for i := range s.Len() {
		if !s.At(i).IsKeyword("list") {
			continue
		}
		if p := s.NextMeaningful(i); p >= 0 && s.At(p).Kind == tokens.ParenOpen {
			out = append(out, p)
		}
	}
	return out
}

func removeTrailingComma(s *tokens.Stream, open int) error {
	end, err := s.FindBlockEnd(open)
	if err != nil {
		return err
	}
	if analysis.NewlineBetween(s, open, end) {
		return nil
	}
	for {
		last := s.PrevMeaningful(end)
		if last <= open || s.At(last).Kind != tokens.Comma {
			return nil
		}
		// Remove the comma together with whitespace up to the closer.
		drop := last + 1
		for drop < end && s.At(drop).Kind == tokens.Whitespace {
			drop++
		}
		if drop != end {
			drop = last + 1
		}
		if err := s.ReplaceRange(last, drop, nil); err != nil {
			return err
		}
		end -= drop - last
	}
}
