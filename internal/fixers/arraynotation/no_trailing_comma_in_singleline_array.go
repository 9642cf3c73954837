package arraynotation

import (
	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/fixers/comma"
	"github.com/wharflab/polish/internal/tokens"
)

// NoTrailingCommaInSinglelineArrayName is the name of the deprecated
// no_trailing_comma_in_singleline_array fixer.
const NoTrailingCommaInSinglelineArrayName = "no_trailing_comma_in_singleline_array"

// NoTrailingCommaInSinglelineArrayFixer removes trailing commas from
// single-line arrays. Superseded by no_trailing_comma_in_singleline.
type NoTrailingCommaInSinglelineArrayFixer struct{}

var _ fixer.DeprecatedFixer = (*NoTrailingCommaInSinglelineArrayFixer)(nil)

// NewNoTrailingCommaInSinglelineArrayFixer creates a new no_trailing_comma_in_singleline_array fixer instance.
func NewNoTrailingCommaInSinglelineArrayFixer() *NoTrailingCommaInSinglelineArrayFixer {
	return &NoTrailingCommaInSinglelineArrayFixer{}
}

// Metadata returns the fixer metadata.
func (f *NoTrailingCommaInSinglelineArrayFixer) Metadata() fixer.Metadata {
	return fixer.Metadata{
		Name:    NoTrailingCommaInSinglelineArrayName,
		Summary: "PHP single-line arrays should not have trailing comma.",
		Samples: []fixer.Sample{{Code: "<?php\n$a = array('sample',  );\n"}},
	}
}

// Successors implements fixer.DeprecatedFixer.
func (f *NoTrailingCommaInSinglelineArrayFixer) Successors() []string {
	return []string{comma.NoTrailingCommaInSinglelineName}
}

// IsCandidate reports whether the stream contains a comma.
func (f *NoTrailingCommaInSinglelineArrayFixer) IsCandidate(s *tokens.Stream) bool {
	return s.ContainsKind(tokens.Comma)
}

// Fix removes trailing commas from single-line arrays.
func (f *NoTrailingCommaInSinglelineArrayFixer) Fix(s *tokens.Stream, _ fixer.Config) error {
	return comma.RemoveSinglelineTrailingCommas(s, []string{comma.ElementArrays})
}
