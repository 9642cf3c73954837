// Package all builds the registry of every shipped fixer.
package all

import (
	"fmt"

	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/fixers/arraynotation"
	"github.com/wharflab/polish/internal/fixers/casing"
	"github.com/wharflab/polish/internal/fixers/classnotation"
	"github.com/wharflab/polish/internal/fixers/comma"
	"github.com/wharflab/polish/internal/fixers/whitespace"
)

// Fixers returns a fresh instance of every shipped fixer.
func Fixers() []fixer.Fixer {
	return []fixer.Fixer{
		arraynotation.NewArraySyntaxFixer(),
		arraynotation.NewWhitespaceAfterCommaFixer(),
		arraynotation.NewNoWhitespaceBeforeCommaFixer(),
		arraynotation.NewNoTrailingCommaInSinglelineArrayFixer(),
		comma.NewTrailingCommaInMultilineFixer(),
		comma.NewNoTrailingCommaInSinglelineFixer(),
		classnotation.NewNoUnneededFinalMethodFixer(),
		casing.NewLowercaseKeywordsFixer(),
		whitespace.NewNoTrailingWhitespaceFixer(),
		whitespace.NewSingleBlankLineAtEOFFixer(),
		whitespace.NewLineEndingFixer(),
	}
}

// NewRegistry registers every shipped fixer and validates the cross
// references between them. The result is read-only by convention and safe
// to share between goroutines.
func NewRegistry() (*fixer.Registry, error) {
	r := fixer.NewRegistry()
	for _, f := range Fixers() {
		if err := r.Register(f); err != nil {
			return nil, fmt.Errorf("register fixers: %w", err)
		}
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("validate fixers: %w", err)
	}
	return r, nil
}
