package whitespace

import (
	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/tokens"
)

// SingleBlankLineAtEOFName is the name of the single_blank_line_at_eof fixer.
const SingleBlankLineAtEOFName = "single_blank_line_at_eof"

// SingleBlankLineAtEOFFixer ends files with exactly one line ending.
type SingleBlankLineAtEOFFixer struct{}

// NewSingleBlankLineAtEOFFixer creates a new single_blank_line_at_eof fixer instance.
func NewSingleBlankLineAtEOFFixer() *SingleBlankLineAtEOFFixer {
	return &SingleBlankLineAtEOFFixer{}
}

// Metadata returns the fixer metadata.
func (f *SingleBlankLineAtEOFFixer) Metadata() fixer.Metadata {
	return fixer.Metadata{
		Name:        SingleBlankLineAtEOFName,
		Summary:     "A PHP file without end tag must always end with a single empty line feed.",
		Description: "Files ending in inline HTML or a close tag are left alone.",
		Priority:    -50,
		Samples: []fixer.Sample{
			{Code: "<?php\n$a = 1;"},
			{Code: "<?php\n$a = 1;\n\n"},
		},
	}
}

// IsCandidate reports whether the file ends in PHP code.
func (f *SingleBlankLineAtEOFFixer) IsCandidate(s *tokens.Stream) bool {
	if s.Len() == 0 {
		return false
	}
	return !s.At(s.Len() - 1).Is(tokens.InlineHTML, tokens.CloseTag, tokens.OpenTag)
}

// Fix replaces trailing whitespace with a single line ending, or appends one.
func (f *SingleBlankLineAtEOFFixer) Fix(s *tokens.Stream, cfg fixer.Config) error {
	if !f.IsCandidate(s) {
		return nil
	}
	eol := cfg.Whitespace.LineEnding
	if eol == "" {
		eol = fixer.DefaultWhitespace().LineEnding
	}
	last := s.Len() - 1
	t := s.At(last)
	if t.Kind != tokens.Whitespace {
		return s.Insert(s.Len(), tokens.NewToken(tokens.Whitespace, eol))
	}
	if t.Text == eol {
		return nil
	}
	t.Text = eol
	return s.Set(last, t)
}
