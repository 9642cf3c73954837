package whitespace

import (
	"strings"

	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/tokens"
)

// LineEndingName is the name of the line_ending fixer.
const LineEndingName = "line_ending"

// LineEndingFixer normalizes line breaks to the configured line ending.
type LineEndingFixer struct{}

// NewLineEndingFixer creates a new line_ending fixer instance.
func NewLineEndingFixer() *LineEndingFixer {
	return &LineEndingFixer{}
}

// Metadata returns the fixer metadata.
func (f *LineEndingFixer) Metadata() fixer.Metadata {
	return fixer.Metadata{
		Name:        LineEndingName,
		Summary:     "All PHP files must use same line ending.",
		Description: "Line breaks in whitespace, comments and heredocs are rewritten; string literals and inline HTML are kept.",
		Samples: []fixer.Sample{
			{Code: "<?php $b = \" $a \r\n 123\"; $a = <<<TEST\r\nAAAAA \r\n |\r\nTEST;\n"},
		},
	}
}

var lineEndingKinds = []tokens.Kind{tokens.Whitespace, tokens.Comment, tokens.DocComment, tokens.Heredoc}

// IsCandidate reports whether any rewritable token spans lines.
func (f *LineEndingFixer) IsCandidate(s *tokens.Stream) bool {
	for i := range s.Len() {
		if t := s.At(i); t.Is(lineEndingKinds...) && t.HasNewline() {
			return true
		}
	}
	return false
}

// Fix rewrites \r\n, \r and \n to the configured line ending.
func (f *LineEndingFixer) Fix(s *tokens.Stream, cfg fixer.Config) error {
	eol := cfg.Whitespace.LineEnding
	if eol == "" {
		eol = fixer.DefaultWhitespace().LineEnding
	}
	for i := range s.Len() {
		t := s.At(i)
		if !t.Is(lineEndingKinds...) || !t.HasNewline() {
			continue
		}
		text := normalizeLineEndings(t.Text, eol)
		if text == t.Text {
			continue
		}
		t.Text = text
		if err := s.Set(i, t); err != nil {
			return err
		}
	}
	return nil
}

func normalizeLineEndings(text, eol string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			b.WriteString(eol)
		case '\n':
			b.WriteString(eol)
		default:
			b.WriteByte(text[i])
		}
	}
	return b.String()
}
