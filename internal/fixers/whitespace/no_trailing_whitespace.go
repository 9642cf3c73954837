// Package whitespace implements fixers for trailing blanks, line endings and
// the end of file.
package whitespace

import (
	"strings"

	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/tokens"
)

// NoTrailingWhitespaceName is the name of the no_trailing_whitespace fixer.
const NoTrailingWhitespaceName = "no_trailing_whitespace"

// NoTrailingWhitespaceFixer removes blanks at the end of lines.
type NoTrailingWhitespaceFixer struct{}

// NewNoTrailingWhitespaceFixer creates a new no_trailing_whitespace fixer instance.
func NewNoTrailingWhitespaceFixer() *NoTrailingWhitespaceFixer {
	return &NoTrailingWhitespaceFixer{}
}

// Metadata returns the fixer metadata.
func (f *NoTrailingWhitespaceFixer) Metadata() fixer.Metadata {
	return fixer.Metadata{
		Name:    NoTrailingWhitespaceName,
		Summary: "Remove trailing whitespace at the end of non-blank lines.",
		Samples: []fixer.Sample{
			{Code: "<?php\n$a = 1;     \n"},
		},
	}
}

// IsCandidate reports whether a line inside PHP code ends with a blank.
func (f *NoTrailingWhitespaceFixer) IsCandidate(s *tokens.Stream) bool {
	for i := range s.Len() {
		t := s.At(i)
		switch {
		case t.Kind == tokens.Whitespace:
			if trimLines(t.Text, i == s.Len()-1) != t.Text {
				return true
			}
		case t.IsLineComment():
			if strings.HasSuffix(t.Text, " ") || strings.HasSuffix(t.Text, "\t") {
				return true
			}
		}
	}
	return false
}

// Fix trims blanks before every line break in whitespace tokens, at the end
// of line comments, and at the end of the file.
func (f *NoTrailingWhitespaceFixer) Fix(s *tokens.Stream, _ fixer.Config) error {
	for i := s.Len() - 1; i >= 0; i-- {
		t := s.At(i)
		last := i == s.Len()-1

		var text string
		switch {
		case t.Kind == tokens.Whitespace:
			text = trimLines(t.Text, last)
		case t.IsLineComment() && endsLine(s, i):
			text = strings.TrimRight(t.Text, " \t")
		default:
			continue
		}
		if text == t.Text {
			continue
		}
		if text == "" {
			if err := s.Remove(i); err != nil {
				return err
			}
			continue
		}
		t.Text = text
		if err := s.Set(i, t); err != nil {
			return err
		}
	}
	return nil
}

// trimLines removes blanks before each line break. The part after the last
// break is trimmed only at the end of the file, since elsewhere it is the
// indentation of the next line.
func trimLines(text string, atEOF bool) string {
	var b strings.Builder
	b.Grow(len(text))
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '\n' && text[i] != '\r' {
			continue
		}
		b.WriteString(strings.TrimRight(text[start:i], " \t"))
		b.WriteByte(text[i])
		start = i + 1
	}
	rest := text[start:]
	if atEOF {
		rest = strings.TrimRight(rest, " \t")
	}
	b.WriteString(rest)
	return b.String()
}

// endsLine reports whether the token at i is followed by a line break or the
// end of the file.
func endsLine(s *tokens.Stream, i int) bool {
	next, ok := s.Get(i + 1)
	if !ok {
		return true
	}
	return next.Kind == tokens.Whitespace && strings.IndexAny(next.Text, "\r\n") == 0
}
