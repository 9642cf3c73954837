// Package analysis locates syntactic regions (array literals, argument and
// parameter lists) that fixers operate on.
//
// Helpers return opener indices in ascending order. Fixers process them in
// reverse so edits inside a later block never shift an earlier opener.
package analysis

import (
	"github.com/wharflab/polish/internal/tokens"
)

// ArrayOpeners returns the openers of every array literal: the '[' of short
// arrays and the '(' following the array keyword.
func ArrayOpeners(s *tokens.Stream) []int {
	var out []int
	for i := range s.Len() {
		t := s.At(i)
		switch {
		case t.Kind == tokens.ArraySquareOpen:
			out = append(out, i)
		case t.IsKeyword("array"):
			if p := s.NextMeaningful(i); p >= 0 && s.At(p).Kind == tokens.ParenOpen {
				out = append(out, p)
			}
		}
	}
	return out
}

// ArgumentOpeners returns the '(' of call argument lists, including new
// expressions and isset/unset.
func ArgumentOpeners(s *tokens.Stream) []int {
	var out []int
	for i := range s.Len() {
		if s.At(i).Kind != tokens.ParenOpen {
			continue
		}
		p := s.PrevMeaningful(i)
		if p < 0 {
			continue
		}
		prev := s.At(p)
		switch {
		case prev.Is(tokens.Variable, tokens.ParenClose, tokens.SquareClose):
			out = append(out, i)
		case prev.Kind == tokens.Name:
			if !isDeclarationName(s, p) {
				out = append(out, i)
			}
		case prev.IsKeyword("isset"), prev.IsKeyword("unset"), prev.IsKeyword("static"):
			out = append(out, i)
		}
	}
	return out
}

// ParameterOpeners returns the '(' of function, method, closure and arrow
// function parameter lists.
func ParameterOpeners(s *tokens.Stream) []int {
	var out []int
	for i := range s.Len() {
		if s.At(i).Kind != tokens.ParenOpen {
			continue
		}
		p := s.PrevMeaningful(i)
		if p < 0 {
			continue
		}
		prev := s.At(p)
		switch {
		case prev.IsKeyword("function"), prev.IsKeyword("fn"):
			out = append(out, i)
		case prev.Kind == tokens.Name && isDeclarationName(s, p):
			out = append(out, i)
		case prev.IsOperator("&"):
			if q := s.PrevMeaningful(p); q >= 0 && (s.At(q).IsKeyword("function") || s.At(q).IsKeyword("fn")) {
				out = append(out, i)
			}
		}
	}
	return out
}

// MatchOpeners returns the '{' of match expression arms.
func MatchOpeners(s *tokens.Stream) []int {
	var out []int
	for i := range s.Len() {
		if !s.At(i).IsKeyword("match") {
			continue
		}
		p := s.NextMeaningful(i)
		if p < 0 || s.At(p).Kind != tokens.ParenOpen {
			continue
		}
		end, err := s.FindBlockEnd(p)
		if err != nil {
			continue
		}
		if b := s.NextMeaningful(end); b >= 0 && s.At(b).Kind == tokens.BraceOpen {
			out = append(out, b)
		}
	}
	return out
}

// GroupImportOpeners returns the '{' of grouped use statements (use A\{B, C};).
func GroupImportOpeners(s *tokens.Stream) []int {
	var out []int
	for i := range s.Len() {
		if s.At(i).Kind != tokens.BraceOpen {
			continue
		}
		if p := s.PrevMeaningful(i); p >= 0 && s.At(p).IsOperator(`\`) {
			out = append(out, i)
		}
	}
	return out
}

// isDeclarationName reports whether the name at i follows the function
// keyword, possibly with a by-reference marker.
func isDeclarationName(s *tokens.Stream, i int) bool {
	p := s.PrevMeaningful(i)
	if p >= 0 && s.At(p).IsOperator("&") {
		p = s.PrevMeaningful(p)
	}
	return p >= 0 && s.At(p).IsKeyword("function")
}

// IsDestructuring reports whether the short array opened at i is the target
// of an assignment or a foreach value, or nested inside one.
func IsDestructuring(s *tokens.Stream, open int) bool {
	if p := s.PrevMeaningful(open); p >= 0 && s.At(p).IsKeyword("as") {
		return true
	}
	end, err := s.FindBlockEnd(open)
	if err != nil {
		return false
	}
	if n := s.NextMeaningful(end); n >= 0 && s.At(n).IsOperator("=") {
		return true
	}
	if outer := EnclosingOpener(s, open); outer >= 0 && s.At(outer).Kind == tokens.ArraySquareOpen {
		return IsDestructuring(s, outer)
	}
	return false
}

// EnclosingOpener returns the index of the innermost opener containing i, or -1.
func EnclosingOpener(s *tokens.Stream, i int) int {
	for j := i - 1; j >= 0; j-- {
		t := s.At(j)
		switch {
		case t.Kind.IsCloser():
			start, err := s.FindBlockStart(j)
			if err != nil {
				return -1
			}
			j = start
		case t.Kind.IsOpener():
			return j
		}
	}
	return -1
}

// TopLevel returns the indices strictly inside open..closing that are not
// nested in another block. Nested openers are included; their contents are
// not. An anonymous class header and body count as nested.
func TopLevel(s *tokens.Stream, open, closing int) ([]int, error) {
	var out []int
	for i := open + 1; i < closing; i++ {
		t := s.At(i)
		out = append(out, i)
		var opener int
		switch {
		case t.IsKeyword("class"):
			opener = s.Next(i, func(t tokens.Token) bool { return t.Kind == tokens.BraceOpen })
			if opener < 0 || opener > closing {
				continue
			}
		case t.Kind.IsOpener():
			opener = i
		default:
			continue
		}
		end, err := s.FindBlockEnd(opener)
		if err != nil {
			return nil, err
		}
		i = end
	}
	return out, nil
}

// TopLevelCommas returns the top-level comma indices of the block opened at open.
func TopLevelCommas(s *tokens.Stream, open int) ([]int, error) {
	end, err := s.FindBlockEnd(open)
	if err != nil {
		return nil, err
	}
	idx, err := TopLevel(s, open, end)
	if err != nil {
		return nil, err
	}
	var out []int
	for _, i := range idx {
		if s.At(i).Kind == tokens.Comma {
			out = append(out, i)
		}
	}
	return out, nil
}

// IsMultiline reports whether any whitespace directly inside the block, outside
// nested blocks, spans lines.
func IsMultiline(s *tokens.Stream, open, closing int) (bool, error) {
	idx, err := TopLevel(s, open, closing)
	if err != nil {
		return false, err
	}
	for _, i := range idx {
		if t := s.At(i); t.Kind == tokens.Whitespace && t.HasNewline() {
			return true, nil
		}
	}
	return false, nil
}

// NewlineBetween reports whether any token strictly between a and b contains
// a line break.
func NewlineBetween(s *tokens.Stream, a, b int) bool {
	for i := a + 1; i < b; i++ {
		t := s.At(i)
		if t.Is(tokens.Whitespace) && t.HasNewline() {
			return true
		}
		if t.IsLineComment() {
			return true
		}
	}
	return false
}
