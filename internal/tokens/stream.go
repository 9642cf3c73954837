package tokens

import (
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/wharflab/polish/internal/fault"
)

// Stream is an indexed, mutable sequence of tokens owned by a single pipeline
// run. It is not safe for concurrent mutation.
type Stream struct {
	tokens  []Token
	version uint64
}

// NewStream wraps a token slice. The slice is copied.
func NewStream(toks []Token) *Stream {
	return &Stream{tokens: append([]Token(nil), toks...)}
}

// Len returns the number of tokens.
func (s *Stream) Len() int { return len(s.tokens) }

// At returns the token at index i. It panics if i is out of range, like a
// slice index.
func (s *Stream) At(i int) Token { return s.tokens[i] }

// Get returns the token at index i, or false when i is out of range.
func (s *Stream) Get(i int) (Token, bool) {
	if i < 0 || i >= len(s.tokens) {
		return Token{}, false
	}
	return s.tokens[i], true
}

// Tokens returns a copy of the token sequence.
func (s *Stream) Tokens() []Token {
	return append([]Token(nil), s.tokens...)
}

// Version increments on every successful mutation. Callers compare versions
// to skip rendering when nothing was touched.
func (s *Stream) Version() uint64 { return s.version }

// Render concatenates the token texts.
func (s *Stream) Render() string {
	n := 0
	for _, t := range s.tokens {
		n += len(t.Text)
	}
	var b strings.Builder
	b.Grow(n)
	for _, t := range s.tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// Hash returns the xxhash of the rendered text without materializing it.
func (s *Stream) Hash() uint64 {
	d := xxhash.New()
	for _, t := range s.tokens {
		_, _ = d.WriteString(t.Text)
	}
	return d.Sum64()
}

// Clone returns an independent copy of the stream.
func (s *Stream) Clone() *Stream {
	return &Stream{tokens: s.Tokens(), version: s.version}
}

// ReplaceRange substitutes tokens[start:end] with repl. Tokens after end shift
// by len(repl)-(end-start). On failure the stream is left untouched.
func (s *Stream) ReplaceRange(start, end int, repl []Token) error {
	if start < 0 || end < start || end > len(s.tokens) {
		return fault.New(fault.IndexOutOfRange, "range [%d, %d) outside stream of %d tokens", start, end, len(s.tokens))
	}
	out := make([]Token, 0, len(s.tokens)-(end-start)+len(repl))
	out = append(out, s.tokens[:start]...)
	out = append(out, repl...)
	out = append(out, s.tokens[end:]...)
	s.tokens = out
	s.version++
	return nil
}

// Insert places toks before index at.
func (s *Stream) Insert(at int, toks ...Token) error {
	return s.ReplaceRange(at, at, toks)
}

// Remove deletes the token at index i.
func (s *Stream) Remove(i int) error {
	return s.ReplaceRange(i, i+1, nil)
}

// Set replaces the token at index i.
func (s *Stream) Set(i int, tok Token) error {
	if i < 0 || i >= len(s.tokens) {
		return fault.New(fault.IndexOutOfRange, "index %d outside stream of %d tokens", i, len(s.tokens))
	}
	s.tokens[i] = tok
	s.version++
	return nil
}

// Next returns the first index after i whose token satisfies pred, or -1.
func (s *Stream) Next(i int, pred func(Token) bool) int {
	for j := max(i+1, 0); j < len(s.tokens); j++ {
		if pred(s.tokens[j]) {
			return j
		}
	}
	return -1
}

// Prev returns the last index before i whose token satisfies pred, or -1.
func (s *Stream) Prev(i int, pred func(Token) bool) int {
	if i > len(s.tokens) {
		i = len(s.tokens)
	}
	for j := i - 1; j >= 0; j-- {
		if pred(s.tokens[j]) {
			return j
		}
	}
	return -1
}

// NextMeaningful returns the next non-whitespace, non-comment index after i, or -1.
func (s *Stream) NextMeaningful(i int) int {
	return s.Next(i, Token.IsMeaningful)
}

// PrevMeaningful returns the previous non-whitespace, non-comment index before i, or -1.
func (s *Stream) PrevMeaningful(i int) int {
	return s.Prev(i, Token.IsMeaningful)
}

// ContainsKind reports whether any token is one of kinds.
func (s *Stream) ContainsKind(kinds ...Kind) bool {
	for _, t := range s.tokens {
		if t.Is(kinds...) {
			return true
		}
	}
	return false
}

// ContainsKeyword reports whether any keyword token matches word, ignoring case.
func (s *Stream) ContainsKeyword(word string) bool {
	for _, t := range s.tokens {
		if t.IsKeyword(word) {
			return true
		}
	}
	return false
}

// FindBlockEnd returns the index of the closer matching the opener at open.
// Nested pairs of the same kind are skipped.
func (s *Stream) FindBlockEnd(open int) (int, error) {
	tok, ok := s.Get(open)
	if !ok {
		return -1, fault.New(fault.IndexOutOfRange, "index %d outside stream of %d tokens", open, len(s.tokens))
	}
	if !tok.Kind.IsOpener() {
		return -1, fault.New(fault.UnbalancedStructure, "token %d (%s) is not an opening bracket", open, tok.Kind).
			WithOffset(tok.Offset)
	}
	closer := tok.Kind.Closer()
	depth := 0
	for i := open; i < len(s.tokens); i++ {
		switch s.tokens[i].Kind {
		case tok.Kind:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, fault.New(fault.UnbalancedStructure, "no %s matching %s at index %d", closer, tok.Kind, open).
		WithOffset(tok.Offset)
}

// FindBlockStart returns the index of the opener matching the closer at end.
func (s *Stream) FindBlockStart(end int) (int, error) {
	tok, ok := s.Get(end)
	if !ok {
		return -1, fault.New(fault.IndexOutOfRange, "index %d outside stream of %d tokens", end, len(s.tokens))
	}
	if !tok.Kind.IsCloser() {
		return -1, fault.New(fault.UnbalancedStructure, "token %d (%s) is not a closing bracket", end, tok.Kind).
			WithOffset(tok.Offset)
	}
	opener := tok.Kind.Opener()
	depth := 0
	for i := end; i >= 0; i-- {
		switch s.tokens[i].Kind {
		case tok.Kind:
			depth++
		case opener:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, fault.New(fault.UnbalancedStructure, "no %s matching %s at index %d", opener, tok.Kind, end).
		WithOffset(tok.Offset)
}

// CheckBalance verifies that every bracket pair in the stream is matched.
func (s *Stream) CheckBalance() error {
	var stack []int
	for i, t := range s.tokens {
		switch {
		case t.Kind.IsOpener():
			stack = append(stack, i)
		case t.Kind.IsCloser():
			if len(stack) == 0 {
				return fault.New(fault.UnbalancedStructure, "unexpected %s at index %d", t.Kind, i).WithOffset(t.Offset)
			}
			top := s.tokens[stack[len(stack)-1]]
			if top.Kind.Closer() != t.Kind {
				return fault.New(fault.UnbalancedStructure, "%s at index %d closes %s", t.Kind, i, top.Kind).WithOffset(t.Offset)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		t := s.tokens[stack[len(stack)-1]]
		return fault.New(fault.UnbalancedStructure, "unclosed %s at index %d", t.Kind, stack[len(stack)-1]).WithOffset(t.Offset)
	}
	return nil
}
