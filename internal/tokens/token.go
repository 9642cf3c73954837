package tokens

import "strings"

// Token is an immutable lexical unit.
type Token struct {
	Kind Kind
	Text string

	// Offset is the byte offset in the lexed source, or -1 for tokens
	// introduced by a fixer.
	Offset int
}

// NewToken returns a token that did not come from the lexer.
func NewToken(kind Kind, text string) Token {
	return Token{Kind: kind, Text: text, Offset: -1}
}

// Is reports whether the token is any of the given kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// IsMeaningful reports whether the token is neither whitespace nor a comment.
func (t Token) IsMeaningful() bool {
	return !t.Is(Whitespace, Comment, DocComment)
}

// IsComment reports whether the token is a line, block or doc comment.
func (t Token) IsComment() bool {
	return t.Is(Comment, DocComment)
}

// IsKeyword reports whether the token is the given keyword, ignoring case.
func (t Token) IsKeyword(word string) bool {
	return t.Kind == Keyword && strings.EqualFold(t.Text, word)
}

// IsOperator reports whether the token is the given operator.
func (t Token) IsOperator(op string) bool {
	return t.Kind == Operator && t.Text == op
}

// HasNewline reports whether the token text spans lines.
func (t Token) HasNewline() bool {
	return strings.ContainsAny(t.Text, "\r\n")
}

// IsLineComment reports whether the token is a // or # comment.
func (t Token) IsLineComment() bool {
	return t.Kind == Comment && (strings.HasPrefix(t.Text, "//") || strings.HasPrefix(t.Text, "#"))
}
