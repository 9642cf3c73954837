// Package tokens provides a lossless, mutable token stream for PHP source.
//
// Every byte of the input belongs to exactly one token, so rendering an
// untouched stream reproduces the input byte for byte. Fixers mutate the
// stream only through range replacement, which keeps indices deterministic.
package tokens

// Kind is the lexical category of a token.
type Kind int

const (
	InlineHTML Kind = iota
	OpenTag
	CloseTag
	Whitespace
	Comment
	DocComment
	Variable
	Name
	Keyword
	Number
	String
	Heredoc
	Comma
	Semicolon
	DoubleArrow
	Operator
	ParenOpen
	ParenClose
	SquareOpen // index access: $a[0]
	SquareClose
	ArraySquareOpen // short array literal: [1, 2]
	ArraySquareClose
	BraceOpen
	BraceClose
	AttributeOpen // #[
	AttributeClose
)

var kindNames = [...]string{
	InlineHTML:       "InlineHTML",
	OpenTag:          "OpenTag",
	CloseTag:         "CloseTag",
	Whitespace:       "Whitespace",
	Comment:          "Comment",
	DocComment:       "DocComment",
	Variable:         "Variable",
	Name:             "Name",
	Keyword:          "Keyword",
	Number:           "Number",
	String:           "String",
	Heredoc:          "Heredoc",
	Comma:            "Comma",
	Semicolon:        "Semicolon",
	DoubleArrow:      "DoubleArrow",
	Operator:         "Operator",
	ParenOpen:        "ParenOpen",
	ParenClose:       "ParenClose",
	SquareOpen:       "SquareOpen",
	SquareClose:      "SquareClose",
	ArraySquareOpen:  "ArraySquareOpen",
	ArraySquareClose: "ArraySquareClose",
	BraceOpen:        "BraceOpen",
	BraceClose:       "BraceClose",
	AttributeOpen:    "AttributeOpen",
	AttributeClose:   "AttributeClose",
}

// String returns the kind name.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// IsOpener reports whether k opens a bracket pair.
func (k Kind) IsOpener() bool {
	switch k {
	case ParenOpen, SquareOpen, ArraySquareOpen, BraceOpen, AttributeOpen:
		return true
	}
	return false
}

// IsCloser reports whether k closes a bracket pair.
func (k Kind) IsCloser() bool {
	switch k {
	case ParenClose, SquareClose, ArraySquareClose, BraceClose, AttributeClose:
		return true
	}
	return false
}

// Closer returns the closing kind matching an opener, or -1.
func (k Kind) Closer() Kind {
	switch k {
	case ParenOpen:
		return ParenClose
	case SquareOpen:
		return SquareClose
	case ArraySquareOpen:
		return ArraySquareClose
	case BraceOpen:
		return BraceClose
	case AttributeOpen:
		return AttributeClose
	}
	return -1
}

// Opener returns the opening kind matching a closer, or -1.
func (k Kind) Opener() Kind {
	switch k {
	case ParenClose:
		return ParenOpen
	case SquareClose:
		return SquareOpen
	case ArraySquareClose:
		return ArraySquareOpen
	case BraceClose:
		return BraceOpen
	case AttributeClose:
		return AttributeOpen
	}
	return -1
}
