package tokens

import (
	"strings"

	"github.com/wharflab/polish/internal/fault"
)

// Tokenize lexes PHP source into a stream. It fails with fault.LexError only
// for an unterminated string, comment or heredoc.
func Tokenize(src string) (*Stream, error) {
	lx := &lexer{src: src}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return &Stream{tokens: lx.toks}, nil
}

type lexer struct {
	src  string
	pos  int
	toks []Token

	// squares tracks the kinds of open '[' tokens so ']' can be classified.
	squares []Kind
}

func (lx *lexer) run() error {
	inPHP := false
	for !lx.atEnd() {
		if !inPHP {
			inPHP = lx.scanInlineHTML()
			continue
		}
		closed, err := lx.next()
		if err != nil {
			return err
		}
		if closed {
			inPHP = false
		}
	}
	return nil
}

func (lx *lexer) atEnd() bool { return lx.pos >= len(lx.src) }

func (lx *lexer) peekAt(n int) byte {
	if lx.pos+n >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+n]
}

// emit appends the next n bytes as a token of the given kind.
func (lx *lexer) emit(kind Kind, n int) {
	lx.toks = append(lx.toks, Token{Kind: kind, Text: lx.src[lx.pos : lx.pos+n], Offset: lx.pos})
	lx.pos += n
}

func (lx *lexer) prevMeaningful() (Token, bool) {
	for i := len(lx.toks) - 1; i >= 0; i-- {
		if lx.toks[i].IsMeaningful() {
			return lx.toks[i], true
		}
	}
	return Token{}, false
}

func (lx *lexer) fail(start int, format string, args ...any) error {
	return fault.New(fault.LexError, format, args...).WithOffset(start)
}

// scanInlineHTML consumes text up to the next open tag. It reports whether an
// open tag was found.
func (lx *lexer) scanInlineHTML() bool {
	idx, n := findOpenTag(lx.src, lx.pos)
	if idx < 0 {
		lx.emit(InlineHTML, len(lx.src)-lx.pos)
		return false
	}
	if idx > lx.pos {
		lx.emit(InlineHTML, idx-lx.pos)
	}
	lx.emit(OpenTag, n)
	return true
}

func findOpenTag(src string, from int) (int, int) {
	for i := from; i+1 < len(src); i++ {
		if src[i] != '<' || src[i+1] != '?' {
			continue
		}
		if strings.HasPrefix(src[i:], "<?=") {
			return i, 3
		}
		if i+5 <= len(src) && strings.EqualFold(src[i+2:i+5], "php") && (i+5 == len(src) || isSpace(src[i+5])) {
			return i, 5
		}
	}
	return -1, 0
}

// next scans one token in PHP mode. It reports whether a close tag was seen.
func (lx *lexer) next() (bool, error) {
	c := lx.src[lx.pos]
	switch {
	case isSpace(c):
		lx.emit(Whitespace, lx.span(lx.pos, isSpace)-lx.pos)
	case c == '?' && lx.peekAt(1) == '>':
		lx.emit(CloseTag, 2)
		return true, nil
	case c == '#' && lx.peekAt(1) == '[':
		lx.squares = append(lx.squares, AttributeOpen)
		lx.emit(AttributeOpen, 2)
	case c == '#' || (c == '/' && lx.peekAt(1) == '/'):
		lx.scanLineComment()
	case c == '/' && lx.peekAt(1) == '*':
		return false, lx.scanBlockComment()
	case c == '$' && isIdentStart(lx.peekAt(1)):
		lx.emit(Variable, lx.span(lx.pos+1, isIdentChar)-lx.pos)
	case c == '\'' || c == '"' || c == '`':
		return false, lx.scanQuoted(c)
	case c == '<' && lx.isHeredocStart():
		return false, lx.scanHeredoc()
	case isDigit(c) || (c == '.' && isDigit(lx.peekAt(1))):
		lx.scanNumber()
	case isIdentStart(c) || (c == '\\' && isIdentStart(lx.peekAt(1))):
		lx.scanName()
	default:
		lx.scanPunct()
	}
	return false, nil
}

// span returns the first index at or after from whose byte fails pred.
func (lx *lexer) span(from int, pred func(byte) bool) int {
	i := from
	for i < len(lx.src) && pred(lx.src[i]) {
		i++
	}
	return i
}

func (lx *lexer) scanLineComment() {
	i := lx.pos
	for i < len(lx.src) {
		c := lx.src[i]
		if c == '\n' || c == '\r' || (c == '?' && i+1 < len(lx.src) && lx.src[i+1] == '>') {
			break
		}
		i++
	}
	lx.emit(Comment, i-lx.pos)
}

func (lx *lexer) scanBlockComment() error {
	end := strings.Index(lx.src[lx.pos+2:], "*/")
	if end < 0 {
		return lx.fail(lx.pos, "unterminated comment")
	}
	n := end + 4
	kind := Comment
	if n > 4 && lx.peekAt(2) == '*' && isSpace(lx.peekAt(3)) {
		kind = DocComment
	}
	lx.emit(kind, n)
	return nil
}

// scanQuoted consumes a string literal. Double-quoted and backtick strings
// may embed expressions in {$...} or ${...}; those are kept inside the token
// even when they contain quotes of their own.
func (lx *lexer) scanQuoted(quote byte) error {
	var end int
	if quote == '\'' {
		end = plainQuotedEnd(lx.src, lx.pos+1)
	} else {
		end = interpolatedEnd(lx.src, lx.pos+1, quote)
	}
	if end < 0 {
		return lx.fail(lx.pos, "unterminated string")
	}
	lx.emit(String, end-lx.pos)
	return nil
}

// plainQuotedEnd returns the index just past the quote closing a
// single-quoted string whose body starts at i, or -1.
func plainQuotedEnd(src string, i int) int {
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
		case '\'':
			return i + 1
		default:
			i++
		}
	}
	return -1
}

// interpolatedEnd returns the index just past the closing quote of a string
// whose body starts at i, or -1.
func interpolatedEnd(src string, i int, quote byte) int {
	for i >= 0 && i < len(src) {
		c := src[i]
		switch {
		case c == '\\':
			i += 2
		case c == quote:
			return i + 1
		case c == '{' && i+1 < len(src) && src[i+1] == '$':
			i = embeddedEnd(src, i+1)
		case c == '$' && i+1 < len(src) && src[i+1] == '{':
			i = embeddedEnd(src, i+2)
		default:
			i++
		}
	}
	return -1
}

// embeddedEnd returns the index just past the '}' that closes an embedded
// expression whose body starts at i, or -1.
func embeddedEnd(src string, i int) int {
	depth := 1
	for i >= 0 && i < len(src) {
		switch c := src[i]; c {
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
			if depth == 0 {
				return i
			}
		case '\'':
			i = plainQuotedEnd(src, i+1)
		case '"', '`':
			i = interpolatedEnd(src, i+1, c)
		default:
			i++
		}
	}
	return -1
}

func (lx *lexer) isHeredocStart() bool {
	if !strings.HasPrefix(lx.src[lx.pos:], "<<<") {
		return false
	}
	i := lx.span(lx.pos+3, isBlank)
	if i < len(lx.src) && (lx.src[i] == '\'' || lx.src[i] == '"') {
		i++
	}
	return i < len(lx.src) && isIdentStart(lx.src[i])
}

// scanHeredoc consumes a heredoc or nowdoc up to and including its closing
// label. The body is kept in a single token.
func (lx *lexer) scanHeredoc() error {
	start := lx.pos
	i := lx.span(start+3, isBlank)
	var quote byte
	if lx.src[i] == '\'' || lx.src[i] == '"' {
		quote = lx.src[i]
		i++
	}
	labelEnd := lx.span(i, isIdentChar)
	label := lx.src[i:labelEnd]
	i = labelEnd
	if quote != 0 {
		if i >= len(lx.src) || lx.src[i] != quote {
			return lx.fail(start, "malformed heredoc label %q", label)
		}
		i++
	}
	if i >= len(lx.src) || (lx.src[i] != '\n' && lx.src[i] != '\r') {
		return lx.fail(start, "heredoc label %q must be followed by a newline", label)
	}
	for {
		nl := strings.IndexAny(lx.src[i:], "\r\n")
		if nl < 0 {
			return lx.fail(start, "unterminated heredoc %q", label)
		}
		i += nl + 1
		j := lx.span(i, isBlank)
		if strings.HasPrefix(lx.src[j:], label) {
			end := j + len(label)
			if end == len(lx.src) || !isIdentChar(lx.src[end]) {
				lx.emit(Heredoc, end-start)
				return nil
			}
		}
	}
}

func (lx *lexer) scanNumber() {
	i := lx.pos
	if lx.src[i] == '0' && i+1 < len(lx.src) && strings.ContainsRune("xXbBoO", rune(lx.src[i+1])) {
		lx.emit(Number, lx.span(i+2, isIdentChar)-i)
		return
	}
	i = lx.span(i, isDigitOrUnderscore)
	if i < len(lx.src) && lx.src[i] == '.' && (i+1 >= len(lx.src) || lx.src[i+1] != '.') {
		i = lx.span(i+1, isDigitOrUnderscore)
	}
	if i < len(lx.src) && (lx.src[i] == 'e' || lx.src[i] == 'E') {
		j := i + 1
		if j < len(lx.src) && (lx.src[j] == '+' || lx.src[j] == '-') {
			j++
		}
		if j < len(lx.src) && isDigit(lx.src[j]) {
			i = lx.span(j, isDigitOrUnderscore)
		}
	}
	lx.emit(Number, i-lx.pos)
}

func (lx *lexer) scanName() {
	i := lx.pos
	if lx.src[i] == '\\' {
		i++
	}
	for {
		i = lx.span(i, isIdentChar)
		if i+1 < len(lx.src) && lx.src[i] == '\\' && isIdentStart(lx.src[i+1]) {
			i++
			continue
		}
		break
	}
	text := lx.src[lx.pos:i]
	kind := Name
	if isKeyword(text) && !lx.inNamePosition() {
		kind = Keyword
	}
	lx.emit(kind, i-lx.pos)
}

// inNamePosition reports whether an identifier at the current position is a
// member, constant or function name rather than a keyword.
func (lx *lexer) inNamePosition() bool {
	prev, ok := lx.prevMeaningful()
	if !ok {
		return false
	}
	switch {
	case prev.IsOperator("->"), prev.IsOperator("?->"), prev.IsOperator("::"):
		return true
	case prev.IsKeyword("function"), prev.IsKeyword("const"):
		return true
	}
	return false
}

func (lx *lexer) scanPunct() {
	switch lx.src[lx.pos] {
	case ',':
		lx.emit(Comma, 1)
		return
	case ';':
		lx.emit(Semicolon, 1)
		return
	case '(':
		lx.emit(ParenOpen, 1)
		return
	case ')':
		lx.emit(ParenClose, 1)
		return
	case '{':
		lx.emit(BraceOpen, 1)
		return
	case '}':
		lx.emit(BraceClose, 1)
		return
	case '[':
		kind := lx.squareKind()
		lx.squares = append(lx.squares, kind)
		lx.emit(kind, 1)
		return
	case ']':
		kind := SquareClose
		if n := len(lx.squares); n > 0 {
			kind = lx.squares[n-1].Closer()
			lx.squares = lx.squares[:n-1]
		}
		lx.emit(kind, 1)
		return
	}
	if strings.HasPrefix(lx.src[lx.pos:], "=>") {
		lx.emit(DoubleArrow, 2)
		return
	}
	for _, op := range operators {
		if strings.HasPrefix(lx.src[lx.pos:], op) {
			lx.emit(Operator, len(op))
			return
		}
	}
	lx.emit(Operator, 1)
}

// squareKind classifies '[' as index access or a short array literal from the
// previous meaningful token.
func (lx *lexer) squareKind() Kind {
	prev, ok := lx.prevMeaningful()
	if !ok {
		return ArraySquareOpen
	}
	switch prev.Kind {
	case Variable, Name, String, Heredoc, ParenClose, SquareClose, ArraySquareClose:
		return SquareOpen
	}
	return ArraySquareOpen
}
