package tokens

import "strings"

// operators is ordered longest first so prefix matching is greedy.
var operators = []string{
	"<<=", ">>=", "**=", "...", "<=>", "===", "!==", "??=", "?->",
	"->", "::", "==", "!=", "<>", "<=", ">=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", ".=", "%=", "&=", "|=", "^=", "<<", ">>", "??", "**",
}

var keywords = map[string]struct{}{}

func init() {
	for _, kw := range strings.Fields(`
		abstract and array as break callable case catch class clone const continue
		declare default die do echo else elseif empty enddeclare endfor endforeach
		endif endswitch endwhile enum exit extends final finally fn for foreach
		function global goto if implements include include_once instanceof
		insteadof interface isset list match namespace new or print private
		protected public readonly require require_once return static switch throw
		trait try unset use var while xor yield`) {
		keywords[kw] = struct{}{}
	}
}

func isKeyword(s string) bool {
	_, ok := keywords[strings.ToLower(s)]
	return ok
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isBlank(c byte) bool { return c == ' ' || c == '\t' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDigitOrUnderscore(c byte) bool { return isDigit(c) || c == '_' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentChar(c byte) bool { return isIdentStart(c) || isDigit(c) }
