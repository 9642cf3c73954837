// Package casing implements fixers that normalize the case of language
// keywords.
package casing

import (
	"strings"

	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/tokens"
)

// LowercaseKeywordsName is the name of the lowercase_keywords fixer.
const LowercaseKeywordsName = "lowercase_keywords"

// LowercaseKeywordsFixer lowercases language keywords.
type LowercaseKeywordsFixer struct{}

// NewLowercaseKeywordsFixer creates a new lowercase_keywords fixer instance.
func NewLowercaseKeywordsFixer() *LowercaseKeywordsFixer {
	return &LowercaseKeywordsFixer{}
}

// Metadata returns the fixer metadata.
func (f *LowercaseKeywordsFixer) Metadata() fixer.Metadata {
	return fixer.Metadata{
		Name:    LowercaseKeywordsName,
		Summary: "PHP keywords MUST be in lower case.",
		Samples: []fixer.Sample{
			{Code: "<?php\n    FOREACH($a AS $B) {\n        TRY {\n            NEW $C($a, ISSET($B));\n            WHILE($B) {\n                INCLUDE \"test.php\";\n            }\n        } CATCH(\\Exception $e) {\n            EXIT(1);\n        }\n    }\n"},
		},
	}
}

// IsCandidate reports whether any keyword or ::class constant is not lowercase.
func (f *LowercaseKeywordsFixer) IsCandidate(s *tokens.Stream) bool {
	for i := range s.Len() {
		if t := s.At(i); (t.Kind == tokens.Keyword || t.Kind == tokens.Name) && t.Text != strings.ToLower(t.Text) {
			return true
		}
	}
	return false
}

// Fix lowercases every keyword token and the class name constant.
func (f *LowercaseKeywordsFixer) Fix(s *tokens.Stream, _ fixer.Config) error {
	for i := range s.Len() {
		t := s.At(i)
		lower := strings.ToLower(t.Text)
		if lower == t.Text {
			continue
		}
		switch t.Kind {
		case tokens.Keyword:
			if lower == "enum" && !isEnumDeclaration(s, i) {
				continue
			}
		case tokens.Name:
			if !isClassConstant(s, i) {
				continue
			}
		default:
			continue
		}
		t.Text = lower
		if err := s.Set(i, t); err != nil {
			return err
		}
	}
	return nil
}

// isEnumDeclaration reports whether the enum word at i starts a declaration.
// Elsewhere it is an ordinary identifier such as a class or function name.
func isEnumDeclaration(s *tokens.Stream, i int) bool {
	if p := s.PrevMeaningful(i); p >= 0 {
		prev := s.At(p)
		for _, kw := range []string{"class", "new", "extends", "implements", "instanceof", "interface", "trait", "enum", "use"} {
			if prev.IsKeyword(kw) {
				return false
			}
		}
	}
	ws, ok := s.Get(i + 1)
	if !ok || ws.Kind != tokens.Whitespace {
		return false
	}
	name, ok := s.Get(i + 2)
	if !ok {
		return false
	}
	switch name.Kind {
	case tokens.Name:
		return true
	case tokens.Keyword:
		return !name.IsKeyword("extends") && !name.IsKeyword("implements")
	}
	return false
}

func isClassConstant(s *tokens.Stream, i int) bool {
	if !strings.EqualFold(s.At(i).Text, "class") {
		return false
	}
	p := s.PrevMeaningful(i)
	return p >= 0 && s.At(p).IsOperator("::")
}
