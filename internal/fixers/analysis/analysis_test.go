package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/polish/internal/tokens"
)

func lex(t *testing.T, src string) *tokens.Stream {
	t.Helper()
	s, err := tokens.Tokenize(src)
	require.NoError(t, err)
	return s
}

func texts(s *tokens.Stream, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = s.At(j).Text
	}
	return out
}

func prevTexts(s *tokens.Stream, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = s.At(s.PrevMeaningful(j)).Text
	}
	return out
}

func TestArrayOpeners(t *testing.T) {
	t.Parallel()

	s := lex(t, "<?php $a = [1, array(2), $b[0]]; function f(array $x) {} (array) $y;")
	assert.Equal(t, []string{"[", "("}, texts(s, ArrayOpeners(s)))
	assert.Equal(t, []string{"=", "array"}, prevTexts(s, ArrayOpeners(s)))
}

func TestArgumentAndParameterOpeners(t *testing.T) {
	t.Parallel()

	s := lex(t, "<?php function f($a) {} f(1); $g(2); new Foo(3); isset($x); $c = function ($d) use ($e) {}; fn($z) => $z; if ($q) {}")
	assert.Equal(t, []string{"f", "$g", "Foo", "isset"}, prevTexts(s, ArgumentOpeners(s)))
	assert.Equal(t, []string{"f", "function", "fn"}, prevTexts(s, ParameterOpeners(s)))
}

func TestMatchAndGroupImportOpeners(t *testing.T) {
	t.Parallel()

	s := lex(t, "<?php use A\\{B, C}; $r = match ($x) { 1 => 2, };")
	require.Len(t, MatchOpeners(s), 1)
	require.Len(t, GroupImportOpeners(s), 1)
	assert.Equal(t, ")", s.At(s.PrevMeaningful(MatchOpeners(s)[0])).Text)
}

func TestIsDestructuring(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want []bool
	}{
		{"<?php [$a, $b] = $c;", []bool{true}},
		{"<?php $x = [$a, $b];", []bool{false}},
		{"<?php foreach ($x as [$a, $b]) {}", []bool{true}},
		{"<?php [[$a], $b] = $c;", []bool{true, true}},
		{"<?php $x = [[1], 2] == $y;", []bool{false, false}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()
			s := lex(t, tt.src)
			var got []bool
			for _, i := range ArrayOpeners(s) {
				got = append(got, IsDestructuring(s, i))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTopLevelCommas(t *testing.T) {
	t.Parallel()

	s := lex(t, `<?php $x = [1, f(2, 3), [4, 5], new class implements A, B { const C = [6, 7]; }, function ($p, $q) {}, 8];`)
	open := ArrayOpeners(s)[0]
	commas, err := TopLevelCommas(s, open)
	require.NoError(t, err)
	assert.Len(t, commas, 5)
	for _, c := range commas {
		assert.Equal(t, open, EnclosingOpener(s, c))
	}
}

func TestIsMultilineAndNewlineBetween(t *testing.T) {
	t.Parallel()

	s := lex(t, "<?php $x = [f(\n1), 2];\n$y = [\n  1,\n];")
	opens := ArrayOpeners(s)
	require.Len(t, opens, 2)

	end, err := s.FindBlockEnd(opens[0])
	require.NoError(t, err)
	ml, err := IsMultiline(s, opens[0], end)
	require.NoError(t, err)
	assert.False(t, ml, "newline only inside a nested call")

	end, err = s.FindBlockEnd(opens[1])
	require.NoError(t, err)
	ml, err = IsMultiline(s, opens[1], end)
	require.NoError(t, err)
	assert.True(t, ml)
	assert.True(t, NewlineBetween(s, s.PrevMeaningful(end), end))
}
