package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/polish/internal/fault"
)

func mustTokenize(t *testing.T, src string) *Stream {
	t.Helper()
	s, err := Tokenize(src)
	require.NoError(t, err)
	return s
}

func indexOf(s *Stream, text string) int {
	return s.Next(-1, func(t Token) bool { return t.Text == text })
}

func TestFindBlockEnd(t *testing.T) {
	t.Parallel()

	s := mustTokenize(t, "<?php f(a(b), (c)); $x = [[1], 2];")

	open := indexOf(s, "(")
	end, err := s.FindBlockEnd(open)
	require.NoError(t, err)
	assert.Equal(t, ")", s.At(end).Text)
	assert.Equal(t, ";", s.At(end+1).Text)

	start, err := s.FindBlockStart(end)
	require.NoError(t, err)
	assert.Equal(t, open, start)

	arr := s.Next(-1, func(t Token) bool { return t.Kind == ArraySquareOpen })
	arrEnd, err := s.FindBlockEnd(arr)
	require.NoError(t, err)
	assert.Equal(t, ArraySquareClose, s.At(arrEnd).Kind)
	assert.Equal(t, ";", s.At(arrEnd+1).Text)
}

func TestFindBlockEndErrors(t *testing.T) {
	t.Parallel()

	s := mustTokenize(t, "<?php f(1;")

	_, err := s.FindBlockEnd(indexOf(s, "("))
	require.ErrorIs(t, err, fault.UnbalancedStructure)

	_, err = s.FindBlockEnd(indexOf(s, "f"))
	require.ErrorIs(t, err, fault.UnbalancedStructure)

	_, err = s.FindBlockEnd(99)
	require.ErrorIs(t, err, fault.IndexOutOfRange)

	_, err = s.FindBlockStart(-1)
	require.ErrorIs(t, err, fault.IndexOutOfRange)
}

func TestReplaceRange(t *testing.T) {
	t.Parallel()

	s := mustTokenize(t, "<?php $x = [1,2];")
	comma := indexOf(s, ",")
	v := s.Version()

	require.NoError(t, s.ReplaceRange(comma+1, comma+1, []Token{NewToken(Whitespace, " ")}))
	assert.Equal(t, "<?php $x = [1, 2];", s.Render())
	assert.Equal(t, v+1, s.Version())
	assert.Equal(t, "2", s.At(comma+2).Text, "later indices shift by the delta")
	assert.Equal(t, -1, s.At(comma+1).Offset)

	require.NoError(t, s.ReplaceRange(comma, comma+2, []Token{NewToken(Comma, ",")}))
	assert.Equal(t, "<?php $x = [1,2];", s.Render())
}

func TestReplaceRangeOutOfBounds(t *testing.T) {
	t.Parallel()

	s := mustTokenize(t, "<?php $x;")
	before := s.Tokens()
	v := s.Version()

	for _, r := range [][2]int{{-1, 0}, {2, 1}, {0, s.Len() + 1}} {
		err := s.ReplaceRange(r[0], r[1], []Token{NewToken(Whitespace, " ")})
		require.ErrorIs(t, err, fault.IndexOutOfRange)
	}
	assert.Equal(t, before, s.Tokens())
	assert.Equal(t, v, s.Version())
}

func TestInsertRemoveSet(t *testing.T) {
	t.Parallel()

	s := mustTokenize(t, "<?php $a;")
	semi := indexOf(s, ";")

	require.NoError(t, s.Insert(semi, NewToken(Whitespace, " ")))
	assert.Equal(t, "<?php $a ;", s.Render())
	require.NoError(t, s.Remove(semi))
	assert.Equal(t, "<?php $a;", s.Render())
	require.NoError(t, s.Set(indexOf(s, "$a"), NewToken(Variable, "$b")))
	assert.Equal(t, "<?php $b;", s.Render())
	assert.ErrorIs(t, s.Remove(s.Len()), fault.IndexOutOfRange)
}

func TestScan(t *testing.T) {
	t.Parallel()

	s := mustTokenize(t, "<?php $a /* c */ = 1;")
	a := indexOf(s, "$a")
	eq := s.NextMeaningful(a)
	assert.Equal(t, "=", s.At(eq).Text)
	assert.Equal(t, a, s.PrevMeaningful(eq))
	assert.Equal(t, -1, s.NextMeaningful(s.Len()-1))
	assert.Equal(t, -1, s.PrevMeaningful(0))
	assert.Equal(t, 0, s.Prev(s.Len()+5, func(t Token) bool { return t.Kind == OpenTag }))
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	s := mustTokenize(t, "<?php $a;")
	c := s.Clone()
	require.NoError(t, c.Remove(c.Len()-1))
	assert.Equal(t, "<?php $a;", s.Render())
	assert.Equal(t, "<?php $a", c.Render())
}

func TestHash(t *testing.T) {
	t.Parallel()

	a := mustTokenize(t, "<?php $x = [1, 2];")
	b := NewStream([]Token{NewToken(InlineHTML, "<?php $x = [1, 2];")})
	assert.Equal(t, a.Hash(), b.Hash(), "hash depends on text only")

	c := mustTokenize(t, "<?php $x = [1,2];")
	assert.NotEqual(t, a.Hash(), c.Hash())
}

func TestCheckBalance(t *testing.T) {
	t.Parallel()

	require.NoError(t, mustTokenize(t, "<?php f([1], $a[0], function () { return (1); });").CheckBalance())

	for _, src := range []string{"<?php f(;", "<?php f());", "<?php { ];"} {
		assert.ErrorIs(t, mustTokenize(t, src).CheckBalance(), fault.UnbalancedStructure, src)
	}
}
