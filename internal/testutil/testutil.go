// Package testutil provides test helpers for fixers, registries and the
// convergence pipeline.
package testutil

import (
	"testing"

	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/tokens"
)

// Tokenize lexes src and fails the test on a lex error.
func Tokenize(tb testing.TB, src string) *tokens.Stream {
	tb.Helper()

	s, err := tokens.Tokenize(src)
	if err != nil {
		tb.Fatalf("failed to tokenize: %v", err)
	}
	return s
}

// Apply validates opts for f, runs it once over src and returns the rendered
// result. Candidate gating is honored, as in the pipeline.
func Apply(tb testing.TB, f fixer.Fixer, src string, opts map[string]any) string {
	tb.Helper()

	cfg, err := fixer.ValidateConfig(f, opts)
	if err != nil {
		tb.Fatalf("invalid options for %s: %v", f.Metadata().Name, err)
	}
	s := Tokenize(tb, src)
	if !f.IsCandidate(s) {
		return s.Render()
	}
	if err := f.Fix(s, fixer.Config{Options: cfg, Whitespace: fixer.DefaultWhitespace()}); err != nil {
		tb.Fatalf("%s failed: %v", f.Metadata().Name, err)
	}
	if err := s.CheckBalance(); err != nil {
		tb.Fatalf("%s left the stream unbalanced: %v", f.Metadata().Name, err)
	}
	return s.Render()
}

// AssertFix applies f to input and checks the output equals expected. An
// empty expected means the input must be left unchanged. It also checks that
// a second application is a no-op.
func AssertFix(tb testing.TB, f fixer.Fixer, expected, input string, opts map[string]any) {
	tb.Helper()

	if expected == "" {
		expected = input
	}
	got := Apply(tb, f, input, opts)
	if got != expected {
		tb.Errorf("%s:\ninput:    %q\nexpected: %q\ngot:      %q", f.Metadata().Name, input, expected, got)
		return
	}
	if again := Apply(tb, f, got, opts); again != got {
		tb.Errorf("%s is not idempotent:\nfirst:  %q\nsecond: %q", f.Metadata().Name, got, again)
	}
}

// NewRegistry registers fixers into a fresh registry.
func NewRegistry(tb testing.TB, fixers ...fixer.Fixer) *fixer.Registry {
	tb.Helper()

	r := fixer.NewRegistry()
	for _, f := range fixers {
		if err := r.Register(f); err != nil {
			tb.Fatalf("register %s: %v", f.Metadata().Name, err)
		}
	}
	return r
}
