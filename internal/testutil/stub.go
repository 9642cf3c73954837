package testutil

import (
	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/tokens"
)

// Stub is a fixer assembled from plain functions.
type Stub struct {
	Meta      fixer.Metadata
	Opts      []fixer.Option
	Candidate func(*tokens.Stream) bool
	Apply     func(*tokens.Stream, fixer.Config) error
}

var _ fixer.ConfigurableFixer = (*Stub)(nil)

// NewStub returns a no-op stub with the given name and priority.
func NewStub(name string, priority int) *Stub {
	return &Stub{Meta: fixer.Metadata{Name: name, Summary: name, Priority: priority}}
}

// Metadata implements fixer.Fixer.
func (s *Stub) Metadata() fixer.Metadata { return s.Meta }

// Options implements fixer.ConfigurableFixer.
func (s *Stub) Options() []fixer.Option { return s.Opts }

// IsCandidate implements fixer.Fixer. A nil Candidate accepts every stream.
func (s *Stub) IsCandidate(st *tokens.Stream) bool {
	if s.Candidate == nil {
		return true
	}
	return s.Candidate(st)
}

// Fix implements fixer.Fixer.
func (s *Stub) Fix(st *tokens.Stream, cfg fixer.Config) error {
	if s.Apply == nil {
		return nil
	}
	return s.Apply(st, cfg)
}

// DeprecatedStub is a Stub that reports successors.
type DeprecatedStub struct {
	*Stub
	Replacements []string
}

var _ fixer.DeprecatedFixer = DeprecatedStub{}

// Successors implements fixer.DeprecatedFixer.
func (d DeprecatedStub) Successors() []string { return d.Replacements }
