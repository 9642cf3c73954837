package fixer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/tokens"
)

// plainFixer implements only the base interface.
type plainFixer struct{}

func (plainFixer) Metadata() fixer.Metadata { return fixer.Metadata{Name: "plain"} }
func (plainFixer) IsCandidate(*tokens.Stream) bool { return true }
func (plainFixer) Fix(*tokens.Stream, fixer.Config) error { return nil }

func TestOptionsOf(t *testing.T) {
	t.Parallel()

	assert.Nil(t, fixer.OptionsOf(plainFixer{}))
	assert.Len(t, fixer.OptionsOf(configurable()), 3)
}

func TestConfigAccessorsOnMissing(t *testing.T) {
	t.Parallel()

	var cfg fixer.Config
	assert.False(t, cfg.Bool("x"))
	assert.Empty(t, cfg.String("x"))
	assert.Nil(t, cfg.Strings("x"))
}

func TestDefaultWhitespace(t *testing.T) {
	t.Parallel()

	ws := fixer.DefaultWhitespace()
	assert.Equal(t, "    ", ws.Indent)
	assert.Equal(t, "\n", ws.LineEnding)
}
