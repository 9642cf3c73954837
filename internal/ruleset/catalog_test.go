package ruleset

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/polish/internal/fault"
	"github.com/wharflab/polish/internal/fixers/all"
)

func TestParseSetKeepsOrder(t *testing.T) {
	t.Parallel()

	set, err := ParseSet([]byte(`
name: "@Mine"
description: mine
rules:
  zeta: true
  "@Base": true
  alpha: false
  beta:
    syntax: long
    elements: [a, b]
`))
	require.NoError(t, err)
	assert.Equal(t, "@Mine", set.Name)
	require.Len(t, set.Entries, 4)
	assert.Equal(t, "zeta", set.Entries[0].Name)
	assert.Equal(t, "@Base", set.Entries[1].Name)
	assert.Equal(t, Entry{Name: "alpha", Value: Disable()}, set.Entries[2])
	assert.Equal(t, map[string]any{"syntax": "long", "elements": []any{"a", "b"}}, set.Entries[3].Value.Options)
}

func TestParseSetRejectsBadValues(t *testing.T) {
	t.Parallel()

	_, err := ParseSet([]byte("name: \"@X\"\nrules:\n  alpha: 3\n"))
	require.ErrorIs(t, err, fault.InvalidConfiguration)

	_, err = ParseSet([]byte("name: \"@X\"\nrules: [alpha]\n"))
	require.ErrorIs(t, err, fault.InvalidConfiguration)
}

func TestCatalogAdd(t *testing.T) {
	t.Parallel()

	c := NewCatalog()
	require.NoError(t, c.Add(&Set{Name: "@A"}))
	require.ErrorIs(t, c.Add(&Set{Name: "@A"}), fault.DuplicateName)
	require.ErrorIs(t, c.Add(&Set{Name: "B"}), fault.InvalidConfiguration)
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"sets/a.yaml": {Data: []byte("name: \"@A\"\nrules:\n  alpha: true\n")},
		"sets/b.yaml": {Data: []byte("name: \"@B\"\nrules:\n  \"@A\": true\n")},
	}
	c, err := LoadCatalog(fsys, "sets/*.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"@A", "@B"}, c.Names())
}

func TestBuiltinCatalog(t *testing.T) {
	t.Parallel()

	c, err := Builtin()
	require.NoError(t, err)
	assert.Equal(t, []string{"@PER", "@PER-CS", "@PSR12", "@PSR2", "@PhpCsFixer", "@PhpCsFixer:risky"}, c.Names())

	reg, err := all.NewRegistry()
	require.NoError(t, err)
	require.NoError(t, c.Validate(reg))

	r := NewResolver(reg, c)
	for _, name := range c.Names() {
		res, err := r.Resolve(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, res.Enabled(), name)
	}

	res, err := r.Resolve("@PSR12")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"line_ending",
		"lowercase_keywords",
		"no_trailing_whitespace",
		"no_whitespace_before_comma_in_array",
		"single_blank_line_at_eof",
	}, res.Enabled())
	assert.Empty(t, r.RiskyRules(res))

	res, err = r.Resolve("@PER")
	require.NoError(t, err)
	require.Len(t, res.Notices(), 1)
	assert.Equal(t, "@PER", res.Notices()[0].Name)

	res, err = r.Resolve("@PhpCsFixer:risky")
	require.NoError(t, err)
	assert.Equal(t, []string{"no_unneeded_final_method"}, r.RiskyRules(res))
}

func TestCatalogValidateReportsUnknownNames(t *testing.T) {
	t.Parallel()

	reg, err := all.NewRegistry()
	require.NoError(t, err)

	c := NewCatalog()
	require.NoError(t, c.Add(&Set{Name: "@A", Entries: []Entry{{Name: "nope", Value: Enable()}, {Name: "@Missing", Value: Enable()}}}))
	require.NoError(t, c.Add(&Set{Name: "@B", Deprecated: true, Successors: []string{"@Gone"}}))
	err = c.Validate(reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope"`)
	assert.Contains(t, err.Error(), `"@Missing"`)
	assert.Contains(t, err.Error(), `"@Gone"`)
}
