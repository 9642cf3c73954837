package ruleset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/polish/internal/fault"
	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/testutil"
)

func newTestResolver(t *testing.T, sets ...*Set) *Resolver {
	t.Helper()

	risky := testutil.NewStub("risky_rule", 0)
	risky.Meta.Risky = true
	reg := testutil.NewRegistry(t,
		testutil.NewStub("alpha", 0),
		testutil.NewStub("beta", 0),
		testutil.NewStub("gamma", 0),
		testutil.NewStub("array_syntax", 0),
		risky,
		testutil.DeprecatedStub{Stub: testutil.NewStub("old_rule", 0), Replacements: []string{"alpha"}},
	)
	cat := NewCatalog()
	for _, s := range sets {
		require.NoError(t, cat.Add(s))
	}
	return NewResolver(reg, cat)
}

func set(name string, entries ...Entry) *Set {
	return &Set{Name: name, Entries: entries}
}

func on(name string) Entry  { return Entry{Name: name, Value: Enable()} }
func off(name string) Entry { return Entry{Name: name, Value: Disable()} }

func TestResolveEmptySet(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, set("@Empty"))
	res, err := r.Resolve("@Empty")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())
	assert.Empty(t, res.Enabled())
}

func TestResolveNested(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t,
		set("@Base", on("alpha"), on("beta")),
		set("@Top", on("@Base"), off("beta"), Entry{Name: "gamma", Value: Configure(map[string]any{"x": 1})}),
	)
	res, err := r.Resolve("@Top")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, res.Names())
	assert.Equal(t, []string{"alpha", "gamma"}, res.Enabled())
	assert.Equal(t, map[string]any{"x": 1}, res.Options("gamma"))

	beta, ok := res.Get("beta")
	require.True(t, ok)
	assert.False(t, beta.Enabled)
}

func TestResolveLastWriteWins(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t,
		set("@EnablesAlpha", on("alpha")),
		set("@DisablesAlpha", off("alpha")),
		set("@OffThenOn", off("alpha"), on("alpha")),
		set("@OnThenOff", on("alpha"), off("alpha")),
		set("@SiblingsOn", on("@DisablesAlpha"), on("@EnablesAlpha")),
		set("@SiblingsOff", on("@EnablesAlpha"), on("@DisablesAlpha")),
		set("@NestedThenOverride", on("@SiblingsOff"), on("alpha")),
	)

	tests := []struct {
		ref     string
		enabled bool
	}{
		{"@OffThenOn", true},
		{"@OnThenOff", false},
		{"@SiblingsOn", true},
		{"@SiblingsOff", false},
		{"@NestedThenOverride", true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			t.Parallel()
			res, err := r.Resolve(tt.ref)
			require.NoError(t, err)
			v, ok := res.Get("alpha")
			require.True(t, ok)
			assert.Equal(t, tt.enabled, v.Enabled)
		})
	}
}

func TestResolveDisabledSet(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t,
		set("@Base", on("alpha"), off("beta")),
	)
	res, err := r.ResolveEntries([]Entry{on("beta"), on("gamma"), off("@Base")})
	require.NoError(t, err)
	assert.Equal(t, []string{"beta", "gamma"}, res.Enabled())
	alpha, ok := res.Get("alpha")
	require.True(t, ok)
	assert.False(t, alpha.Enabled)
}

func TestResolveDisabledSetOnlyTurnsOffWhatItEnables(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t,
		set("@Inner", off("beta"), on("gamma")),
		set("@Outer", on("alpha"), on("@Inner")),
	)
	res, err := r.ResolveEntries([]Entry{on("beta"), off("@Outer")})
	require.NoError(t, err)
	assert.Equal(t, []string{"beta"}, res.Enabled())
	for _, name := range []string{"alpha", "gamma"} {
		v, ok := res.Get(name)
		require.True(t, ok, name)
		assert.False(t, v.Enabled, name)
	}
}

func TestResolveUnknownRule(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, set("@Top", on("alpha"), on("array_sintax")))

	_, err := r.Resolve("not_a_real_rule")
	require.ErrorIs(t, err, fault.UnknownRuleName)
	var fe *fault.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"not_a_real_rule"}, fe.Names)

	_, err = r.Resolve("@Top")
	require.ErrorIs(t, err, fault.UnknownRuleName)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"array_sintax"}, fe.Names)
	assert.Equal(t, []string{"@Top"}, fe.Path)
	assert.Equal(t, "array_syntax", fe.Suggestion)
}

func TestResolveUnknownSet(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t,
		set("@PSR12", on("alpha")),
		set("@Top", on("@PSR13")),
	)

	_, err := r.Resolve("@Nope")
	require.ErrorIs(t, err, fault.UnknownSetName)

	_, err = r.Resolve("@Top")
	require.ErrorIs(t, err, fault.UnknownSetName)
	var fe *fault.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"@PSR13"}, fe.Names)
	assert.Equal(t, []string{"@Top"}, fe.Path)
	assert.Equal(t, "@PSR12", fe.Suggestion)
}

func TestResolveSetCycle(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t,
		set("@A", on("alpha"), on("@B")),
		set("@B", on("@A")),
	)
	_, err := r.Resolve("@A")
	require.ErrorIs(t, err, fault.InvalidConfiguration)
	var fe *fault.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"@A", "@B", "@A"}, fe.Path)
}

func TestResolveSetWithOptions(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, set("@A", on("alpha")))
	_, err := r.ResolveEntries([]Entry{{Name: "@A", Value: Configure(map[string]any{"x": true})}})
	require.ErrorIs(t, err, fault.InvalidConfiguration)
}

func TestResolveDeprecations(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t,
		&Set{Name: "@Old", Deprecated: true, Successors: []string{"@New"}, Entries: []Entry{on("@New")}},
		set("@New", on("alpha"), on("old_rule")),
	)
	res, err := r.Resolve("@Old")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "old_rule"}, res.Enabled())

	notices := res.Notices()
	require.Len(t, notices, 2)
	assert.Equal(t, "@Old", notices[0].Name)
	assert.Equal(t, `set "@Old" is deprecated, use "@New" instead`, notices[0].String())
	assert.Equal(t, "old_rule", notices[1].Name)
	assert.Equal(t, []string{"@Old", "@New"}, notices[1].Path)
	assert.Equal(t, `rule "old_rule" is deprecated, use "alpha" instead (via @Old -> @New)`, notices[1].String())

	res, err = r.ResolveEntries([]Entry{off("old_rule")})
	require.NoError(t, err)
	assert.Empty(t, res.Notices())
}

func TestRiskyRules(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t)
	res, err := r.ResolveEntries([]Entry{on("alpha"), on("risky_rule")})
	require.NoError(t, err)
	assert.Equal(t, []string{"risky_rule"}, r.RiskyRules(res))
}

func TestResolvedIsImmutable(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t)
	res, err := r.ResolveEntries([]Entry{{Name: "alpha", Value: Configure(map[string]any{"x": 1})}})
	require.NoError(t, err)

	opts := res.Options("alpha")
	opts["x"] = 2
	assert.Equal(t, map[string]any{"x": 1}, res.Options("alpha"))
}

func TestResolverUsesRegistryOnly(t *testing.T) {
	t.Parallel()

	r := NewResolver(fixer.NewRegistry(), nil)
	_, err := r.Resolve("alpha")
	require.True(t, errors.Is(err, fault.UnknownRuleName))
}
