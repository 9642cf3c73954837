package fixer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/polish/internal/fault"
	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/testutil"
)

func TestRegistryRegister(t *testing.T) {
	t.Parallel()

	r := fixer.NewRegistry()
	require.NoError(t, r.Register(testutil.NewStub("b", 0)))
	require.NoError(t, r.Register(testutil.NewStub("a", 0)))

	err := r.Register(testutil.NewStub("a", 5))
	require.ErrorIs(t, err, fault.DuplicateName)
	var fe *fault.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"a"}, fe.Names)

	assert.Equal(t, 0, r.Get("a").Metadata().Priority, "first registration wins")
	assert.True(t, r.Has("b"))
	assert.False(t, r.Has("c"))
	assert.Nil(t, r.Get("c"))
	assert.Equal(t, []string{"a", "b"}, r.Names())
	require.Len(t, r.All(), 2)
	assert.Equal(t, "a", r.All()[0].Metadata().Name)
}

func TestRegistryRegisterEmptyName(t *testing.T) {
	t.Parallel()

	err := fixer.NewRegistry().Register(testutil.NewStub("", 0))
	assert.ErrorIs(t, err, fault.InvalidConfiguration)
}

func TestRegistryValidate(t *testing.T) {
	t.Parallel()

	good := testutil.NewStub("good", 0)
	good.Meta.Before = []string{"other"}
	other := testutil.NewStub("other", 0)
	require.NoError(t, testutil.NewRegistry(t, good, other).Validate())

	bad := testutil.NewStub("bad", 0)
	bad.Meta.After = []string{"missing"}
	bad.Meta.ConflictsWith = []string{"gone"}
	old := testutil.DeprecatedStub{Stub: testutil.NewStub("old", 0), Replacements: []string{"new"}}

	err := testutil.NewRegistry(t, bad, old).Validate()
	require.ErrorIs(t, err, fault.InvalidConfiguration)
	assert.Contains(t, err.Error(), `bad declares after "missing"`)
	assert.Contains(t, err.Error(), `bad declares conflicts with "gone"`)
	assert.Contains(t, err.Error(), `old declares successor "new"`)
}

func TestDeprecationCapability(t *testing.T) {
	t.Parallel()

	_, ok := fixer.Deprecation(testutil.NewStub("plain", 0))
	assert.False(t, ok)

	succ, ok := fixer.Deprecation(testutil.DeprecatedStub{Stub: testutil.NewStub("old", 0), Replacements: []string{"new"}})
	assert.True(t, ok)
	assert.Equal(t, []string{"new"}, succ)
}
