package ruleset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/polish/internal/fault"
)

func TestParseEntriesList(t *testing.T) {
	t.Parallel()

	entries, err := ParseEntries("@PSR12, -lowercase_keywords,array_syntax,,")
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Name: "@PSR12", Value: Enable()},
		{Name: "lowercase_keywords", Value: Disable()},
		{Name: "array_syntax", Value: Enable()},
	}, entries)
}

func TestParseEntriesJSON(t *testing.T) {
	t.Parallel()

	entries, err := ParseEntries(`{"zeta": true, "@PSR12": true, "array_syntax": {"syntax": "long"}, "alpha": false}`)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "zeta", entries[0].Name)
	assert.Equal(t, "@PSR12", entries[1].Name)
	assert.Equal(t, Configure(map[string]any{"syntax": "long"}), entries[2].Value)
	assert.Equal(t, Entry{Name: "alpha", Value: Disable()}, entries[3])

	_, err = ParseEntries(`{"alpha": "yes"}`)
	require.ErrorIs(t, err, fault.InvalidConfiguration)

	_, err = ParseEntries(`{"alpha": `)
	require.ErrorIs(t, err, fault.InvalidConfiguration)
}

func TestEntriesFromMap(t *testing.T) {
	t.Parallel()

	entries, err := EntriesFromMap(map[string]any{
		"lowercase_keywords": false,
		"@PSR2":              true,
		"array_syntax":       map[string]any{"syntax": "long"},
		"@PER-CS":            true,
	})
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"@PER-CS", "@PSR2", "array_syntax", "lowercase_keywords"}, names)

	_, err = EntriesFromMap(map[string]any{"alpha": nil})
	require.ErrorIs(t, err, fault.InvalidConfiguration)
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	candidates := []string{"array_syntax", "line_ending", "lowercase_keywords"}
	assert.Equal(t, "array_syntax", suggest("array_sintax", candidates))
	assert.Equal(t, "line_ending", suggest("LINE_ENDING", candidates))
	assert.Empty(t, suggest("not_a_real_rule", candidates))
}
