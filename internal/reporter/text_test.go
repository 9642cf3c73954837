package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextReporter(t *testing.T) {
	t.Parallel()

	noColor := false
	var buf bytes.Buffer
	r := NewTextReporter(&buf, TextOptions{Color: &noColor})
	require.NoError(t, r.Report(sampleReport(t, false, "array_syntax")))

	out := buf.String()
	assert.Contains(t, out, "   1) src/b.php (array_syntax)\n")
	assert.Contains(t, out, "   2) src/c.php failed: ")
	assert.Contains(t, out, "Fixed 1 of 3 files, 1 failed.")
	assert.NotContains(t, out, "src/a.php")
	assert.NotContains(t, out, "begin diff")
	assert.NotContains(t, out, "\x1b[")
	snaps.WithConfig(snaps.Ext(".txt")).MatchStandaloneSnapshot(t, out)
}

func TestTextReporterDryRunWithDiff(t *testing.T) {
	t.Parallel()

	noColor := false
	var buf bytes.Buffer
	r := NewTextReporter(&buf, TextOptions{Color: &noColor, ShowDiff: true})
	require.NoError(t, r.Report(sampleReport(t, true, "array_syntax")))

	out := buf.String()
	assert.Contains(t, out, "---------- begin diff ----------")
	assert.Contains(t, out, "      -$a = array(1);\n")
	assert.Contains(t, out, "      +$a = [1];\n")
	assert.Contains(t, out, "Found 1 of 3 files that can be fixed, 1 failed.")
	snaps.WithConfig(snaps.Ext(".txt")).MatchStandaloneSnapshot(t, out)
}

func TestTextReporterNotices(t *testing.T) {
	t.Parallel()

	noColor := false
	var buf bytes.Buffer
	r := NewTextReporter(&buf, TextOptions{Color: &noColor})
	require.NoError(t, r.Report(sampleReport(t, false, "@PER")))

	first, _, _ := strings.Cut(buf.String(), "\n")
	assert.Equal(t, `Deprecation notice: set "@PER" is deprecated, use "@PER-CS" instead`, first)
}

func TestTextReporterColor(t *testing.T) {
	t.Parallel()

	color := true
	var buf bytes.Buffer
	r := NewTextReporter(&buf, TextOptions{Color: &color})
	require.NoError(t, r.Report(sampleReport(t, false, "array_syntax")))
	assert.Contains(t, buf.String(), "\x1b[")
}
