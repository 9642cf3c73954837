package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/polish/internal/fault"
	"github.com/wharflab/polish/internal/pipeline"
)

func TestObserve(t *testing.T) {
	t.Parallel()

	c := New()
	c.Observe(&pipeline.Result{State: pipeline.Stable, Passes: 2, Modified: true, Changed: []string{"array_syntax", "lowercase_keywords"}})
	c.Observe(&pipeline.Result{State: pipeline.Stable, Passes: 1, Changed: nil})
	c.Observe(&pipeline.Result{State: pipeline.Failed, Err: fault.New(fault.LexError, "unterminated string")})
	c.ObserveError()
	c.ObserveSkipped()

	assert.InDelta(t, 1, testutil.ToFloat64(c.files.WithLabelValues(OutcomeFixed)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.files.WithLabelValues(OutcomeUnchanged)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.files.WithLabelValues(OutcomeFailed)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.files.WithLabelValues(OutcomeSkipped)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.failures.WithLabelValues("LexError")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.failures.WithLabelValues("io")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.changes.WithLabelValues("array_syntax")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(c.passes))
}

func TestNilCollector(t *testing.T) {
	t.Parallel()

	var c *Collector
	assert.NotPanics(t, func() {
		c.Observe(&pipeline.Result{State: pipeline.Stable})
		c.ObserveError()
		c.ObserveSkipped()
	})
	assert.NoError(t, c.WriteTextfile(filepath.Join(t.TempDir(), "never.prom")))
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	c := New()
	c.Observe(&pipeline.Result{State: pipeline.Stable, Passes: 1, Modified: true, Changed: []string{"line_ending"}})

	path := filepath.Join(t.TempDir(), "polish.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `polish_files_total{outcome="fixed"} 1`)
	assert.Contains(t, string(data), `polish_fixer_changes_total{fixer="line_ending"} 1`)
	assert.Contains(t, string(data), "polish_passes_count 1")
}
