// Package metrics records fix run statistics as Prometheus metrics.
//
// A Collector owns a private registry, so several runs in one process (tests,
// the describe command) never share counters. A nil *Collector is valid and
// records nothing.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wharflab/polish/internal/fault"
	"github.com/wharflab/polish/internal/pipeline"
)

const namespace = "polish"

// File outcomes used as the "outcome" label.
const (
	OutcomeFixed     = "fixed"
	OutcomeUnchanged = "unchanged"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
)

// Collector holds the metrics of one run.
type Collector struct {
	registry *prometheus.Registry
	files    *prometheus.CounterVec
	failures *prometheus.CounterVec
	changes  *prometheus.CounterVec
	passes   prometheus.Histogram
}

// New creates a collector with its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Files processed, by outcome.",
		}, []string{"outcome"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Failed files, by error kind.",
		}, []string{"kind"}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fixer_changes_total",
			Help:      "Files changed by each fixer.",
		}, []string{"fixer"}),
		passes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "passes",
			Help:      "Passes needed to reach a fixed point.",
			Buckets:   []float64{1, 2, 3, 5, 10},
		}),
	}
	c.registry.MustRegister(c.files, c.failures, c.changes, c.passes)
	return c
}

// Observe records the result for one file.
func (c *Collector) Observe(res *pipeline.Result) {
	if c == nil || res == nil {
		return
	}
	if res.State != pipeline.Stable {
		c.files.WithLabelValues(OutcomeFailed).Inc()
		kind := string(fault.KindOf(res.Err))
		if kind == "" {
			kind = "unknown"
		}
		c.failures.WithLabelValues(kind).Inc()
		return
	}
	if res.Modified {
		c.files.WithLabelValues(OutcomeFixed).Inc()
	} else {
		c.files.WithLabelValues(OutcomeUnchanged).Inc()
	}
	for _, name := range res.Changed {
		c.changes.WithLabelValues(name).Inc()
	}
	c.passes.Observe(float64(res.Passes))
}

// ObserveError records a file that could not be read or written.
func (c *Collector) ObserveError() {
	if c == nil {
		return
	}
	c.files.WithLabelValues(OutcomeFailed).Inc()
	c.failures.WithLabelValues("io").Inc()
}

// ObserveSkipped records a file screened out before tokenizing.
func (c *Collector) ObserveSkipped() {
	if c == nil {
		return
	}
	c.files.WithLabelValues(OutcomeSkipped).Inc()
}

// Gatherer exposes the collector's registry.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteTextfile writes the metrics in the text exposition format, for the
// node_exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
