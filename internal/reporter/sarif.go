package reporter

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/runner"
)

// Default SARIF tool information.
const (
	toolName = "polish"
	toolURI  = "https://github.com/wharflab/polish"
)

// failureRulePrefix names the synthetic rules used for files that could not
// be fixed, e.g. "polish/LexError".
const failureRulePrefix = "polish/"

// SARIFReporter reports every fixer that would change (or changed) a file as
// one result, and every failed file as an error result.
//
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/
type SARIFReporter struct {
	writer      io.Writer
	toolVersion string
	registry    *fixer.Registry
}

// NewSARIFReporter creates a new SARIF reporter. registry may be nil.
func NewSARIFReporter(w io.Writer, toolVersion string, registry *fixer.Registry) *SARIFReporter {
	return &SARIFReporter{writer: w, toolVersion: toolVersion, registry: registry}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(rep *runner.Report) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	if r.toolVersion != "" {
		run.Tool.Driver.WithVersion(r.toolVersion)
	}

	list := entries(rep, false)

	// Rule descriptors, sorted for stable output
	ruleIDs := make(map[string]struct{})
	for _, e := range list {
		if e.failed() {
			ruleIDs[failureRuleID(e)] = struct{}{}
			continue
		}
		for _, name := range e.fixers {
			ruleIDs[name] = struct{}{}
		}
	}
	ids := make([]string, 0, len(ruleIDs))
	for id := range ruleIDs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		rule := run.AddRule(id)
		if summary := r.summary(id); summary != "" {
			rule.WithShortDescription(sarif.NewMultiformatMessageString().WithText(summary))
		}
	}

	for _, e := range list {
		run.AddDistinctArtifact(e.path)
	}

	for _, e := range list {
		location := []*sarif.Location{
			sarif.NewLocationWithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewSimpleArtifactLocation(e.path))),
		}
		if e.failed() {
			run.AddResult(sarif.NewRuleResult(failureRuleID(e)).
				WithMessage(sarif.NewTextMessage(e.err.Error())).
				WithLevel("error").
				WithLocations(location))
			continue
		}
		msg := "File needs fixing by %s"
		if e.written {
			msg = "File was fixed by %s"
		}
		for _, name := range e.fixers {
			run.AddResult(sarif.NewRuleResult(name).
				WithMessage(sarif.NewTextMessage(fmt.Sprintf(msg, name))).
				WithLevel("note").
				WithLocations(location))
		}
	}

	report.AddRun(run)

	// Write with pretty formatting for readability
	return report.PrettyWrite(r.writer)
}

func failureRuleID(e entry) string {
	if e.kind == "" {
		return failureRulePrefix + "IOError"
	}
	return failureRulePrefix + string(e.kind)
}

func (r *SARIFReporter) summary(id string) string {
	if kind, ok := strings.CutPrefix(id, failureRulePrefix); ok {
		return "File could not be fixed: " + kind
	}
	if r.registry == nil {
		return ""
	}
	if f := r.registry.Get(id); f != nil {
		return f.Metadata().Summary
	}
	return ""
}
