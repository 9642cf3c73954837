package reporter

import (
	"encoding/json"
	"io"

	"github.com/wharflab/polish/internal/runner"
)

// JSONOutput is the top-level structure for JSON output.
type JSONOutput struct {
	// Files lists changed and failed files.
	Files []JSONFile `json:"files"`
	// Notices holds deprecation notices raised while resolving rules.
	Notices []string `json:"notices,omitempty"`
	// Summary contains aggregate statistics.
	Summary JSONSummary `json:"summary"`
	// DryRun is true when no file was written.
	DryRun bool `json:"dry_run"`
}

// JSONFile is the result for a single file.
type JSONFile struct {
	Name          string   `json:"name"`
	AppliedFixers []string `json:"applied_fixers,omitempty"`
	Passes        int      `json:"passes,omitempty"`
	Diff          string   `json:"diff,omitempty"`
	Error         string   `json:"error,omitempty"`
	ErrorKind     string   `json:"error_kind,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	Files   int `json:"files"`
	Changed int `json:"changed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped,omitempty"`
}

// JSONReporter formats results as JSON output.
type JSONReporter struct {
	writer   io.Writer
	showDiff bool
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer, showDiff bool) *JSONReporter {
	return &JSONReporter{writer: w, showDiff: showDiff}
}

// Report implements Reporter.
func (r *JSONReporter) Report(rep *runner.Report) error {
	s := rep.Summary()
	output := JSONOutput{
		Files:   []JSONFile{},
		Summary: JSONSummary{Files: s.Files, Changed: s.Changed, Failed: s.Failed, Skipped: s.Skipped},
		DryRun:  rep.DryRun,
	}
	for _, n := range rep.Notices() {
		output.Notices = append(output.Notices, n.String())
	}
	for _, e := range entries(rep, r.showDiff) {
		f := JSONFile{Name: e.path, AppliedFixers: e.fixers, Passes: e.passes, Diff: e.diff}
		if e.failed() {
			f.Error = e.err.Error()
			f.ErrorKind = string(e.kind)
		}
		output.Files = append(output.Files, f)
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
