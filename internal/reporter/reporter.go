// Package reporter provides output formatters for fix results.
//
// The package supports multiple output formats:
//   - text: Human-readable terminal output with colors and optional diffs
//   - json: Machine-readable JSON output
//   - sarif: Static Analysis Results Interchange Format for CI/CD integration
//   - github-actions: Native GitHub Actions workflow annotations
package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/wharflab/polish/internal/fault"
	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/runner"
)

// Reporter formats and outputs the results of a run.
type Reporter interface {
	Report(report *runner.Report) error
}

// Format represents an output format type.
type Format string

const (
	// FormatText is human-readable terminal output.
	FormatText Format = "text"
	// FormatJSON is machine-readable JSON output.
	FormatJSON Format = "json"
	// FormatSARIF is Static Analysis Results Interchange Format.
	FormatSARIF Format = "sarif"
	// FormatGitHubActions is GitHub Actions workflow command output.
	FormatGitHubActions Format = "github-actions"
)

// ParseFormat parses a format string into a Format type.
// Returns an error if the format is unknown.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "sarif":
		return FormatSARIF, nil
	case "github-actions", "github":
		return FormatGitHubActions, nil
	default:
		return "", fmt.Errorf("unknown format: %q (valid: text, json, sarif, github-actions)", s)
	}
}

// Options configures reporter creation.
type Options struct {
	// Format specifies the output format.
	Format Format

	// Writer is the output destination.
	Writer io.Writer

	// Color enables/disables colored output (text format only).
	// nil means auto-detect.
	Color *bool

	// ShowDiff includes a unified diff for each changed file.
	ShowDiff bool

	// Registry supplies fixer summaries for SARIF rule descriptors (optional).
	Registry *fixer.Registry

	// ToolVersion is included in SARIF output.
	ToolVersion string
}

// New creates a reporter based on the format specified in options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch opts.Format {
	case FormatText, "":
		return NewTextReporter(opts.Writer, TextOptions{Color: opts.Color, ShowDiff: opts.ShowDiff}), nil
	case FormatJSON:
		return NewJSONReporter(opts.Writer, opts.ShowDiff), nil
	case FormatSARIF:
		return NewSARIFReporter(opts.Writer, opts.ToolVersion, opts.Registry), nil
	case FormatGitHubActions:
		return NewGitHubActionsReporter(opts.Writer), nil
	default:
		return nil, fmt.Errorf("unknown format: %q", opts.Format)
	}
}

// GetWriter returns an io.Writer for the given output path.
// Supports "stdout", "stderr", or file paths.
func GetWriter(path string) (io.Writer, func() error, error) {
	switch path {
	case "stdout", "":
		return os.Stdout, func() error { return nil }, nil
	case "stderr":
		return os.Stderr, func() error { return nil }, nil
	default:
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		return f, f.Close, nil
	}
}

// entry is the format-independent view of one reported file.
type entry struct {
	path    string
	fixers  []string
	passes  int
	diff    string
	err     error
	kind    fault.Kind
	written bool
}

func (e entry) failed() bool { return e.err != nil }

// entries returns the changed and failed files sorted by path. Unchanged
// files are omitted.
func entries(rep *runner.Report, withDiff bool) []entry {
	var out []entry
	for i := range rep.Files {
		f := &rep.Files[i]
		switch {
		case f.Failed():
			err := f.Error()
			out = append(out, entry{
				path: filepath.ToSlash(f.Path),
				err:  err,
				kind: fault.KindOf(err),
			})
		case f.Changed():
			e := entry{
				path:    filepath.ToSlash(f.Path),
				fixers:  f.Result.Changed,
				passes:  f.Result.Passes,
				written: f.Written,
			}
			if withDiff {
				e.diff = Diff(f.Source, f.Result.Output)
			}
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b entry) int { return strings.Compare(a.path, b.path) })
	return out
}

// Diff renders a unified diff between two versions of a file.
func Diff(before, after string) string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "Original",
		ToFile:   "New",
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return text
}
