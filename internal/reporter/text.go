package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/wharflab/polish/internal/runner"
)

// Styles for different parts of the output
var (
	pathStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")) // Light gray

	fixerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // Blue

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	noticeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")) // Orange

	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))  // Green
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("160")) // Red
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("37"))  // Cyan

	summaryStyle = lipgloss.NewStyle().Bold(true)
)

// TextOptions configures the text reporter output.
type TextOptions struct {
	// Color enables/disables colored output. Default: auto-detect.
	Color *bool

	// ShowDiff prints a unified diff below each changed file.
	ShowDiff bool
}

// TextReporter prints one numbered line per changed or failed file, followed
// by a summary.
type TextReporter struct {
	writer io.Writer
	opts   TextOptions
	color  bool
}

// NewTextReporter creates a new text reporter writing to w.
func NewTextReporter(w io.Writer, opts TextOptions) *TextReporter {
	color := detectColor(w)
	if opts.Color != nil {
		color = *opts.Color
	}
	return &TextReporter{writer: w, opts: opts, color: color}
}

// detectColor enables styling for terminals whose environment allows it
// (respects NO_COLOR and CLICOLOR_FORCE).
func detectColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return termenv.EnvColorProfile() != termenv.Ascii && os.Getenv("CLICOLOR_FORCE") != ""
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}

func (r *TextReporter) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// Report implements Reporter.
func (r *TextReporter) Report(rep *runner.Report) error {
	w := r.writer
	for _, n := range rep.Notices() {
		fmt.Fprintf(w, "%s %s\n", r.style(noticeStyle, "Deprecation notice:"), n.String())
	}

	for i, e := range entries(rep, r.opts.ShowDiff) {
		if e.failed() {
			fmt.Fprintf(w, "%4d) %s %s\n", i+1, r.style(pathStyle, e.path), r.style(errorStyle, "failed: "+e.err.Error()))
			continue
		}
		fmt.Fprintf(w, "%4d) %s (%s)\n", i+1, r.style(pathStyle, e.path), r.style(fixerStyle, strings.Join(e.fixers, ", ")))
		if e.diff != "" {
			r.printDiff(e.diff)
		}
	}

	s := rep.Summary()
	verb := "Fixed"
	if rep.DryRun {
		verb = "Found"
	}
	line := fmt.Sprintf("%s %d of %d files", verb, s.Changed, s.Files)
	if rep.DryRun {
		line = fmt.Sprintf("%s %d of %d files that can be fixed", verb, s.Changed, s.Files)
	}
	if s.Failed > 0 {
		line += fmt.Sprintf(", %d failed", s.Failed)
	}
	if s.Skipped > 0 {
		line += fmt.Sprintf(", %d skipped", s.Skipped)
	}
	_, err := fmt.Fprintf(w, "\n%s.\n", r.style(summaryStyle, line))
	return err
}

func (r *TextReporter) printDiff(diff string) {
	fmt.Fprintln(r.writer, "      ---------- begin diff ----------")
	for line := range strings.SplitSeq(strings.TrimSuffix(diff, "\n"), "\n") {
		styled := line
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			styled = r.style(addedStyle, line)
		case strings.HasPrefix(line, "-"):
			styled = r.style(removedStyle, line)
		case strings.HasPrefix(line, "@@"):
			styled = r.style(hunkStyle, line)
		}
		fmt.Fprintln(r.writer, "      "+styled)
	}
	fmt.Fprintln(r.writer, "      ----------- end diff -----------")
}
