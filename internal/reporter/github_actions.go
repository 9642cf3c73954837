package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/wharflab/polish/internal/runner"
)

// GitHubActionsReporter formats results as GitHub Actions workflow commands.
// These commands appear as annotations in the GitHub Actions UI.
//
// Format: ::{level} file={file},title={title}::{message}
//
// See: https://docs.github.com/actions/using-workflows/workflow-commands-for-github-actions#setting-an-error-message
type GitHubActionsReporter struct {
	writer io.Writer
}

// NewGitHubActionsReporter creates a new GitHub Actions reporter.
func NewGitHubActionsReporter(w io.Writer) *GitHubActionsReporter {
	return &GitHubActionsReporter{writer: w}
}

// GitHub Actions annotation levels.
const (
	ghLevelError   = "error"
	ghLevelWarning = "warning"
	ghLevelNotice  = "notice"
)

// Report implements Reporter.
func (r *GitHubActionsReporter) Report(rep *runner.Report) error {
	for _, n := range rep.Notices() {
		if _, err := fmt.Fprintf(r.writer, "::%s title=%s::%s\n",
			ghLevelWarning, escapeGitHubProperty("deprecated rule set"), escapeGitHubMessage(n.String())); err != nil {
			return err
		}
	}

	for _, e := range entries(rep, false) {
		level := ghLevelWarning
		message := "File needs fixing by " + strings.Join(e.fixers, ", ")
		title := "polish"
		switch {
		case e.failed():
			level = ghLevelError
			message = e.err.Error()
			if e.kind != "" {
				title = "polish: " + string(e.kind)
			}
		case e.written:
			level = ghLevelNotice
			message = "File was fixed by " + strings.Join(e.fixers, ", ")
		}

		if _, err := fmt.Fprintf(r.writer, "::%s file=%s,title=%s::%s\n",
			level,
			escapeGitHubProperty(e.path),
			escapeGitHubProperty(title),
			escapeGitHubMessage(message),
		); err != nil {
			return err
		}
	}
	return nil
}

// escapeGitHubMessage escapes special characters in GitHub Actions workflow command messages.
// Messages use escapeData() rules which escape "%", "\r", "\n" but NOT ":" or ",".
// See: https://github.com/actions/toolkit/blob/main/packages/core/src/command.ts
func escapeGitHubMessage(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// escapeGitHubProperty escapes special characters in GitHub Actions workflow command properties.
// Properties (file, title, etc.) also escape ":" and ",".
func escapeGitHubProperty(s string) string {
	s = escapeGitHubMessage(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	s = strings.ReplaceAll(s, ",", "%2C")
	return s
}
