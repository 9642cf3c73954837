package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/polish/internal/version"
)

// NewApp creates the CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "polish",
		Usage:   "A coding standards fixer for PHP",
		Version: version.Version(),
		Description: `polish rewrites PHP source files to follow a coding standard.

Rules are grouped in sets such as @PSR12 or @PER-CS and configured in
.polish.toml. Every file is fixed until no enabled rule changes it anymore.

Examples:
  polish fix src/
  polish fix --dry-run --show-diff --rules=@PER-CS,-array_syntax src/
  polish describe @PSR12
  polish list-rules
  polish schema > polish.schema.json`,
		Commands: []*cli.Command{
			fixCommand(),
			describeCommand(),
			listRulesCommand(),
			listSetsCommand(),
			listFilesCommand(),
			schemaCommand(),
			versionCommand(),
		},
		// Exit codes are handled by main so the app can run in tests.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

// Execute runs the CLI application
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewApp().Run(ctx, os.Args)
}
