package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gkampitakis/ciinfo"
	"github.com/urfave/cli/v3"

	"github.com/wharflab/polish/internal/config"
	"github.com/wharflab/polish/internal/discovery"
	"github.com/wharflab/polish/internal/fault"
	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/metrics"
	"github.com/wharflab/polish/internal/reporter"
	"github.com/wharflab/polish/internal/runner"
	"github.com/wharflab/polish/internal/version"
)

func fixCommand() *cli.Command {
	return &cli.Command{
		Name:      "fix",
		Usage:     "Fix PHP files to follow the configured coding standard",
		ArgsUsage: "[PATH...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
			&cli.StringFlag{
				Name:  "rules",
				Usage: "Rules to apply, e.g. @PSR12,-braces or a YAML/JSON map (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Only report files that need fixing, do not write them",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, sarif, github-actions",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path: stdout, stderr, or file path",
			},
			&cli.BoolFlag{
				Name:  "show-diff",
				Usage: "Print a unified diff for each changed file",
			},
			&cli.BoolFlag{
				Name:  "risky-allowed",
				Usage: "Allow rules that may change program behavior",
			},
			&cli.BoolFlag{
				Name:  "strict-conflicts",
				Usage: "Fail when two enabled rules conflict",
			},
			&cli.IntFlag{
				Name:  "max-passes",
				Usage: "Maximum number of fixing passes per file (0 = default)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of files processed concurrently (0 = number of CPUs)",
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "Write Prometheus metrics for the run to this file",
				Sources: cli.EnvVars("POLISH_METRICS_FILE"),
			},
			&cli.BoolFlag{
				Name:  "show-config",
				Usage: "Print the effective configuration and exit",
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored output",
				Sources: cli.EnvVars("NO_COLOR"),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log progress to stderr",
			},
		},
		Action: runFix,
	}
}

func runFix(ctx context.Context, cmd *cli.Command) error {
	stdout, stderr := outWriter(cmd), errWriter(cmd)
	logger := newLogger(stderr, cmd.Bool("verbose"))

	target := "."
	if cmd.Args().Len() > 0 {
		target = cmd.Args().First()
	}
	cfg, err := loadConfig(cmd, target)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to load config: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	if cfg.ConfigFile != "" {
		logger.Debug("config loaded", "path", cfg.ConfigFile)
	}

	if cmd.Bool("show-config") {
		data, err := config.Dump(cfg)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return cli.Exit("", ExitConfigError)
		}
		_, err = stdout.Write(data)
		return err
	}

	resolver, err := newResolver()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cli.Exit("", ExitException)
	}

	opts, err := runner.OptionsFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	if opts.Rules, err = ruleEntries(cmd, cfg); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	opts.DryRun = cmd.Bool("dry-run")
	opts.Logger = logger
	metricsPath := cmd.String("metrics-file")
	if metricsPath != "" {
		opts.Metrics = metrics.New()
	}

	plan, err := runner.Compile(resolver, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cli.Exit("", exitCodeForError(err, resolver.Registry()))
	}
	logger.Debug("rules compiled", "fixers", len(plan.Fixers()), "max_passes", plan.MaxPasses())
	for _, n := range plan.Notices() {
		logger.Warn("deprecated rule", "notice", n.String())
	}

	files, err := discovery.Discover(inputPaths(cmd, cfg), discovery.Options{
		Include: cfg.Finder.Include,
		Exclude: cfg.Finder.Exclude,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	logger.Debug("files discovered", "count", len(files))

	report, err := runner.RunPlan(ctx, plan, files, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cli.Exit("", ExitException)
	}

	if err := writeReport(cmd, cfg, resolver.Registry(), report); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cli.Exit("", ExitException)
	}

	if metricsPath != "" {
		if err := opts.Metrics.WriteTextfile(metricsPath); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return cli.Exit("", ExitException)
		}
	}

	if code := exitCodeForReport(report); code != ExitSuccess {
		return cli.Exit("", code)
	}
	return nil
}

func writeReport(cmd *cli.Command, cfg *config.Config, reg *fixer.Registry, report *runner.Report) error {
	formatName := cfg.Output.Format
	if !cmd.IsSet("format") && formatName == "text" && ciinfo.GITHUB_ACTIONS {
		formatName = string(reporter.FormatGitHubActions)
	}
	format, err := reporter.ParseFormat(formatName)
	if err != nil {
		return err
	}

	var w io.Writer
	closeFn := func() error { return nil }
	switch cfg.Output.Path {
	case "", "stdout":
		w = outWriter(cmd)
	default:
		if w, closeFn, err = reporter.GetWriter(cfg.Output.Path); err != nil {
			return err
		}
	}

	var color *bool
	if cmd.Bool("no-color") {
		noColor := false
		color = &noColor
	}

	rep, err := reporter.New(reporter.Options{
		Format:      format,
		Writer:      w,
		Color:       color,
		ShowDiff:    cfg.Output.ShowDiff,
		Registry:    reg,
		ToolVersion: version.Version(),
	})
	if err != nil {
		_ = closeFn()
		return err
	}
	if err := rep.Report(report); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}

// exitCodeForReport combines the outcome flags of all files.
func exitCodeForReport(report *runner.Report) int {
	code := ExitSuccess
	for i := range report.Files {
		f := &report.Files[i]
		switch {
		case f.Failed():
			if fault.KindOf(f.Error()) == fault.LexError {
				code |= ExitInvalidSyntax
			} else {
				code |= ExitException
			}
		case report.DryRun && f.Changed():
			code |= ExitChangesNeeded
		}
	}
	return code
}

func outWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
