package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/polish/internal/discovery"
	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/ruleset"
)

func listRulesCommand() *cli.Command {
	return &cli.Command{
		Name:  "list-rules",
		Usage: "List all rules with their flags and summary",
		Action: func(_ context.Context, cmd *cli.Command) error {
			resolver, err := newResolver()
			if err != nil {
				fmt.Fprintf(errWriter(cmd), "Error: %v\n", err)
				return cli.Exit("", ExitException)
			}
			return listRules(outWriter(cmd), resolver.Registry())
		},
	}
}

func listRules(w io.Writer, reg *fixer.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range reg.All() {
		meta := f.Metadata()
		fmt.Fprintf(tw, "%s\t%s\t%s\n", meta.Name, strings.Join(ruleFlags(f), ","), meta.Summary)
	}
	return tw.Flush()
}

func ruleFlags(f fixer.Fixer) []string {
	var flags []string
	if f.Metadata().Risky {
		flags = append(flags, "risky")
	}
	if len(fixer.OptionsOf(f)) > 0 {
		flags = append(flags, "configurable")
	}
	if _, ok := fixer.Deprecation(f); ok {
		flags = append(flags, "deprecated")
	}
	if len(flags) == 0 {
		flags = append(flags, "-")
	}
	return flags
}

func listSetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "list-sets",
		Usage: "List all rule sets",
		Action: func(_ context.Context, cmd *cli.Command) error {
			resolver, err := newResolver()
			if err != nil {
				fmt.Fprintf(errWriter(cmd), "Error: %v\n", err)
				return cli.Exit("", ExitException)
			}
			return listSets(outWriter(cmd), resolver.Catalog())
		},
	}
}

func listSets(w io.Writer, cat *ruleset.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range cat.Names() {
		set, _ := cat.Get(name)
		var flags []string
		if set.Risky {
			flags = append(flags, "risky")
		}
		if set.Deprecated {
			flags = append(flags, "deprecated")
		}
		if len(flags) == 0 {
			flags = append(flags, "-")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", set.Name, strings.Join(flags, ","), set.Description)
	}
	return tw.Flush()
}

func listFilesCommand() *cli.Command {
	return &cli.Command{
		Name:      "list-files",
		Usage:     "List the files that would be fixed",
		ArgsUsage: "[PATH...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			stderr := errWriter(cmd)
			target := "."
			if cmd.Args().Len() > 0 {
				target = cmd.Args().First()
			}
			cfg, err := loadConfig(cmd, target)
			if err != nil {
				fmt.Fprintf(stderr, "Error: failed to load config: %v\n", err)
				return cli.Exit("", ExitConfigError)
			}
			files, err := discovery.Discover(inputPaths(cmd, cfg), discovery.Options{
				Include: cfg.Finder.Include,
				Exclude: cfg.Finder.Exclude,
			})
			if err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return cli.Exit("", ExitConfigError)
			}
			w := outWriter(cmd)
			for _, f := range files {
				if _, err := fmt.Fprintln(w, f.Path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
