package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/polish/internal/config"
	"github.com/wharflab/polish/internal/fault"
	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/fixers/all"
	"github.com/wharflab/polish/internal/ruleset"
)

// Exit codes. Run outcomes are bit flags and may be combined, e.g. 12 for a
// dry run that found both fixable files and files with invalid syntax.
const (
	ExitSuccess        = 0
	ExitInvalidSyntax  = 4  // Some files could not be tokenized
	ExitChangesNeeded  = 8  // Dry run found files to fix
	ExitConfigError    = 16 // Invalid configuration of the application
	ExitFixerConfError = 32 // Invalid configuration of a fixer
	ExitException      = 64 // A fixer failed or did not converge, or I/O failed
)

// newResolver builds the resolver over the shipped fixers and rule sets.
func newResolver() (*ruleset.Resolver, error) {
	reg, err := all.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("fixer registry: %w", err)
	}
	cat, err := ruleset.Builtin()
	if err != nil {
		return nil, fmt.Errorf("rule sets: %w", err)
	}
	if err := cat.Validate(reg); err != nil {
		return nil, fmt.Errorf("rule sets: %w", err)
	}
	return ruleset.NewResolver(reg, cat), nil
}

// newLogger returns a text logger on w, at debug level when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig loads the configuration for target, honoring --config and the
// override flags of cmd.
func loadConfig(cmd *cli.Command, target string) (*config.Config, error) {
	configPath := cmd.String("config")
	if configPath == "" {
		configPath = config.Discover(target)
	}
	return config.LoadWithOverrides(configPath, configOverrides(cmd))
}

// configOverrides collects explicitly set flags in the config file's shape.
// Flags the command does not define are never set.
func configOverrides(cmd *cli.Command) map[string]any {
	overrides := make(map[string]any)
	output := make(map[string]any)
	set := func(flag string, apply func()) {
		if cmd.IsSet(flag) {
			apply()
		}
	}
	set("risky-allowed", func() { overrides["risky-allowed"] = cmd.Bool("risky-allowed") })
	set("strict-conflicts", func() { overrides["strict-conflicts"] = cmd.Bool("strict-conflicts") })
	set("max-passes", func() { overrides["max-passes"] = cmd.Int("max-passes") })
	set("workers", func() { overrides["parallel"] = map[string]any{"workers": cmd.Int("workers")} })
	set("format", func() { output["format"] = cmd.String("format") })
	set("output", func() { output["path"] = cmd.String("output") })
	set("show-diff", func() { output["show-diff"] = cmd.Bool("show-diff") })
	if len(output) > 0 {
		overrides["output"] = output
	}
	return overrides
}

// ruleEntries returns --rules when given, else the configured rules.
func ruleEntries(cmd *cli.Command, cfg *config.Config) ([]ruleset.Entry, error) {
	if cmd.IsSet("rules") {
		entries, err := ruleset.ParseEntries(cmd.String("rules"))
		if err != nil {
			return nil, fmt.Errorf("--rules: %w", err)
		}
		return entries, nil
	}
	return cfg.RuleEntries()
}

// inputPaths returns the command arguments, else the configured finder paths
// relative to the config file, else the current directory.
func inputPaths(cmd *cli.Command, cfg *config.Config) []string {
	if cmd.Args().Len() > 0 {
		return cmd.Args().Slice()
	}
	if len(cfg.Finder.Paths) == 0 {
		return []string{"."}
	}
	base := "."
	if cfg.ConfigFile != "" {
		base = filepath.Dir(cfg.ConfigFile)
	}
	paths := make([]string, len(cfg.Finder.Paths))
	for i, p := range cfg.Finder.Paths {
		if filepath.IsAbs(p) {
			paths[i] = p
		} else {
			paths[i] = filepath.Join(base, p)
		}
	}
	return paths
}

// exitCodeForError maps a failure that stopped the run to an exit code.
func exitCodeForError(err error, reg *fixer.Registry) int {
	var fe *fault.Error
	if !errors.As(err, &fe) {
		return ExitConfigError
	}
	switch fe.Kind.Class() {
	case fault.ClassConfiguration:
		if fe.Kind == fault.InvalidConfiguration && fe.Option != "" && fe.Option != "risky-allowed" &&
			len(fe.Names) == 1 && reg != nil && reg.Has(fe.Names[0]) {
			return ExitFixerConfError
		}
		return ExitConfigError
	default:
		return ExitException
	}
}
