// Package config provides configuration loading and discovery for polish.
//
// Configuration is loaded from multiple sources with the following priority
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (POLISH_* prefix)
//  3. Config file (closest .polish.toml or polish.toml)
//  4. Built-in defaults
//
// Config file discovery walks up from the target's directory until a config
// file is found. The closest config wins (no merging).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigFileNames defines the config file names to search for, in priority order.
var ConfigFileNames = []string{".polish.toml", "polish.toml"}

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "POLISH_"

// DefaultRuleSet is enabled when no rules are configured.
const DefaultRuleSet = "@PSR12"

// Config represents the complete polish configuration.
type Config struct {
	// RiskyAllowed permits rules that may change program behavior.
	RiskyAllowed bool `koanf:"risky-allowed" toml:"risky-allowed"`

	// MaxPasses caps the convergence loop (0 = engine default).
	MaxPasses int `koanf:"max-passes" toml:"max-passes"`

	// StrictConflicts makes conflicting rules a configuration error.
	StrictConflicts bool `koanf:"strict-conflicts" toml:"strict-conflicts"`

	// Rules maps rule and set names to true, false or an options table.
	Rules map[string]any `koanf:"rules" toml:"rules"`

	// Finder selects the files to process.
	Finder FinderConfig `koanf:"finder" toml:"finder"`

	// Output configures output format and destination.
	Output OutputConfig `koanf:"output" toml:"output"`

	// Parallel configures how many files are processed at once.
	Parallel ParallelConfig `koanf:"parallel" toml:"parallel"`

	// Whitespace sets the indentation and line ending handed to fixers.
	Whitespace WhitespaceConfig `koanf:"whitespace" toml:"whitespace"`

	// ConfigFile is the path to the config file that was loaded (if any).
	// This is metadata, not loaded from config.
	ConfigFile string `koanf:"-" toml:"-"`
}

// FinderConfig selects files.
//
// Example TOML configuration:
//
//	[finder]
//	paths = ["src", "tests"]
//	include = ["**/*.php"]
//	exclude = ["vendor/**", "var/cache/**"]
//	max-file-size = 1048576
type FinderConfig struct {
	Paths   []string `koanf:"paths" toml:"paths"`
	Include []string `koanf:"include" toml:"include"`
	Exclude []string `koanf:"exclude" toml:"exclude"`

	// MaxFileSize skips files larger than this many bytes (0 = no limit).
	MaxFileSize int64 `koanf:"max-file-size" toml:"max-file-size"`
}

// OutputConfig configures output formatting and behavior.
type OutputConfig struct {
	// Format is one of text, json, sarif or github-actions.
	Format string `koanf:"format" toml:"format"`

	// Path specifies where to write output: stdout, stderr or a file.
	Path string `koanf:"path" toml:"path"`

	// ShowDiff prints a unified diff for each changed file.
	ShowDiff bool `koanf:"show-diff" toml:"show-diff"`
}

// ParallelConfig configures file-level parallelism.
type ParallelConfig struct {
	// Workers is the number of files processed concurrently (0 = GOMAXPROCS).
	Workers int `koanf:"workers" toml:"workers"`
}

// WhitespaceConfig configures indentation and line endings.
//
// Example TOML configuration:
//
//	[whitespace]
//	indent = "\t"
//	line-ending = "\r\n"
//	use-editorconfig = false
type WhitespaceConfig struct {
	Indent     string `koanf:"indent" toml:"indent"`
	LineEnding string `koanf:"line-ending" toml:"line-ending"`

	// UseEditorconfig lets .editorconfig override indent and line ending per file.
	UseEditorconfig bool `koanf:"use-editorconfig" toml:"use-editorconfig"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Finder: FinderConfig{
			Include: []string{"**/*.php"},
			Exclude: []string{"vendor/**"},
		},
		Output: OutputConfig{
			Format: "text",
			Path:   "stdout",
		},
		Whitespace: WhitespaceConfig{
			Indent:          "    ",
			LineEnding:      "\n",
			UseEditorconfig: true,
		},
	}
}

// Load loads configuration for a target file path.
// It discovers the closest config file, loads it, and applies
// environment variable overrides.
func Load(targetPath string) (*Config, error) {
	return LoadWithOverrides(Discover(targetPath), nil)
}

// LoadFromFile loads configuration from a specific config file path.
// Unlike Load, it does not perform config discovery.
func LoadFromFile(configPath string) (*Config, error) {
	return LoadWithOverrides(configPath, nil)
}

// LoadWithOverrides loads defaults, the config file at configPath (if any),
// the environment and finally overrides.
//
// Overrides use the same nested shape as the TOML file, for example:
//
//	overrides := map[string]any{
//	  "output": map[string]any{"format": "json"},
//	  "risky-allowed": true,
//	}
func LoadWithOverrides(configPath string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	// 2. Load config file if provided
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, err
		}
	}

	// 3. Load environment variables (POLISH_* prefix)
	// POLISH_OUTPUT__SHOW_DIFF -> output.show-diff
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil); err != nil {
		return nil, err
	}

	// 4. CLI overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, ""), nil); err != nil {
			return nil, err
		}
	}

	cfg, err := decodeConfig(k)
	if err != nil {
		return nil, err
	}
	cfg.ConfigFile = configPath
	return cfg, nil
}

var allowedEnvTopLevelKeys = map[string]struct{}{
	"risky-allowed":    {},
	"max-passes":       {},
	"strict-conflicts": {},
	"finder":           {},
	"output":           {},
	"parallel":         {},
	"whitespace":       {},
}

// envKeyTransform converts environment variable names to config keys.
// A double underscore separates nesting levels and a single underscore
// becomes a hyphen:
//
//	POLISH_RISKY_ALLOWED        -> risky-allowed
//	POLISH_OUTPUT__SHOW_DIFF    -> output.show-diff
//	POLISH_FINDER__EXCLUDE      -> finder.exclude (space separated)
func envKeyTransform(k, v string) (string, any) {
	s := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	parts := strings.Split(s, "__")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(p, "_", "-")
	}
	if _, ok := allowedEnvTopLevelKeys[parts[0]]; !ok {
		return "", nil
	}

	key := strings.Join(parts, ".")
	switch key {
	case "finder.paths", "finder.include", "finder.exclude":
		return key, strings.Fields(v)
	}
	return key, v
}

// Discover finds the closest config file for a target file path.
// It walks up the directory tree from the target's directory,
// checking for config files at each level.
// Returns empty string if no config file is found.
func Discover(targetPath string) string {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return ""
	}

	dir := absPath
	if info, err := os.Stat(absPath); err != nil || !info.IsDir() {
		dir = filepath.Dir(absPath)
	}

	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if fileExists(configPath) {
				return configPath
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return ""
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
