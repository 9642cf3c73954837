package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/wharflab/polish/internal/fault"
	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/ruleset"
)

// Formats lists the accepted output formats.
var Formats = []string{"text", "json", "sarif", "github-actions"}

var lineEndings = map[string]string{
	"\n":   "\n",
	"\r\n": "\r\n",
	"lf":   "\n",
	"crlf": "\r\n",
}

func decodeConfig(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fault.New(fault.InvalidConfiguration, "decode config").Wrap(err)
	}
	if len(cfg.Rules) == 0 {
		cfg.Rules = map[string]any{DefaultRuleSet: true}
	}
	if le, ok := lineEndings[cfg.Whitespace.LineEnding]; ok {
		cfg.Whitespace.LineEnding = le
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations. Rule names and options are
// checked later, against the fixer registry.
func (c *Config) Validate() error {
	if !slices.Contains(Formats, c.Output.Format) {
		return fault.New(fault.InvalidConfiguration, "unknown output format %q, expected one of %v", c.Output.Format, Formats).
			WithOption("output.format")
	}
	if c.MaxPasses < 0 {
		return fault.New(fault.InvalidConfiguration, "max-passes must not be negative").WithOption("max-passes")
	}
	if c.Parallel.Workers < 0 {
		return fault.New(fault.InvalidConfiguration, "workers must not be negative").WithOption("parallel.workers")
	}
	if c.Finder.MaxFileSize < 0 {
		return fault.New(fault.InvalidConfiguration, "max-file-size must not be negative").WithOption("finder.max-file-size")
	}
	if _, ok := lineEndings[c.Whitespace.LineEnding]; !ok {
		return fault.New(fault.InvalidConfiguration, "line-ending must be \"\\n\" or \"\\r\\n\"").WithOption("whitespace.line-ending")
	}
	if c.Whitespace.Indent != "" && c.Whitespace.Indent != "\t" && strings.Trim(c.Whitespace.Indent, " ") != "" {
		return fault.New(fault.InvalidConfiguration, "indent must be spaces or a single tab").WithOption("whitespace.indent")
	}
	return nil
}

// RuleEntries returns the configured rules in resolution order.
func (c *Config) RuleEntries() ([]ruleset.Entry, error) {
	entries, err := ruleset.EntriesFromMap(c.Rules)
	if err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	return entries, nil
}

// FixerWhitespace returns the configured whitespace settings.
func (c *Config) FixerWhitespace() fixer.Whitespace {
	ws := fixer.Whitespace{Indent: c.Whitespace.Indent, LineEnding: c.Whitespace.LineEnding}
	if ws.Indent == "" {
		ws.Indent = fixer.DefaultWhitespace().Indent
	}
	return ws
}

// Dump renders the effective configuration as TOML.
func Dump(c *Config) ([]byte, error) {
	data, err := gotoml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}
