package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wharflab/polish/internal/fault"
	"github.com/wharflab/polish/internal/ruleset"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Output.Format != "text" {
		t.Errorf("Default format = %q, want %q", cfg.Output.Format, "text")
	}
	if cfg.Whitespace.Indent != "    " {
		t.Errorf("Default indent = %q, want four spaces", cfg.Whitespace.Indent)
	}
	if !cfg.Whitespace.UseEditorconfig {
		t.Error("Default UseEditorconfig = false, want true")
	}
	if cfg.RiskyAllowed {
		t.Error("Default RiskyAllowed = true, want false")
	}
}

func TestDiscover(t *testing.T) {
	tmpDir := t.TempDir()

	subDir := filepath.Join(tmpDir, "project", "src")
	if err := os.MkdirAll(subDir, 0o750); err != nil {
		t.Fatal(err)
	}

	phpPath := filepath.Join(subDir, "index.php")
	if err := os.WriteFile(phpPath, []byte("<?php echo 1;\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Run("no config file", func(t *testing.T) {
		if result := Discover(phpPath); result != "" {
			t.Errorf("Discover() = %q, want empty string", result)
		}
	})

	t.Run("config in same directory", func(t *testing.T) {
		configPath := filepath.Join(subDir, ".polish.toml")
		if err := os.WriteFile(configPath, []byte("risky-allowed = true"), 0o600); err != nil {
			t.Fatal(err)
		}
		defer os.Remove(configPath)

		if result := Discover(phpPath); result != configPath {
			t.Errorf("Discover() = %q, want %q", result, configPath)
		}
	})

	t.Run("config in parent directory", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "project", "polish.toml")
		if err := os.WriteFile(configPath, []byte("risky-allowed = true"), 0o600); err != nil {
			t.Fatal(err)
		}
		defer os.Remove(configPath)

		if result := Discover(phpPath); result != configPath {
			t.Errorf("Discover() = %q, want %q", result, configPath)
		}
	})

	t.Run("directory target", func(t *testing.T) {
		configPath := filepath.Join(subDir, "polish.toml")
		if err := os.WriteFile(configPath, []byte("# src"), 0o600); err != nil {
			t.Fatal(err)
		}
		defer os.Remove(configPath)

		if result := Discover(subDir); result != configPath {
			t.Errorf("Discover() = %q, want %q", result, configPath)
		}
	})

	t.Run("prefers .polish.toml over polish.toml", func(t *testing.T) {
		hiddenConfig := filepath.Join(subDir, ".polish.toml")
		visibleConfig := filepath.Join(subDir, "polish.toml")

		if err := os.WriteFile(hiddenConfig, []byte("# hidden"), 0o600); err != nil {
			t.Fatal(err)
		}
		defer os.Remove(hiddenConfig)

		if err := os.WriteFile(visibleConfig, []byte("# visible"), 0o600); err != nil {
			t.Fatal(err)
		}
		defer os.Remove(visibleConfig)

		if result := Discover(phpPath); result != hiddenConfig {
			t.Errorf("Discover() = %q, want %q (should prefer .polish.toml)", result, hiddenConfig)
		}
	})
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	phpPath := filepath.Join(tmpDir, "index.php")
	if err := os.WriteFile(phpPath, []byte("<?php echo 1;\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Run("loads defaults when no config", func(t *testing.T) {
		cfg, err := Load(phpPath)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.ConfigFile != "" {
			t.Errorf("ConfigFile = %q, want empty", cfg.ConfigFile)
		}
		if len(cfg.Rules) != 1 || cfg.Rules[DefaultRuleSet] != true {
			t.Errorf("Rules = %v, want only %s", cfg.Rules, DefaultRuleSet)
		}
	})

	t.Run("loads config file", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, ".polish.toml")
		configContent := `
risky-allowed = true
max-passes = 5

[rules]
"@PER-CS" = true
lowercase_keywords = false

[rules.array_syntax]
syntax = "long"

[output]
format = "json"

[whitespace]
line-ending = "crlf"
`
		if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
			t.Fatal(err)
		}
		defer os.Remove(configPath)

		cfg, err := Load(phpPath)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.ConfigFile != configPath {
			t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, configPath)
		}
		if !cfg.RiskyAllowed || cfg.MaxPasses != 5 {
			t.Errorf("RiskyAllowed, MaxPasses = %v, %d; want true, 5", cfg.RiskyAllowed, cfg.MaxPasses)
		}
		if cfg.Output.Format != "json" {
			t.Errorf("Format = %q, want %q", cfg.Output.Format, "json")
		}
		if cfg.Output.Path != "stdout" {
			t.Errorf("Path = %q, want default %q", cfg.Output.Path, "stdout")
		}
		if cfg.Whitespace.LineEnding != "\r\n" {
			t.Errorf("LineEnding = %q, want CRLF", cfg.Whitespace.LineEnding)
		}
		if _, ok := cfg.Rules[DefaultRuleSet]; ok {
			t.Errorf("configured rules must replace the default set, got %v", cfg.Rules)
		}

		entries, err := cfg.RuleEntries()
		if err != nil {
			t.Fatalf("RuleEntries() error = %v", err)
		}
		want := []ruleset.Entry{
			{Name: "@PER-CS", Value: ruleset.Enable()},
			{Name: "array_syntax", Value: ruleset.Configure(map[string]any{"syntax": "long"})},
			{Name: "lowercase_keywords", Value: ruleset.Disable()},
		}
		if len(entries) != len(want) {
			t.Fatalf("RuleEntries() = %v, want %v", entries, want)
		}
		for i := range want {
			if entries[i].Name != want[i].Name || entries[i].Value.String() != want[i].Value.String() {
				t.Errorf("entry %d = %v, want %v", i, entries[i], want[i])
			}
		}
	})
}

func TestLoadWithOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "polish.toml")
	if err := os.WriteFile(configPath, []byte("[output]\nformat = \"json\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadWithOverrides(configPath, map[string]any{
		"output": map[string]any{"format": "sarif"},
		"rules":  map[string]any{"line_ending": true},
	})
	if err != nil {
		t.Fatalf("LoadWithOverrides() error = %v", err)
	}
	if cfg.Output.Format != "sarif" {
		t.Errorf("Format = %q, want override %q", cfg.Output.Format, "sarif")
	}
	if len(cfg.Rules) != 1 || cfg.Rules["line_ending"] != true {
		t.Errorf("Rules = %v, want only line_ending", cfg.Rules)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("POLISH_RISKY_ALLOWED", "true")
	t.Setenv("POLISH_OUTPUT__SHOW_DIFF", "true")
	t.Setenv("POLISH_FINDER__EXCLUDE", "vendor/** var/**")
	t.Setenv("POLISH_UNKNOWN", "x")

	cfg, err := LoadFromFile("")
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if !cfg.RiskyAllowed {
		t.Error("RiskyAllowed = false, want true from env")
	}
	if !cfg.Output.ShowDiff {
		t.Error("ShowDiff = false, want true from env")
	}
	if got := strings.Join(cfg.Finder.Exclude, ","); got != "vendor/**,var/**" {
		t.Errorf("Exclude = %q, want %q", got, "vendor/**,var/**")
	}
}

func TestEnvKeyTransform(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"POLISH_RISKY_ALLOWED", "risky-allowed"},
		{"POLISH_MAX_PASSES", "max-passes"},
		{"POLISH_OUTPUT__FORMAT", "output.format"},
		{"POLISH_OUTPUT__SHOW_DIFF", "output.show-diff"},
		{"POLISH_WHITESPACE__USE_EDITORCONFIG", "whitespace.use-editorconfig"},
		{"POLISH_RULES__ARRAY_SYNTAX", ""},
		{"POLISH_HOME", ""},
	}
	for _, tt := range tests {
		if got, _ := envKeyTransform(tt.env, "v"); got != tt.want {
			t.Errorf("envKeyTransform(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		option string
	}{
		{"format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"max passes", func(c *Config) { c.MaxPasses = -1 }, "max-passes"},
		{"workers", func(c *Config) { c.Parallel.Workers = -2 }, "parallel.workers"},
		{"line ending", func(c *Config) { c.Whitespace.LineEnding = "\r" }, "whitespace.line-ending"},
		{"indent", func(c *Config) { c.Whitespace.Indent = "  \t" }, "whitespace.indent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			var fe *fault.Error
			if !errors.As(err, &fe) || fe.Kind != fault.InvalidConfiguration || fe.Option != tt.option {
				t.Errorf("Validate() = %v, want InvalidConfiguration for %s", err, tt.option)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg := Default()
	cfg.Rules = map[string]any{"@PSR12": true}
	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	out := string(data)
	for _, want := range []string{"risky-allowed = false", "[rules]", "@PSR12", "[finder]"} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump() missing %q in:\n%s", want, out)
		}
	}
}
