// Package schemas builds the JSON schema of the polish configuration file.
//
// The rules table is derived from the registered fixers and the rule set
// catalog, so editors can complete rule names and validate fixer options.
package schemas

import (
	"encoding/json"

	gjsonschema "github.com/google/jsonschema-go/jsonschema"

	"github.com/wharflab/polish/internal/config"
	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/ruleset"
)

// SchemaDialect is the JSON schema draft the generated schema follows.
const SchemaDialect = "https://json-schema.org/draft/2020-12/schema"

// Config returns the schema of the whole configuration file.
func Config(reg *fixer.Registry, cat *ruleset.Catalog) *gjsonschema.Schema {
	return &gjsonschema.Schema{
		Schema:      SchemaDialect,
		Title:       "polish configuration",
		Description: "Configuration for the polish PHP coding standards fixer (.polish.toml).",
		Type:        "object",
		Properties: map[string]*gjsonschema.Schema{
			"risky-allowed": {
				Type:        "boolean",
				Description: "Allow rules that may change program behavior.",
			},
			"max-passes": {
				Type:        "integer",
				Description: "Maximum number of fixing passes per file (0 = default).",
				Minimum:     ptr(0.0),
			},
			"strict-conflicts": {
				Type:        "boolean",
				Description: "Fail when two enabled rules conflict.",
			},
			"rules":      Rules(reg, cat),
			"finder":     finderSchema(),
			"output":     outputSchema(),
			"parallel":   parallelSchema(),
			"whitespace": whitespaceSchema(),
		},
		AdditionalProperties: falseSchema(),
	}
}

// Rules returns the schema of the rules table. Sets accept a boolean; fixers
// accept a boolean or, when configurable, a table of their options.
func Rules(reg *fixer.Registry, cat *ruleset.Catalog) *gjsonschema.Schema {
	props := make(map[string]*gjsonschema.Schema)
	for _, f := range reg.All() {
		props[f.Metadata().Name] = Rule(f)
	}
	for _, name := range cat.Names() {
		set, _ := cat.Get(name)
		props[name] = &gjsonschema.Schema{
			Type:        "boolean",
			Description: set.Description,
			Deprecated:  set.Deprecated,
		}
	}
	return &gjsonschema.Schema{
		Type:                 "object",
		Description:          "Rules and rule sets to enable (true), disable (false) or configure.",
		Properties:           props,
		AdditionalProperties: falseSchema(),
	}
}

// Rule returns the schema of one fixer's value in the rules table.
func Rule(f fixer.Fixer) *gjsonschema.Schema {
	meta := f.Metadata()
	_, deprecated := fixer.Deprecation(f)

	opts := fixer.OptionsOf(f)
	if len(opts) == 0 {
		return &gjsonschema.Schema{
			Type:        "boolean",
			Description: meta.Summary,
			Deprecated:  deprecated,
		}
	}
	return &gjsonschema.Schema{
		Description: meta.Summary,
		Deprecated:  deprecated,
		AnyOf: []*gjsonschema.Schema{
			{Type: "boolean"},
			Options(opts),
		},
	}
}

// Options returns the schema of a fixer's options table.
func Options(opts []fixer.Option) *gjsonschema.Schema {
	props := make(map[string]*gjsonschema.Schema, len(opts))
	for _, o := range opts {
		props[o.Name] = o.Schema()
	}
	return &gjsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		AdditionalProperties: falseSchema(),
	}
}

func finderSchema() *gjsonschema.Schema {
	return &gjsonschema.Schema{
		Type:        "object",
		Description: "Selection of the files to fix.",
		Properties: map[string]*gjsonschema.Schema{
			"paths":   stringList("Paths to search, relative to the configuration file."),
			"include": stringList("Glob patterns of files to fix."),
			"exclude": stringList("Glob patterns of files and directories to skip."),
			"max-file-size": {
				Type:        "integer",
				Description: "Skip files larger than this many bytes (0 = no limit).",
				Minimum:     ptr(0.0),
			},
		},
		AdditionalProperties: falseSchema(),
	}
}

func outputSchema() *gjsonschema.Schema {
	return &gjsonschema.Schema{
		Type:        "object",
		Description: "Report format and destination.",
		Properties: map[string]*gjsonschema.Schema{
			"format": {
				Type:        "string",
				Description: "Report format.",
				Enum:        anySlice(config.Formats),
			},
			"path": {
				Type:        "string",
				Description: "Where to write the report: stdout, stderr or a file path.",
			},
			"show-diff": {
				Type:        "boolean",
				Description: "Print a unified diff for each changed file.",
			},
		},
		AdditionalProperties: falseSchema(),
	}
}

func parallelSchema() *gjsonschema.Schema {
	return &gjsonschema.Schema{
		Type: "object",
		Properties: map[string]*gjsonschema.Schema{
			"workers": {
				Type:        "integer",
				Description: "Number of files processed concurrently (0 = number of CPUs).",
				Minimum:     ptr(0.0),
			},
		},
		AdditionalProperties: falseSchema(),
	}
}

func whitespaceSchema() *gjsonschema.Schema {
	return &gjsonschema.Schema{
		Type:        "object",
		Description: "Indentation and line ending handed to fixers.",
		Properties: map[string]*gjsonschema.Schema{
			"indent": {
				Type:        "string",
				Description: "A tab or a run of spaces.",
				Pattern:     "^(\t| +)$",
			},
			"line-ending": {
				Type: "string",
				Enum: []any{"\n", "\r\n", "lf", "crlf"},
			},
			"use-editorconfig": {
				Type:        "boolean",
				Description: "Let .editorconfig override indent and line ending per file.",
			},
		},
		AdditionalProperties: falseSchema(),
	}
}

// Marshal renders s as indented JSON.
func Marshal(s *gjsonschema.Schema) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func stringList(desc string) *gjsonschema.Schema {
	return &gjsonschema.Schema{
		Type:        "array",
		Description: desc,
		Items:       &gjsonschema.Schema{Type: "string"},
	}
}

// falseSchema matches nothing.
func falseSchema() *gjsonschema.Schema {
	return &gjsonschema.Schema{Not: &gjsonschema.Schema{}}
}

func anySlice(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func ptr[T any](v T) *T { return &v }
