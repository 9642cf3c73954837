// Package runner applies a compiled fixer plan to many files.
//
// Files are processed concurrently with a bounded worker pool. Each file gets
// its own whitespace settings (from .editorconfig when enabled) and is written
// back only when the pipeline reached a fixed point and changed the text.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/editorconfig/editorconfig-core-go/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wharflab/polish/internal/config"
	"github.com/wharflab/polish/internal/discovery"
	"github.com/wharflab/polish/internal/fault"
	"github.com/wharflab/polish/internal/fileval"
	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/metrics"
	"github.com/wharflab/polish/internal/pipeline"
	"github.com/wharflab/polish/internal/ruleset"
)

// Options configures a run.
type Options struct {
	Rules           []ruleset.Entry
	RiskyAllowed    bool
	StrictConflicts bool
	MaxPasses       int

	// Whitespace is the default for files without .editorconfig settings.
	Whitespace      fixer.Whitespace
	UseEditorconfig bool

	// Workers bounds concurrent files. Zero means GOMAXPROCS.
	Workers int

	// MaxFileSize skips larger files. Zero means no limit.
	MaxFileSize int64

	// DryRun computes results without writing files.
	DryRun bool

	Logger  *slog.Logger
	Metrics *metrics.Collector
}

// OptionsFromConfig maps a loaded configuration onto runner options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	entries, err := cfg.RuleEntries()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Rules:           entries,
		RiskyAllowed:    cfg.RiskyAllowed,
		StrictConflicts: cfg.StrictConflicts,
		MaxPasses:       cfg.MaxPasses,
		Whitespace:      cfg.FixerWhitespace(),
		UseEditorconfig: cfg.Whitespace.UseEditorconfig,
		Workers:         cfg.Parallel.Workers,
		MaxFileSize:     cfg.Finder.MaxFileSize,
	}, nil
}

// FileResult is the outcome for one file.
type FileResult struct {
	// Path is the path as discovered.
	Path string

	// Source is the original content. Empty when the file could not be read.
	Source string

	// Result is nil when the file could not be read.
	Result *pipeline.Result

	// Err reports a read or write failure.
	Err error

	// Written reports whether the fixed content was persisted.
	Written bool

	// Skipped is set when the file was screened out as binary or too large.
	Skipped error
}

// Failed reports whether the file could not be fixed.
func (f *FileResult) Failed() bool {
	if f.Skipped != nil {
		return false
	}
	return f.Err != nil || f.Result == nil || f.Result.State != pipeline.Stable
}

// Changed reports whether the file was, or in dry-run would be, changed.
func (f *FileResult) Changed() bool {
	return f.Result != nil && !f.Failed() && f.Result.Modified
}

// Error returns the read, write or pipeline error, if any.
func (f *FileResult) Error() error {
	if f.Err != nil {
		return f.Err
	}
	if f.Result != nil {
		return f.Result.Err
	}
	return nil
}

// Report collects all file results in discovery order.
type Report struct {
	Plan   *pipeline.Plan
	Files  []FileResult
	DryRun bool
}

// Summary counts file outcomes.
type Summary struct {
	Files   int
	Changed int
	Failed  int
	Skipped int
}

// Summary returns aggregate counts.
func (r *Report) Summary() Summary {
	s := Summary{Files: len(r.Files)}
	for i := range r.Files {
		switch f := &r.Files[i]; {
		case f.Skipped != nil:
			s.Skipped++
		case f.Failed():
			s.Failed++
		case f.Changed():
			s.Changed++
		}
	}
	return s
}

// Notices returns the deprecation notices of the compiled plan.
func (r *Report) Notices() []ruleset.Notice {
	if r.Plan == nil {
		return nil
	}
	return r.Plan.Notices()
}

// Compile resolves the rules, rejects risky fixers unless allowed and
// compiles the plan.
func Compile(resolver *ruleset.Resolver, opts Options) (*pipeline.Plan, error) {
	res, err := resolver.ResolveEntries(opts.Rules)
	if err != nil {
		return nil, fmt.Errorf("resolve rules: %w", err)
	}
	if !opts.RiskyAllowed {
		if risky := resolver.RiskyRules(res); len(risky) > 0 {
			return nil, fault.New(fault.InvalidConfiguration,
				"risky rules %s require risky-allowed", strings.Join(risky, ", ")).
				WithNames(risky...).
				WithOption("risky-allowed")
		}
	}
	return pipeline.CompileResolved(resolver.Registry(), res, pipeline.Options{
		MaxPasses:       opts.MaxPasses,
		StrictConflicts: opts.StrictConflicts,
		Whitespace:      opts.Whitespace,
		Logger:          opts.Logger,
	})
}

// Run compiles the plan and processes files. Configuration failures are
// returned as errors before any file is read; per-file failures are recorded
// in the report. Cancelling ctx stops scheduling new files.
func Run(ctx context.Context, resolver *ruleset.Resolver, files []discovery.File, opts Options) (*Report, error) {
	plan, err := Compile(resolver, opts)
	if err != nil {
		return nil, err
	}
	return RunPlan(ctx, plan, files, opts)
}

// RunPlan processes files with an already compiled plan.
func RunPlan(ctx context.Context, plan *pipeline.Plan, files []discovery.File, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	report := &Report{
		Plan:   plan,
		Files:  make([]FileResult, len(files)),
		DryRun: opts.DryRun,
	}
	if len(files) == 0 {
		return report, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, len(files)))
	for i, f := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			report.Files[i] = processFile(plan, f, opts, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, nil
}

func processFile(plan *pipeline.Plan, f discovery.File, opts Options, logger *slog.Logger) FileResult {
	fr := FileResult{Path: f.Path}

	data, err := readSource(f.Path, opts.MaxFileSize)
	switch {
	case fileval.IsSkip(err):
		fr.Skipped = err
		opts.Metrics.ObserveSkipped()
		logger.Warn("file skipped", "path", f.Path, "reason", err.Error())
		return fr
	case err != nil:
		fr.Err = fmt.Errorf("read %s: %w", f.Path, err)
		opts.Metrics.ObserveError()
		return fr
	}
	fr.Source = string(data)

	if opts.UseEditorconfig {
		plan = plan.WithWhitespace(whitespaceFor(f.Path, plan.Whitespace()))
	}
	fr.Result = plan.Run(fr.Source)
	opts.Metrics.Observe(fr.Result)
	logger.Debug("file processed", "path", f.Path, "result", fr.Result.String())

	if opts.DryRun || !fr.Changed() {
		return fr
	}
	if err := writeAtomic(f.Path, []byte(fr.Result.Output)); err != nil {
		fr.Err = fmt.Errorf("write %s: %w", f.Path, err)
		return fr
	}
	fr.Written = true
	return fr
}

// readSource reads path unless it is screened out as too large or binary.
func readSource(path string, maxSize int64) ([]byte, error) {
	if err := fileval.CheckSize(path, maxSize); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := fileval.CheckContent(path, data); err != nil {
		return nil, err
	}
	return data, nil
}

// whitespaceFor overlays .editorconfig indentation and line ending settings
// for path on base.
func whitespaceFor(path string, base fixer.Whitespace) fixer.Whitespace {
	def, err := editorconfig.GetDefinitionForFilename(path)
	if err != nil || def == nil {
		return base
	}
	ws := base
	switch def.IndentStyle {
	case "tab":
		ws.Indent = "\t"
	case "space":
		if n, err := strconv.Atoi(def.IndentSize); err == nil && n > 0 {
			ws.Indent = strings.Repeat(" ", n)
		}
	}
	switch def.EndOfLine {
	case "lf":
		ws.LineEnding = "\n"
	case "crlf":
		ws.LineEnding = "\r\n"
	}
	return ws
}

// writeAtomic replaces path with data through a temporary file in the same
// directory, keeping the original permissions.
func writeAtomic(path string, data []byte) (err error) {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".polish-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
