// Package pipeline applies an ordered chain of fixers to one file's token
// stream until it reaches a fixed point.
//
// A Plan is compiled once per run from a rule selection: the selection is
// resolved, conflicts are checked, the enabled fixers are ordered and their
// options validated. Plan.Run then processes one source text:
//
//	Tokenizing -> Converging -> Stable | Failed
//
// Configuration failures surface from Compile (the Ordering state) before any
// source is tokenized. A Plan is immutable and safe to share between
// goroutines processing different files.
package pipeline

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/wharflab/polish/internal/fault"
	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/ruleset"
)

// DefaultMaxPasses bounds the convergence loop when Options.MaxPasses is zero.
const DefaultMaxPasses = 10

// State is a stage of processing one file.
type State string

const (
	Tokenizing State = "tokenizing"
	Ordering   State = "ordering"
	Converging State = "converging"
	Stable     State = "stable"
	Failed     State = "failed"
)

// Options tune plan compilation and the convergence loop.
type Options struct {
	// MaxPasses caps full passes over the fixer chain. Zero means
	// DefaultMaxPasses.
	MaxPasses int

	// StrictConflicts makes declared conflicts between enabled fixers fatal.
	// Otherwise they are logged and reported.
	StrictConflicts bool

	// Whitespace is handed to every fixer. The zero value means
	// fixer.DefaultWhitespace.
	Whitespace fixer.Whitespace

	// Logger receives debug traces. Nil means slog.Default().
	Logger *slog.Logger
}

type step struct {
	name  string
	fixer fixer.Fixer
	cfg   fixer.Config
}

// Plan is a compiled, ordered fixer chain.
type Plan struct {
	steps      []step
	conflicts  []fixer.ConflictPair
	notices    []ruleset.Notice
	maxPasses  int
	whitespace fixer.Whitespace
	logger     *slog.Logger
}

// Compile resolves rules and compiles the result into a plan.
func Compile(r *ruleset.Resolver, rules []ruleset.Entry, opts Options) (*Plan, error) {
	res, err := r.ResolveEntries(rules)
	if err != nil {
		return nil, fmt.Errorf("resolve rules: %w", err)
	}
	return CompileResolved(r.Registry(), res, opts)
}

// CompileResolved compiles an already resolved rule map.
func CompileResolved(reg *fixer.Registry, res *ruleset.Resolved, opts Options) (*Plan, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxPasses := opts.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	ws := opts.Whitespace
	if ws == (fixer.Whitespace{}) {
		ws = fixer.DefaultWhitespace()
	}

	enabled := res.Enabled()
	conflicts := reg.DetectConflicts(enabled)
	if len(conflicts) > 0 {
		if opts.StrictConflicts {
			return nil, conflictError(conflicts)
		}
		for _, c := range conflicts {
			logger.Warn("conflicting fixers enabled", "pair", c.String())
		}
	}

	ordered, err := reg.BuildOrder(enabled)
	if err != nil {
		return nil, fmt.Errorf("order fixers: %w", err)
	}

	steps := make([]step, 0, len(ordered))
	for _, f := range ordered {
		name := f.Metadata().Name
		options, err := fixer.ValidateConfig(f, res.Options(name))
		if err != nil {
			return nil, err
		}
		steps = append(steps, step{
			name:  name,
			fixer: f,
			cfg:   fixer.Config{Options: options, Whitespace: ws},
		})
	}

	p := &Plan{
		steps:      steps,
		conflicts:  conflicts,
		notices:    res.Notices(),
		maxPasses:  maxPasses,
		whitespace: ws,
		logger:     logger,
	}
	logger.Debug("plan compiled", "fixers", p.Fixers(), "conflicts", len(conflicts), "max_passes", maxPasses)
	return p, nil
}

func conflictError(conflicts []fixer.ConflictPair) error {
	names := make([]string, 0, 2*len(conflicts))
	pairs := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		names = append(names, c.A, c.B)
		pairs = append(pairs, c.String())
	}
	return fault.New(fault.Conflict, "conflicting fixers enabled: %s", strings.Join(pairs, ", ")).WithNames(names...)
}

// Fixers returns the fixer names in execution order.
func (p *Plan) Fixers() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.name
	}
	return names
}

// Conflicts returns the conflicting pairs tolerated in lenient mode.
func (p *Plan) Conflicts() []fixer.ConflictPair {
	return append([]fixer.ConflictPair(nil), p.conflicts...)
}

// Notices returns the deprecation notices collected while resolving.
func (p *Plan) Notices() []ruleset.Notice {
	return append([]ruleset.Notice(nil), p.notices...)
}

// MaxPasses returns the pass cap.
func (p *Plan) MaxPasses() int { return p.maxPasses }

// Whitespace returns the whitespace settings handed to fixers.
func (p *Plan) Whitespace() fixer.Whitespace { return p.whitespace }

// WithWhitespace returns a copy of p whose fixers receive ws. The receiver
// is not modified.
func (p *Plan) WithWhitespace(ws fixer.Whitespace) *Plan {
	if ws == (fixer.Whitespace{}) || ws == p.whitespace {
		return p
	}
	cp := *p
	cp.whitespace = ws
	cp.steps = make([]step, len(p.steps))
	for i, s := range p.steps {
		s.cfg = fixer.Config{Options: s.cfg.Options, Whitespace: ws}
		cp.steps[i] = s
	}
	return &cp
}

// Run compiles rules and runs the plan on src. A compile failure yields a
// Failed result in the Ordering state without tokenizing src.
func Run(r *ruleset.Resolver, rules []ruleset.Entry, src string, opts Options) *Result {
	p, err := Compile(r, rules, opts)
	if err != nil {
		return &Result{State: Failed, FailedIn: Ordering, Output: src, Err: err}
	}
	return p.Run(src)
}
