package guard

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"

	"viholabs/canonguard/pkg/changes"
	"viholabs/canonguard/pkg/ruleset"
)

// Recorder receives the outcome of every evaluation.
type Recorder interface {
	RecordVerdict(v *Verdict)
}

// Engine evaluates one ruleset. It holds no per-run state, so Evaluate
// may be called repeatedly with identical results for identical inputs.
type Engine struct {
	rules    *ruleset.Ruleset
	source   changes.Source
	fsys     billy.Basic
	logger   *slog.Logger
	recorder Recorder
	scanners []scanner
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRecorder reports each verdict to r.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// scanner is a prohibition with its patterns compiled for case-insensitive
// substring search.
type scanner struct {
	rule     ruleset.Prohibition
	patterns []*regexp.Regexp
}

// New creates an engine. fsys resolves changed paths for content checks.
func New(rules *ruleset.Ruleset, source changes.Source, fsys billy.Basic, opts ...Option) *Engine {
	e := &Engine{
		rules:  rules,
		source: source,
		fsys:   fsys,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, p := range rules.Prohibitions() {
		s := scanner{rule: p, patterns: make([]*regexp.Regexp, len(p.Patterns))}
		for i, pat := range p.Patterns {
			s.patterns[i] = regexp.MustCompile("(?i)" + regexp.QuoteMeta(pat))
		}
		e.scanners = append(e.scanners, s)
	}
	return e
}

// Evaluate runs the pipeline for phase. A returned error is always a
// *ruleset.ConfigError; policy failures are reported in the Verdict.
//
// If the change source fails, the run proceeds with no changed files.
func (e *Engine) Evaluate(ctx context.Context, phase string) (*Verdict, error) {
	start := time.Now()

	rules, ok := e.rules.Phase(phase)
	if !ok {
		return nil, ruleset.UnknownPhaseError(e.rules, phase)
	}

	v := &Verdict{RunID: uuid.NewString(), Phase: phase}
	logger := e.logger.With("run_id", v.RunID, "phase", phase)

	changed, err := e.source.ChangedFiles(ctx)
	if err != nil {
		logger.Warn("change source failed, treating as no changes", "error", err)
		changed = nil
	}
	v.Changed = changed
	logger.Debug("evaluating", "changed_files", len(changed))

	v.Violation = e.run(rules, v, logger)
	v.Duration = time.Since(start)

	if v.Violation != nil {
		logger.Debug("evaluation failed", "stage", v.Violation.Stage)
	} else {
		logger.Debug("evaluation passed", "steps", len(v.Steps))
	}
	if e.recorder != nil {
		e.recorder.RecordVerdict(v)
	}
	return v, nil
}

// run executes the stages in order and returns the first violation.
func (e *Engine) run(rules ruleset.PhaseRules, v *Verdict, logger *slog.Logger) *Violation {
	if len(v.Changed) == 0 {
		v.pass(StageChanges, "no changes, repository clean")
		return nil
	}

	if viol := checkForbidden(rules, v.Changed); viol != nil {
		return viol
	}
	v.pass(StageForbiddenPath, "phase lock OK (no forbidden paths)")
	logger.Debug("stage passed", "stage", StageForbiddenPath)

	if viol := checkScope(rules, v.Changed); viol != nil {
		return viol
	}
	v.pass(StageScope, "scope whitelist OK")
	logger.Debug("stage passed", "stage", StageScope)

	for _, s := range e.scanners {
		if viol := e.checkProhibition(s, v.Changed); viol != nil {
			return viol
		}
		v.pass(ProhibitionStage(s.rule.Key), s.rule.Key+": OK")
		logger.Debug("stage passed", "stage", ProhibitionStage(s.rule.Key))
	}

	tr := e.rules.Traceability()
	if !tr.Required {
		return nil
	}
	if viol := e.checkTraceability(tr, v.Changed); viol != nil {
		return viol
	}
	v.pass(StageTraceability, "traceability OK (header present)")
	logger.Debug("stage passed", "stage", StageTraceability)
	return nil
}
