package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/go-git/go-billy/v5"
	"github.com/prometheus/client_golang/prometheus"

	"viholabs/canonguard/pkg/changes"
	"viholabs/canonguard/pkg/cli"
	"viholabs/canonguard/pkg/config"
	"viholabs/canonguard/pkg/guard"
	"viholabs/canonguard/pkg/ruleset"
	"viholabs/canonguard/pkg/telemetry/logging"
	"viholabs/canonguard/pkg/telemetry/metrics"
)

// session holds everything one invocation needs, built from the loaded
// configuration.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	reporter cli.Reporter
	registry *prometheus.Registry
	metrics  *metrics.GateMetrics
	out      io.Writer
}

func newSession(cfg *config.Config) (*session, error) {
	logger, err := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
		Writer:    stderr,
	})
	if err != nil {
		return nil, err
	}

	format, err := cli.ParseOutputFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	reporter, err := cli.NewReporter(format)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	return &session{
		cfg:      cfg,
		logger:   logger,
		reporter: reporter,
		registry: registry,
		metrics:  metrics.NewGateMetrics(&cfg.Metrics, registry),
		out:      stdout,
	}, nil
}

func (s *session) loadRuleset() (*ruleset.Ruleset, error) {
	return ruleset.Load(s.cfg.Ruleset, ruleset.Options{Strict: s.cfg.Strict})
}

func (s *session) gitSource() (*changes.GitSource, error) {
	mode, err := changes.ParseMode(s.cfg.Repository.Mode)
	if err != nil {
		return nil, err
	}
	return changes.NewGitSource(changes.GitOptions{
		Root: s.cfg.Repository.Root,
		Mode: mode,
		From: s.cfg.Repository.From,
		To:   s.cfg.Repository.To,
	}), nil
}

// source returns the change source and the filesystem that content checks
// read from. A non-nil files list replaces git as the source; paths still
// resolve against the repository root.
func (s *session) source(files []string) (changes.Source, billy.Filesystem, error) {
	git, err := s.gitSource()
	if err != nil {
		return nil, nil, err
	}
	if files != nil {
		return changes.StaticSource(files), git.Filesystem(), nil
	}
	return git, git.Filesystem(), nil
}

// check evaluates phase once and reports the result. Any outcome other
// than a pass is returned as an already reported error.
func (s *session) check(ctx context.Context, phase string, files []string) error {
	defer s.flushMetrics()

	rules, err := s.loadRuleset()
	if err != nil {
		return s.configError(phase, err)
	}

	src, fsys, err := s.source(files)
	if err != nil {
		return err
	}

	engine := guard.New(rules, src, fsys,
		guard.WithLogger(s.logger),
		guard.WithRecorder(s.metrics),
	)
	v, err := engine.Evaluate(ctx, phase)
	if err != nil {
		return s.configError(phase, err)
	}

	if err := s.reporter.Verdict(s.out, v); err != nil {
		return err
	}
	if !v.Passed() {
		return cli.Reported(v.Violation)
	}
	return nil
}

func (s *session) configError(phase string, err error) error {
	s.metrics.RecordConfigError(phase)
	s.logger.Debug("ruleset unusable", "phase", phase, "error", err)

	if rerr := s.reporter.ConfigError(s.out, phase, err); rerr != nil {
		return rerr
	}
	return cli.Reported(err)
}

func (s *session) flushMetrics() {
	if err := metrics.WriteTextfile(s.cfg.Metrics.TextfilePath, s.registry); err != nil {
		s.logger.Warn("failed to write metrics textfile", "error", err)
	}
}
