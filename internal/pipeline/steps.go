package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/privacyscan/internal/analyzer"
	"github.com/nao1215/privacyscan/internal/browser"
	"github.com/nao1215/privacyscan/internal/collector"
	"github.com/nao1215/privacyscan/internal/model"
)

// Opener resolves a target into a browser. browser.Open is the production opener.
type Opener func(target string) (*browser.Browser, error)

// CollectStep takes a storage snapshot of the session's target.
type CollectStep struct {
	open   Opener
	opts   []collector.Option
	logger *slog.Logger
}

// NewCollectStep creates a collect step. A nil opener uses browser.Open.
// opts are passed to every collector the step creates.
func NewCollectStep(open Opener, logger *slog.Logger, opts ...collector.Option) *CollectStep {
	if open == nil {
		open = func(target string) (*browser.Browser, error) { return browser.Open(target) }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CollectStep{open: open, opts: opts, logger: logger}
}

// Name returns the step name.
func (s *CollectStep) Name() string {
	return "collect"
}

// Do opens the target and scans it. An unopenable target is an error;
// failures inside the scan are recorded in the snapshot.
func (s *CollectStep) Do(ctx context.Context, session *model.ScanSession) error {
	b, err := s.open(session.Target)
	if err != nil {
		return err
	}

	opts := append([]collector.Option{collector.WithLogger(s.logger)}, s.opts...)
	session.Snapshot = collector.New(b, opts...).ScanAll(ctx)

	s.logger.Debug("snapshot collected",
		"target", session.Target,
		"cookies", session.Snapshot.Summary.CookieCount,
		"errors", len(session.Snapshot.Metadata.Errors),
		"duration_ms", session.Snapshot.Metadata.ScanDurationMs,
	)
	return nil
}

// AnalyzeStep computes the privacy analysis of the collected snapshot.
type AnalyzeStep struct {
	analyzer *analyzer.Analyzer
}

// NewAnalyzeStep creates an analyze step. A nil analyzer uses the built-in lists.
func NewAnalyzeStep(a *analyzer.Analyzer) *AnalyzeStep {
	if a == nil {
		a = analyzer.New(nil)
	}
	return &AnalyzeStep{analyzer: a}
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string {
	return "analyze"
}

// Do analyzes session.Snapshot.
func (s *AnalyzeStep) Do(_ context.Context, session *model.ScanSession) error {
	if session.Snapshot == nil {
		return ErrNoSnapshot
	}
	session.Analysis = s.analyzer.Analyze(session.Snapshot)
	return nil
}

// Store saves analyzed sessions. *database.HistoryDB implements it.
type Store interface {
	Save(ctx context.Context, session *model.ScanSession) (int64, error)
}

// PersistStep saves the session's analysis to the history store.
type PersistStep struct {
	store  Store
	logger *slog.Logger
}

// NewPersistStep creates a persist step.
func NewPersistStep(store Store, logger *slog.Logger) *PersistStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &PersistStep{store: store, logger: logger}
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do saves the session.
func (s *PersistStep) Do(ctx context.Context, session *model.ScanSession) error {
	if session.Analysis == nil {
		return ErrNoAnalysis
	}
	id, err := s.store.Save(ctx, session)
	if err != nil {
		return err
	}
	s.logger.Debug("analysis saved", "target", session.Target, "id", id)
	return nil
}

// ScanPipeline builds the collect, analyze and (when store is non-nil)
// persist pipeline used by the scan command.
func ScanPipeline(open Opener, a *analyzer.Analyzer, store Store, logger *slog.Logger, collectorOpts ...collector.Option) *Pipeline {
	p := New(WithLogger(logger))
	p.AddSteps(
		NewCollectStep(open, logger, collectorOpts...),
		NewAnalyzeStep(a),
	)
	if store != nil {
		p.AddStep(NewPersistStep(store, logger))
	}
	return p
}
