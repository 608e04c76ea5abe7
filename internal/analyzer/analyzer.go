package analyzer

import (
	"log/slog"
	"time"

	"github.com/nao1215/privacyscan/internal/model"
	"github.com/nao1215/privacyscan/internal/trackerdb"
)

// Version is written into the analysis metadata.
const Version = "1.0.0"

// Analyzer computes privacy analyses. It holds no per-analysis state and is
// safe for concurrent use.
type Analyzer struct {
	db        *trackerdb.Database
	logger    *slog.Logger
	now       func() time.Time
	detectors []Detector
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClock sets the reference time for expirations and timestamps.
// A database passed to New keeps its own clock.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// WithDetector registers an additional high-risk detector after the built-in ones.
func WithDetector(d Detector) Option {
	return func(a *Analyzer) {
		if d != nil {
			a.detectors = append(a.detectors, d)
		}
	}
}

// New creates an Analyzer backed by db. A nil db uses the built-in lists
// with the analyzer's clock.
func New(db *trackerdb.Database, opts ...Option) *Analyzer {
	a := &Analyzer{
		db:     db,
		logger: slog.Default(),
		now:    time.Now,
	}
	a.Register(
		fingerprintDetector{},
		storageDetector{},
		crossSiteDetector{},
		insecureSensitiveDetector{},
	)
	for _, opt := range opts {
		opt(a)
	}
	if a.db == nil {
		a.db = trackerdb.New(trackerdb.WithClock(a.now))
	}
	return a
}

// Register appends detectors to the high-risk detector list.
func (a *Analyzer) Register(detectors ...Detector) {
	a.detectors = append(a.detectors, detectors...)
}

// Analyze runs the full analysis. A nil snapshot, or one with missing
// sources, is treated as empty.
func (a *Analyzer) Analyze(snapshot *model.StorageSnapshot) *model.PrivacyAnalysisResult {
	cat := a.CategorizeCookies(snapshot.CookieItems())
	score := a.CalculatePrivacyScore(cat, snapshot)

	result := &model.PrivacyAnalysisResult{
		PrivacyScore:     score,
		ScoreRating:      model.ScoreRating(score.Score),
		ScoreColor:       model.ScoreColor(score.Score),
		Breakdown:        a.GenerateBreakdown(cat, snapshot),
		Recommendations:  a.GenerateRecommendations(cat, snapshot, score),
		HighRiskItems:    a.IdentifyHighRiskItems(cat, snapshot),
		TrackerCompanies: a.ComputeTrackerCompanies(cat),
		Timestamp:        a.now().UTC().Format(time.RFC3339Nano),
		Metadata: model.AnalysisMetadata{
			AnalyzerVersion: Version,
			CookieCount:     len(cat.Cookies),
		},
	}
	if snapshot != nil {
		result.Metadata.SnapshotTime = snapshot.Metadata.ScanTime
		result.Metadata.ScanErrors = snapshot.Metadata.Errors
	}

	a.logger.Debug("analysis complete",
		"score", score.Score,
		"rating", result.ScoreRating,
		"deductions", len(score.Deductions),
		"high_risk_items", len(result.HighRiskItems),
		"companies", len(result.TrackerCompanies),
	)
	return result
}
