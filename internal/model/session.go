package model

import "time"

// ScanSession carries one target through the scan pipeline.
//
// Design decision: We keep the snapshot and its analysis together in one
// struct so that pipeline steps, report writers and the history store can
// share a single value without re-running the scan.
type ScanSession struct {
	// Target is the browser source that was scanned (profile file or cookie DB).
	Target string `json:"target"`

	// StartedAt is when the session began.
	StartedAt time.Time `json:"startedAt"`

	// Snapshot is the collected storage state. Nil until the collect step ran.
	Snapshot *StorageSnapshot `json:"snapshot,omitempty"`

	// Analysis is the privacy analysis of Snapshot. Nil until the analyze step ran.
	Analysis *PrivacyAnalysisResult `json:"analysis,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performedSteps,omitempty"`

	// TimedOut is true when the pipeline was cancelled before finishing.
	TimedOut bool `json:"timedOut"`

	// Error is the last step error; ErrorMessage is its serializable form.
	Error        error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}

// NewScanSession creates a session for target.
func NewScanSession(target string) *ScanSession {
	return &ScanSession{
		Target:    target,
		StartedAt: time.Now(),
	}
}

// Score returns the privacy score, or -1 when the session has no analysis.
func (s *ScanSession) Score() int {
	if s == nil || s.Analysis == nil {
		return -1
	}
	return s.Analysis.PrivacyScore.Score
}
