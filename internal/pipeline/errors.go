package pipeline

import "errors"

var (
	// ErrNoSnapshot is returned by AnalyzeStep when no snapshot was collected.
	ErrNoSnapshot = errors.New("session has no snapshot")

	// ErrNoAnalysis is returned by PersistStep when the session was not analyzed.
	ErrNoAnalysis = errors.New("session has no analysis")
)
