package database

import "errors"

var (
	// ErrDatabaseNotFound is returned by Open when the history file does not
	// exist and creation was not requested.
	ErrDatabaseNotFound = errors.New("history database not found")

	// ErrNoAnalysis is returned by Save for a session that was never analyzed.
	ErrNoAnalysis = errors.New("scan session has no analysis")

	// ErrScanNotFound is returned when no saved scan matches the query.
	ErrScanNotFound = errors.New("scan not found")
)
