package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when no scan target is given.
	ErrNoTarget = errors.New("no target specified: provide a profile file, firefox:<path> or chromium:<path>")

	// ErrInvalidTimeout is returned when a timeout tier is not positive,
	// or an inner tier exceeds the master timeout.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive and no longer than the master timeout")

	// ErrInvalidMaxTabs is returned when the tab cap is not positive.
	ErrInvalidMaxTabs = errors.New("invalid max tabs: must be positive")

	// ErrInvalidConcurrency is returned when the per-tab concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid tab concurrency: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no concurrent scans.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidInjectionRate is returned when the injection rate is negative.
	// Use 0 for unlimited.
	ErrInvalidInjectionRate = errors.New("invalid injection rate: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrUnknownCategory is returned when the config file names a tracker
	// category that does not exist.
	ErrUnknownCategory = errors.New("unknown tracker category")

	// ErrUnknownRisk is returned when the config file names a risk tier
	// that does not exist.
	ErrUnknownRisk = errors.New("unknown risk level")

	// ErrInvalidEnvValue is returned when a PRIVACYSCAN_* variable cannot be parsed.
	ErrInvalidEnvValue = errors.New("invalid environment value")
)
