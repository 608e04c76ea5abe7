package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultMasterTimeout bounds a whole scan. A browser with dozens of
	// stalled tabs still yields a snapshot within this time.
	DefaultMasterTimeout = 30 * time.Second

	// DefaultKeyValueTabTimeout bounds the key/value read of one tab.
	DefaultKeyValueTabTimeout = 3 * time.Second

	// DefaultDatabaseTabTimeout bounds the whole database scan of one tab.
	DefaultDatabaseTabTimeout = 5 * time.Second

	// DefaultDatabaseOpenTimeout bounds opening a single database.
	DefaultDatabaseOpenTimeout = 2 * time.Second

	// DefaultRecordCountTimeout bounds counting one object store.
	DefaultRecordCountTimeout = 1 * time.Second

	// DefaultMaxTabs caps how many tabs are scanned, bounding worst-case cost.
	DefaultMaxTabs = 50

	// DefaultTabConcurrency is how many tabs are read at once.
	DefaultTabConcurrency = 8

	// DefaultBatchSize is the number of targets scanned concurrently.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "privacyscan"
)

// Config holds all configuration options for privacyscan.
// This struct is populated from defaults, the config file, the environment
// and CLI flags, and is passed through the application rather than kept
// in global state.
type Config struct {
	// MasterTimeout bounds the four-way scan of one target.
	MasterTimeout time.Duration

	// KeyValueTabTimeout bounds the key/value read of one tab.
	KeyValueTabTimeout time.Duration

	// DatabaseTabTimeout bounds the database scan of one tab.
	DatabaseTabTimeout time.Duration

	// DatabaseOpenTimeout bounds opening one database.
	DatabaseOpenTimeout time.Duration

	// RecordCountTimeout bounds counting one object store.
	RecordCountTimeout time.Duration

	// MaxTabs caps the number of tabs scanned.
	MaxTabs int

	// TabConcurrency limits how many tabs are read at once.
	TabConcurrency int

	// InjectionRate limits script injections per second across tabs.
	// Zero disables pacing.
	InjectionRate float64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// LogJSON switches log output to JSON lines.
	LogJSON bool

	// BatchSize is the number of targets scanned concurrently.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .privacyscan in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Rules holds tracker list extensions loaded from the config file.
	Rules *File

	// JSONReport enables JSON report output instead of the text report.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the text report.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// Targets are the browser sources to scan: YAML profiles,
	// firefox:<path> or chromium:<path>.
	Targets []string

	// DBDir is the directory of the scan history database.
	// Defaults to XDG data directory (~/.local/share/privacyscan on Linux).
	DBDir string

	// SaveToDB indicates whether to save analyses to the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because every timeout tier has a non-zero default.
func NewConfig() *Config {
	return &Config{
		MasterTimeout:       DefaultMasterTimeout,
		KeyValueTabTimeout:  DefaultKeyValueTabTimeout,
		DatabaseTabTimeout:  DefaultDatabaseTabTimeout,
		DatabaseOpenTimeout: DefaultDatabaseOpenTimeout,
		RecordCountTimeout:  DefaultRecordCountTimeout,
		MaxTabs:             DefaultMaxTabs,
		TabConcurrency:      DefaultTabConcurrency,
		BatchSize:           DefaultBatchSize,
		DBDir:               XDGDataDir(),
		SaveToDB:            true,
	}
}

// XDGDataDir returns the XDG data directory for privacyscan.
// On Linux: ~/.local/share/privacyscan
// On macOS: ~/Library/Application Support/privacyscan
// On Windows: %LOCALAPPDATA%\privacyscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for privacyscan.
// On Linux: ~/.config/privacyscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplyFile merges the limits of a config file into c. Only fields set in
// the file are applied.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	c.Rules = f
	t := f.Timeouts
	if t.Master > 0 {
		c.MasterTimeout = t.Master
	}
	if t.KeyValueTab > 0 {
		c.KeyValueTabTimeout = t.KeyValueTab
	}
	if t.DatabaseTab > 0 {
		c.DatabaseTabTimeout = t.DatabaseTab
	}
	if t.DatabaseOpen > 0 {
		c.DatabaseOpenTimeout = t.DatabaseOpen
	}
	if t.RecordCount > 0 {
		c.RecordCountTimeout = t.RecordCount
	}
	if f.MaxTabs > 0 {
		c.MaxTabs = f.MaxTabs
	}
	if f.InjectionRate > 0 {
		c.InjectionRate = f.InjectionRate
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.MasterTimeout <= 0 {
		return ErrInvalidTimeout
	}
	for _, d := range []time.Duration{c.KeyValueTabTimeout, c.DatabaseTabTimeout, c.DatabaseOpenTimeout, c.RecordCountTimeout} {
		if d <= 0 || d > c.MasterTimeout {
			return ErrInvalidTimeout
		}
	}

	if c.MaxTabs <= 0 {
		return ErrInvalidMaxTabs
	}
	if c.TabConcurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.InjectionRate < 0 {
		return ErrInvalidInjectionRate
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.Rules != nil {
		if _, err := c.Rules.TrackerOptions(); err != nil {
			return err
		}
	}
	return nil
}
