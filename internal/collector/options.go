package collector

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Default limits.
const (
	DefaultMaxTabs     = 50
	DefaultConcurrency = 8

	// estimatedRecordSize is the per-record size used to estimate database
	// volume. Record payloads are never read, only counted.
	estimatedRecordSize = 1024
)

// Timeouts holds the bound of every timeout tier.
type Timeouts struct {
	// Master bounds the whole four-way scan.
	Master time.Duration
	// KeyValueTab bounds the key/value read of one tab.
	KeyValueTab time.Duration
	// DatabaseTab bounds the whole database scan of one tab.
	DatabaseTab time.Duration
	// DatabaseOpen bounds opening one database.
	DatabaseOpen time.Duration
	// RecordCount bounds counting one object store.
	RecordCount time.Duration
}

// DefaultTimeouts returns the standard timeout tiers.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Master:       30 * time.Second,
		KeyValueTab:  3 * time.Second,
		DatabaseTab:  5 * time.Second,
		DatabaseOpen: 2 * time.Second,
		RecordCount:  time.Second,
	}
}

// withDefaults fills zero fields from DefaultTimeouts.
func (t Timeouts) withDefaults() Timeouts {
	d := DefaultTimeouts()
	if t.Master <= 0 {
		t.Master = d.Master
	}
	if t.KeyValueTab <= 0 {
		t.KeyValueTab = d.KeyValueTab
	}
	if t.DatabaseTab <= 0 {
		t.DatabaseTab = d.DatabaseTab
	}
	if t.DatabaseOpen <= 0 {
		t.DatabaseOpen = d.DatabaseOpen
	}
	if t.RecordCount <= 0 {
		t.RecordCount = d.RecordCount
	}
	return t
}

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets the logger. Cookie values are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeouts overrides the timeout tiers. Zero fields keep their default.
func WithTimeouts(t Timeouts) Option {
	return func(c *Collector) {
		c.timeouts = t.withDefaults()
	}
}

// WithMaxTabs caps how many tabs are scanned.
func WithMaxTabs(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.maxTabs = n
		}
	}
}

// WithConcurrency limits how many tabs are scanned at once.
func WithConcurrency(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithRateLimiter paces script injections. Waiting for the limiter counts
// toward the per-tab bound.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *Collector) {
		c.limiter = l
	}
}

// WithClock sets the clock used for scan timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		if now != nil {
			c.now = now
		}
	}
}
