package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/nao1215/privacyscan/internal/browser"
	"github.com/nao1215/privacyscan/internal/model"
)

// Collector scans the storage of one browsing session.
// A Collector is safe for concurrent use; it holds no per-scan state.
type Collector struct {
	browser     *browser.Browser
	logger      *slog.Logger
	timeouts    Timeouts
	maxTabs     int
	concurrency int
	limiter     *rate.Limiter
	now         func() time.Time
}

// New creates a Collector over the given collaborators.
// A nil browser, or nil collaborators inside it, yield empty results.
func New(b *browser.Browser, opts ...Option) *Collector {
	if b == nil {
		b = &browser.Browser{}
	}
	c := &Collector{
		browser:     b,
		logger:      slog.Default(),
		timeouts:    DefaultTimeouts(),
		maxTabs:     DefaultMaxTabs,
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeouts returns the effective timeout tiers.
func (c *Collector) Timeouts() Timeouts {
	return c.timeouts
}

// ScanAll runs the four sub-scans concurrently under the master timeout and
// assembles a snapshot. It never returns an error: failed or unsettled
// sub-scans are replaced by their empty shape and recorded in
// Metadata.Errors.
func (c *Collector) ScanAll(ctx context.Context) *model.StorageSnapshot {
	start := c.now()
	master := c.timeouts.Master

	var (
		cookies                      *model.CookieScan
		storeA, storeB               *model.KeyValueScan
		databases                    *model.DatabaseScan
		cookieErr, aErr, bErr, dbErr error
	)

	// Each goroutine writes only its own variables.
	var g errgroup.Group
	g.Go(func() error {
		cookies, cookieErr = Bounded(ctx, master, model.NewCookieScan(), c.ScanCookies)
		return nil
	})
	g.Go(func() error {
		storeA, aErr = Bounded(ctx, master, model.NewKeyValueScan(true), c.ScanKeyValueStoreA)
		return nil
	})
	g.Go(func() error {
		storeB, bErr = Bounded(ctx, master, model.NewKeyValueScan(false), c.ScanKeyValueStoreB)
		return nil
	})
	g.Go(func() error {
		databases, dbErr = Bounded(ctx, master, model.NewDatabaseScan(), c.ScanDatabases)
		return nil
	})
	_ = g.Wait()

	var scanErrors []model.ScanError
	record := func(source string, err error) {
		if err == nil {
			return
		}
		msg := err.Error()
		switch {
		case errors.Is(err, ErrTimeout) && ctx.Err() != nil:
			msg = fmt.Sprintf("scan cancelled: %v", ctx.Err())
		case errors.Is(err, ErrTimeout):
			msg = fmt.Sprintf("master timeout: not settled after %s", master)
		}
		c.logger.Warn("sub-scan failed", "source", source, "error", msg)
		scanErrors = append(scanErrors, model.ScanError{Source: source, Message: msg})
	}
	record(model.SourceCookies, cookieErr)
	record(model.SourceKeyValueStore, aErr)
	record(model.SourceSharedStore, bErr)
	record(model.SourceDatabases, dbErr)

	for _, msg := range storeA.Errors {
		scanErrors = append(scanErrors, model.ScanError{Source: model.SourceKeyValueStore, Message: msg})
	}
	for _, msg := range storeB.Errors {
		scanErrors = append(scanErrors, model.ScanError{Source: model.SourceSharedStore, Message: msg})
	}
	for _, msg := range databases.Errors {
		scanErrors = append(scanErrors, model.ScanError{Source: model.SourceDatabases, Message: msg})
	}

	snapshot := &model.StorageSnapshot{
		Cookies:        cookies,
		KeyValueStoreA: storeA,
		KeyValueStoreB: storeB,
		Databases:      databases,
		Summary:        summarize(cookies, storeA, storeB, databases),
		Metadata: model.SnapshotMetadata{
			ScanTime:       start.UTC().Format(time.RFC3339Nano),
			ScanDurationMs: c.now().Sub(start).Milliseconds(),
			Version:        model.SnapshotVersion,
			Errors:         scanErrors,
		},
	}

	c.logger.Debug("scan complete",
		"cookies", snapshot.Summary.CookieCount,
		"domains", snapshot.Summary.UniqueDomains,
		"bytes", snapshot.Summary.TotalSizeBytes,
		"errors", len(scanErrors),
		"duration_ms", snapshot.Metadata.ScanDurationMs,
	)
	return snapshot
}

// summarize computes the cross-source totals of a snapshot.
func summarize(cookies *model.CookieScan, a, b *model.KeyValueScan, dbs *model.DatabaseScan) model.SnapshotSummary {
	domains := make(map[string]struct{})
	for d := range cookies.ByDomain {
		domains[d] = struct{}{}
	}
	for d := range a.ByDomain {
		domains[d] = struct{}{}
	}
	for d := range b.ByDomain {
		domains[d] = struct{}{}
	}
	for d := range dbs.ByDomain {
		domains[d] = struct{}{}
	}

	total := cookies.TotalSize + a.TotalSize + b.TotalSize + dbs.EstimatedSize
	return model.SnapshotSummary{
		TotalSizeBytes: total,
		TotalSizeKB:    round2(float64(total) / 1024),
		TotalSizeMB:    round2(float64(total) / (1024 * 1024)),
		TotalItems:     cookies.TotalCount + a.TotalItems + b.TotalItems + dbs.TotalRecords,
		CookieCount:    cookies.TotalCount,
		UniqueDomains:  len(domains),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
