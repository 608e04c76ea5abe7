package collector

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/privacyscan/internal/browser"
	"github.com/nao1215/privacyscan/internal/model"
)

// tabDatabases is the settled database scan of one tab.
type tabDatabases struct {
	entries []model.DatabaseEntry
	err     error
}

// ScanDatabases enumerates the embedded databases of every web origin,
// counting records per object store on a best-effort basis. It also
// attempts a storage quota estimate and ignores its failure.
func (c *Collector) ScanDatabases(ctx context.Context) (*model.DatabaseScan, error) {
	scan := model.NewDatabaseScan()
	c.estimateQuota(ctx, scan)

	if c.browser.Databases == nil {
		return scan, nil
	}

	tabs, _, err := c.webTabs(ctx)
	if err != nil {
		empty := model.NewDatabaseScan()
		empty.Quota = scan.Quota
		return empty, err
	}
	tabs = perOrigin(tabs)

	results := make([]tabDatabases, len(tabs))
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, tab := range tabs {
		g.Go(func() error {
			entries, err := Bounded(ctx, c.timeouts.DatabaseTab, nil,
				func(ctx context.Context) ([]model.DatabaseEntry, error) {
					return c.scanTabDatabases(ctx, tab)
				})
			results[i] = tabDatabases{entries: entries, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for i, tab := range tabs {
		res := results[i]
		if res.err != nil {
			scan.TabsFailed++
			scan.Errors = append(scan.Errors, tabFailure(tab, res.err, c.timeouts.DatabaseTab))
			c.logger.Debug("database scan failed", "tab", tab.ID, "domain", tab.domain, "error", res.err)
			continue
		}
		scan.TabsScanned++
		for _, e := range res.entries {
			scan.Databases = append(scan.Databases, e)
			scan.ByDomain[e.Domain]++
			scan.TotalDatabases++
			scan.TotalRecords += e.TotalRecords
			scan.EstimatedSize += e.EstimatedSize
		}
	}

	c.logger.Debug("databases scanned",
		"databases", scan.TotalDatabases,
		"records", scan.TotalRecords,
		"tabs_failed", scan.TabsFailed,
	)
	return scan, nil
}

// scanTabDatabases lists, opens and counts the databases of one tab.
// A database that cannot be opened in time is still reported, without
// object stores.
func (c *Collector) scanTabDatabases(ctx context.Context, tab webTab) ([]model.DatabaseEntry, error) {
	probe := c.browser.Databases
	if err := c.pace(ctx); err != nil {
		return nil, err
	}
	infos, err := probe.ListDatabases(ctx, tab.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]model.DatabaseEntry, 0, len(infos))
	for _, info := range infos {
		entry := model.DatabaseEntry{
			Domain:       tab.domain,
			Name:         info.Name,
			Version:      int(info.Version),
			ObjectStores: []model.ObjectStoreEntry{},
		}

		// A handle that opens after the bound is closed as soon as it arrives.
		handle, err := BoundedRelease(ctx, c.timeouts.DatabaseOpen, nil,
			func(ctx context.Context) (browser.DatabaseHandle, error) {
				return probe.OpenDatabase(ctx, tab.ID, info.Name)
			},
			closeHandle)
		if err != nil {
			c.logger.Debug("database open failed", "domain", tab.domain, "database", info.Name, "error", err)
			entries = append(entries, entry)
			continue
		}

		if v := handle.Version(); v != 0 {
			entry.Version = int(v)
		}
		for _, store := range handle.ObjectStoreNames() {
			// Counts default to zero when they fail or time out.
			n, _ := Bounded(ctx, c.timeouts.RecordCount, int64(0),
				func(ctx context.Context) (int64, error) {
					return handle.CountRecords(ctx, store)
				})
			entry.ObjectStores = append(entry.ObjectStores, model.ObjectStoreEntry{Name: store, RecordCount: int(n)})
			entry.TotalRecords += int(n)
		}
		_ = handle.Close()

		entry.EstimatedSize = int64(entry.TotalRecords) * estimatedRecordSize
		entries = append(entries, entry)
	}
	return entries, nil
}

// closeHandle closes an abandoned database handle.
func closeHandle(h browser.DatabaseHandle) {
	if h != nil {
		_ = h.Close()
	}
}

// estimateQuota records the storage estimate when the collaborator answers in time.
func (c *Collector) estimateQuota(ctx context.Context, scan *model.DatabaseScan) {
	if c.browser.Quota == nil {
		return
	}
	q, err := Bounded(ctx, c.timeouts.DatabaseOpen, browser.Quota{}, c.browser.Quota.Estimate)
	if err != nil {
		c.logger.Debug("quota estimate unavailable", "error", err)
		return
	}
	scan.Quota = &model.QuotaEstimate{UsageBytes: q.UsageBytes, QuotaBytes: q.QuotaBytes}
}
