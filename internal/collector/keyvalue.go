package collector

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/privacyscan/internal/browser"
	"github.com/nao1215/privacyscan/internal/model"
)

// tabRead is the settled key/value read of one tab.
type tabRead struct {
	items []browser.StorageItem
	err   error
}

// ScanKeyValueStoreA scans the key/value store isolated per tab.
// Every web tab is read and results are kept per domain and per tab.
func (c *Collector) ScanKeyValueStoreA(ctx context.Context) (*model.KeyValueScan, error) {
	return c.scanKeyValue(ctx, browser.AreaTab)
}

// ScanKeyValueStoreB scans the key/value store shared per origin.
// One tab per origin is read since all tabs of an origin see the same data.
func (c *Collector) ScanKeyValueStoreB(ctx context.Context) (*model.KeyValueScan, error) {
	return c.scanKeyValue(ctx, browser.AreaOrigin)
}

func (c *Collector) scanKeyValue(ctx context.Context, area browser.StorageArea) (*model.KeyValueScan, error) {
	perTab := area == browser.AreaTab
	scan := model.NewKeyValueScan(perTab)
	if c.browser.Scripts == nil {
		return scan, nil
	}

	tabs, skipped, err := c.webTabs(ctx)
	if err != nil {
		return model.NewKeyValueScan(perTab), err
	}
	if !perTab {
		tabs = perOrigin(tabs)
	}
	scan.TabsSkipped = skipped

	reads := make([]tabRead, len(tabs))
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, tab := range tabs {
		g.Go(func() error {
			items, err := Bounded(ctx, c.timeouts.KeyValueTab, nil,
				func(ctx context.Context) ([]browser.StorageItem, error) {
					if err := c.pace(ctx); err != nil {
						return nil, err
					}
					return c.browser.Scripts.ReadStorage(ctx, tab.ID, area)
				})
			reads[i] = tabRead{items: items, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for i, tab := range tabs {
		read := reads[i]
		if read.err != nil {
			scan.TabsFailed++
			scan.Errors = append(scan.Errors, tabFailure(tab, read.err, c.timeouts.KeyValueTab))
			c.logger.Debug("key/value read failed",
				"area", string(area), "tab", tab.ID, "domain", tab.domain, "error", read.err)
			continue
		}
		scan.TabsScanned++
		if len(read.items) == 0 {
			continue
		}

		keys, size := toKeys(read.items)
		entry, ok := scan.ByDomain[tab.domain]
		if !ok {
			entry = &model.DomainStorageEntry{Domain: tab.domain}
			scan.ByDomain[tab.domain] = entry
		}
		entry.ItemCount += len(keys)
		entry.TotalSizeBytes += size
		entry.Keys = append(entry.Keys, keys...)
		scan.TotalItems += len(keys)
		scan.TotalSize += size

		if perTab {
			scan.ByTab[strconv.Itoa(tab.ID)] = &model.TabStorageEntry{
				TabID:          tab.ID,
				URL:            tab.URL,
				Title:          tab.Title,
				Domain:         tab.domain,
				ItemCount:      len(keys),
				TotalSizeBytes: size,
				Keys:           keys,
			}
		}
	}

	c.logger.Debug("key/value store scanned",
		"area", string(area),
		"tabs_scanned", scan.TabsScanned,
		"tabs_failed", scan.TabsFailed,
		"items", scan.TotalItems,
	)
	return scan, nil
}

func toKeys(items []browser.StorageItem) ([]model.StorageKey, int64) {
	keys := make([]model.StorageKey, len(items))
	var total int64
	for i, it := range items {
		keys[i] = model.StorageKey{Key: it.Key, Size: it.Size}
		total += it.Size
	}
	return keys, total
}
