package collector

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/privacyscan/internal/browser"
	"github.com/nao1215/privacyscan/internal/model"
)

// webTab is a tab with a scannable web origin.
type webTab struct {
	browser.Tab
	domain string
	origin string
}

// label identifies the tab in error messages.
func (t webTab) label() string {
	return t.domain + " (tab " + strconv.Itoa(t.ID) + ")"
}

// webTabs enumerates tabs, applies the tab cap and drops internal pages.
// It returns the scannable tabs and the number of skipped ones.
func (c *Collector) webTabs(ctx context.Context) ([]webTab, int, error) {
	if c.browser.Tabs == nil {
		return nil, 0, nil
	}
	tabs, err := c.browser.Tabs.QueryTabs(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("tab enumeration failed: %w", err)
	}
	if len(tabs) > c.maxTabs {
		c.logger.Debug("tab cap reached", "tabs", len(tabs), "max", c.maxTabs)
		tabs = tabs[:c.maxTabs]
	}

	out := make([]webTab, 0, len(tabs))
	skipped := 0
	for _, t := range tabs {
		u, err := url.Parse(t.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
			skipped++
			continue
		}
		host := strings.ToLower(u.Host)
		out = append(out, webTab{
			Tab:    t,
			domain: model.NormalizeDomain(u.Hostname()),
			origin: u.Scheme + "://" + host,
		})
	}
	return out, skipped, nil
}

// perOrigin keeps the first tab of every origin.
func perOrigin(tabs []webTab) []webTab {
	seen := make(map[string]struct{}, len(tabs))
	out := make([]webTab, 0, len(tabs))
	for _, t := range tabs {
		if _, ok := seen[t.origin]; ok {
			continue
		}
		seen[t.origin] = struct{}{}
		out = append(out, t)
	}
	return out
}

// pace waits for the rate limiter when one is configured.
func (c *Collector) pace(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// tabFailure formats the error message recorded for a failed tab.
func tabFailure(tab webTab, err error, bound time.Duration) string {
	if errors.Is(err, ErrTimeout) {
		return fmt.Sprintf("%s: timed out after %s", tab.label(), bound)
	}
	return fmt.Sprintf("%s: %v", tab.label(), err)
}
