package collector

import (
	"context"
	"fmt"

	"github.com/nao1215/privacyscan/internal/browser"
	"github.com/nao1215/privacyscan/internal/model"
)

// ScanCookies reads every cookie, normalizes it into a CookieRecord and
// groups the records by domain. On a cookie store failure it returns an
// empty scan together with the error.
func (c *Collector) ScanCookies(ctx context.Context) (*model.CookieScan, error) {
	scan := model.NewCookieScan()
	if c.browser.Cookies == nil {
		return scan, nil
	}

	raw, err := c.browser.Cookies.GetAllCookies(ctx)
	if err != nil {
		return model.NewCookieScan(), fmt.Errorf("cookie store read failed: %w", err)
	}

	for _, rc := range raw {
		rec := normalizeCookie(rc)
		scan.Items = append(scan.Items, rec)
		scan.TotalCount++
		scan.TotalSize += rec.Size

		domain := rec.NormalizedDomain()
		stats, ok := scan.ByDomain[domain]
		if !ok {
			stats = &model.CookieDomainStats{Domain: domain}
			scan.ByDomain[domain] = stats
		}
		stats.Count++
		stats.TotalSize += rec.Size
		stats.HasSecure = stats.HasSecure || rec.Secure
		stats.HasHTTPOnly = stats.HasHTTPOnly || rec.HTTPOnly
		stats.Names = append(stats.Names, rec.Name)
	}

	c.logger.Debug("cookies scanned", "count", scan.TotalCount, "domains", len(scan.ByDomain))
	return scan, nil
}

// normalizeCookie converts a browser cookie into a CookieRecord.
func normalizeCookie(rc browser.Cookie) model.CookieRecord {
	valueSize := len(rc.Value)
	if valueSize == 0 && rc.ValueSize > 0 {
		valueSize = rc.ValueSize
	}

	rec := model.CookieRecord{
		Name:     rc.Name,
		Domain:   rc.Domain,
		Path:     rc.Path,
		Value:    rc.Value,
		Secure:   rc.Secure,
		HTTPOnly: rc.HTTPOnly,
		SameSite: rc.SameSite,
		Session:  rc.Session || rc.ExpirationDate == nil,
		Size:     int64(len(rc.Name) + valueSize),
		StoreID:  rc.StoreID,
	}
	if rec.SameSite == "" {
		rec.SameSite = model.SameSiteUnspecified
	}
	if !rec.Session {
		exp := *rc.ExpirationDate
		rec.ExpirationDate = &exp
	}
	return rec
}
