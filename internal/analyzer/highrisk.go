package analyzer

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/nao1215/privacyscan/internal/model"
	"github.com/nao1215/privacyscan/internal/trackerdb"
)

// crossSiteMinCookies is the cookie count at which a high-risk domain is
// considered to track across sites.
const crossSiteMinCookies = 3

// DetectInput is everything a detector may inspect.
type DetectInput struct {
	Categorized *Categorized
	Snapshot    *model.StorageSnapshot
	DB          *trackerdb.Database
}

// Detector flags one kind of high-risk item.
//
// Detectors are independent: each sees the whole input and a cookie may
// appear in the items of several detectors.
type Detector interface {
	// Name identifies the detector in logs.
	Name() string

	// Detect returns zero or more flagged items.
	Detect(in DetectInput) []model.HighRiskItem
}

// IdentifyHighRiskItems runs every registered detector in order.
func (a *Analyzer) IdentifyHighRiskItems(cat *Categorized, snapshot *model.StorageSnapshot) []model.HighRiskItem {
	in := DetectInput{Categorized: cat, Snapshot: snapshot, DB: a.db}
	items := make([]model.HighRiskItem, 0)
	for _, d := range a.detectors {
		found := d.Detect(in)
		if len(found) > 0 {
			a.logger.Debug("high-risk items detected", "detector", d.Name(), "count", len(found))
		}
		items = append(items, found...)
	}
	return items
}

func newItem(kind, description string, items []string, risk model.Risk) model.HighRiskItem {
	info := model.GetFindingInfo(kind)
	return model.HighRiskItem{
		Type:        kind,
		Severity:    info.Severity,
		Title:       info.Title,
		Description: description,
		Items:       items,
		Risk:        risk,
	}
}

// fingerprintDetector flags any fingerprinting cookie.
type fingerprintDetector struct{}

func (fingerprintDetector) Name() string { return "fingerprinting" }

func (fingerprintDetector) Detect(in DetectInput) []model.HighRiskItem {
	cookies := in.Categorized.Buckets[model.CategoryFingerprinting]
	if len(cookies) == 0 {
		return nil
	}
	risk := model.RiskHigh
	for _, c := range cookies {
		if c.Risk.Rank() > risk.Rank() {
			risk = c.Risk
		}
	}
	desc := fmt.Sprintf("%d cookies from fingerprinting services. %s",
		len(cookies), model.GetFindingInfo(model.HighRiskFingerprinting).Impact)
	return []model.HighRiskItem{newItem(model.HighRiskFingerprinting, desc, cookieLabels(cookies), risk)}
}

// storageDetector flags origins holding more than 1 MB of key/value data
// with at least one item over 100 KB.
type storageDetector struct{}

func (storageDetector) Name() string { return "excessive_storage" }

func (storageDetector) Detect(in DetectInput) []model.HighRiskItem {
	var out []model.HighRiskItem
	stores := []struct {
		label string
		scan  *model.KeyValueScan
	}{
		{"per-tab storage", in.Snapshot.StoreA()},
		{"shared storage", in.Snapshot.StoreB()},
	}
	for _, store := range stores {
		domains := make([]string, 0, len(store.scan.ByDomain))
		for d := range store.scan.ByDomain {
			domains = append(domains, d)
		}
		slices.Sort(domains)

		for _, d := range domains {
			entry := store.scan.ByDomain[d]
			if entry.TotalSizeBytes <= excessiveStorageBytes {
				continue
			}
			var oversized []string
			for _, k := range entry.Keys {
				if k.Size > oversizedItemBytes {
					oversized = append(oversized, fmt.Sprintf("%s (%d KB)", k.Key, k.Size/1024))
				}
			}
			if len(oversized) == 0 {
				continue
			}
			desc := fmt.Sprintf("%s holds %d KB in %s, including %d items over 100 KB.",
				d, entry.TotalSizeBytes/1024, store.label, len(oversized))
			out = append(out, newItem(model.HighRiskExcessiveStorage, desc, oversized, model.RiskMedium))
		}
	}
	return out
}

// crossSiteDetector flags high-risk domains that set several cookies.
type crossSiteDetector struct{}

func (crossSiteDetector) Name() string { return "cross_site_tracking" }

func (crossSiteDetector) Detect(in DetectInput) []model.HighRiskItem {
	byDomain := make(map[string][]model.ClassifiedCookie)
	for _, c := range in.Categorized.Cookies {
		d := c.NormalizedDomain()
		byDomain[d] = append(byDomain[d], c)
	}

	domains := make([]string, 0, len(byDomain))
	for d, cookies := range byDomain {
		if len(cookies) >= crossSiteMinCookies {
			domains = append(domains, d)
		}
	}
	slices.SortFunc(domains, func(x, y string) int {
		if c := cmp.Compare(len(byDomain[y]), len(byDomain[x])); c != 0 {
			return c
		}
		return cmp.Compare(x, y)
	})

	var out []model.HighRiskItem
	for _, d := range domains {
		risk := in.DB.RiskLevel(d)
		if !risk.AtLeast(model.RiskHigh) {
			continue
		}
		cookies := byDomain[d]
		desc := fmt.Sprintf("%s sets %d cookies and is rated %s risk.", d, len(cookies), risk)
		out = append(out, newItem(model.HighRiskCrossSiteTracking, desc, cookieLabels(cookies), risk))
	}
	return out
}

// insecureSensitiveDetector flags non-secure cookies on sensitive domains.
type insecureSensitiveDetector struct{}

func (insecureSensitiveDetector) Name() string { return "insecure_sensitive" }

func (insecureSensitiveDetector) Detect(in DetectInput) []model.HighRiskItem {
	var cookies []model.ClassifiedCookie
	for _, c := range in.Categorized.Cookies {
		if !c.Secure && trackerdb.IsSensitiveDomain(c.Domain) {
			cookies = append(cookies, c)
		}
	}
	if len(cookies) == 0 {
		return nil
	}
	desc := fmt.Sprintf("%d cookies on banking, payment or login domains are sent without the Secure flag.", len(cookies))
	return []model.HighRiskItem{newItem(model.HighRiskInsecureSensitive, desc, cookieLabels(cookies), model.RiskHigh)}
}
