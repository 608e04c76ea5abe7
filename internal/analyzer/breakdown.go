package analyzer

import (
	"math"

	"golang.org/x/net/publicsuffix"

	"github.com/nao1215/privacyscan/internal/model"
)

// GenerateBreakdown computes per-category counts, the first/third-party
// split, cookie attribute counts, tracker reach and storage totals.
func (a *Analyzer) GenerateBreakdown(cat *Categorized, snapshot *model.StorageSnapshot) model.Breakdown {
	now := a.now()
	b := model.Breakdown{
		Total:      len(cat.Cookies),
		ByCategory: cat.Counts(),
	}

	trackerDomains := make(map[string]struct{})
	trackerSites := make(map[string]struct{})
	var (
		tracking     int
		ageDaysTotal float64
		ageCount     int
	)

	for _, c := range cat.Cookies {
		if c.IsTracker {
			b.ThirdParty++
			domain := c.NormalizedDomain()
			trackerDomains[domain] = struct{}{}
			trackerSites[registrableDomain(domain)] = struct{}{}
		}
		if c.IsTracker || c.IsTracking {
			tracking++
		}

		if life, ok := c.LifetimeFrom(now); ok {
			b.PersistentCookies++
			if life > 0 {
				ageDaysTotal += life.Hours() / 24
				ageCount++
			}
		} else {
			b.SessionCookies++
		}
		if isLongLived(c.CookieRecord, now) {
			b.LongLivedCookies++
		}
		if c.Secure {
			b.SecureCookies++
		}
		if c.HTTPOnly {
			b.HTTPOnlyCookies++
		}
	}

	b.FirstParty = b.Total - b.ThirdParty
	b.TrackingSurfaceArea = len(trackerDomains)
	b.TrackerSites = len(trackerSites)
	b.TrackingRatio = round4(ratio(tracking, b.Total))
	if ageCount > 0 {
		b.AverageAgeDays = math.Round(ageDaysTotal/float64(ageCount)*10) / 10
	}

	storeA, storeB := snapshot.StoreA(), snapshot.StoreB()
	b.Storage = model.StorageBreakdown{
		KeyValueStoreABytes: storeA.TotalSize,
		KeyValueStoreBBytes: storeB.TotalSize,
		KeyValueKB:          (storeA.TotalSize + storeB.TotalSize) / 1024,
	}
	if snapshot != nil && snapshot.Databases != nil {
		b.Storage.DatabaseCount = snapshot.Databases.TotalDatabases
		b.Storage.DatabaseRecords = snapshot.Databases.TotalRecords
	}
	return b
}

// registrableDomain returns the eTLD+1 of domain, or domain itself when it
// has none (a bare public suffix or an IP address).
func registrableDomain(domain string) string {
	site, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		return domain
	}
	return site
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
