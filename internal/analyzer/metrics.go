package analyzer

import (
	"regexp"
	"time"

	"github.com/nao1215/privacyscan/internal/model"
	"github.com/nao1215/privacyscan/internal/trackerdb"
)

const (
	// storageUnitKB is the key/value volume that costs one point.
	storageUnitKB = 100

	// excessiveStorageBytes is the per-origin total above which an origin
	// is flagged, provided it also holds one oversized item.
	excessiveStorageBytes = 1024 * 1024

	// oversizedItemBytes is the size of a single oversized key/value item.
	oversizedItemBytes = 100 * 1024
)

// facebookCookie matches the cookies set by the Facebook pixel and widgets.
var facebookCookie = regexp.MustCompile(`^(_fbp|_fbc|fr|datr|c_user|xs)$`)

// metrics are the counts shared by scoring and recommendations.
type metrics struct {
	total int

	// tracking is analytics, social and tracking-flagged unknown cookies.
	tracking       []model.ClassifiedCookie
	advertising    []model.ClassifiedCookie
	fingerprinting []model.ClassifiedCookie
	analytics      []model.ClassifiedCookie
	facebook       []model.ClassifiedCookie
	longLived      []model.ClassifiedCookie
	insecure       []model.ClassifiedCookie

	storageBytes int64
	storageKB    int64
	storageUnits int64
}

func (a *Analyzer) measure(cat *Categorized, snapshot *model.StorageSnapshot) metrics {
	now := a.now()
	m := metrics{
		total:          len(cat.Cookies),
		advertising:    cat.Buckets[model.CategoryAdvertising],
		fingerprinting: cat.Buckets[model.CategoryFingerprinting],
		analytics:      cat.Buckets[model.CategoryAnalytics],
	}

	m.tracking = make([]model.ClassifiedCookie, 0,
		cat.Count(model.CategoryAnalytics)+cat.Count(model.CategorySocial)+cat.Count(model.CategoryUnknown))
	m.tracking = append(m.tracking, cat.Buckets[model.CategoryAnalytics]...)
	m.tracking = append(m.tracking, cat.Buckets[model.CategorySocial]...)
	m.tracking = append(m.tracking, cat.Buckets[model.CategoryUnknown]...)

	for _, c := range cat.Buckets[model.CategorySocial] {
		if facebookCookie.MatchString(c.Name) || isFacebookDomain(c.NormalizedDomain()) {
			m.facebook = append(m.facebook, c)
		}
	}

	for _, c := range cat.Cookies {
		if isLongLived(c.CookieRecord, now) {
			m.longLived = append(m.longLived, c)
		}
		if !c.Secure && trackerdb.IsSensitiveDomain(c.Domain) {
			m.insecure = append(m.insecure, c)
		}
	}

	m.storageBytes = snapshot.StoreA().TotalSize + snapshot.StoreB().TotalSize
	m.storageKB = m.storageBytes / 1024
	m.storageUnits = m.storageKB / storageUnitKB
	return m
}

func isLongLived(c model.CookieRecord, now time.Time) bool {
	life, ok := c.LifetimeFrom(now)
	return ok && life > trackerdb.LongLivedThreshold
}

func isFacebookDomain(domain string) bool {
	switch domain {
	case "facebook.com", "facebook.net", "www.facebook.com", "connect.facebook.net":
		return true
	}
	return false
}

// ratio returns n/total, or 0 when total is 0.
func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
