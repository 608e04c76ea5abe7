package model

// Category is the tracking category assigned to a domain or cookie.
type Category string

// Tracking categories.
const (
	CategoryAnalytics      Category = "analytics"
	CategoryAdvertising    Category = "advertising"
	CategorySocial         Category = "social"
	CategoryFingerprinting Category = "fingerprinting"
	CategoryEssential      Category = "essential"
	CategoryFunctional     Category = "functional"
	CategoryUnknown        Category = "unknown"
)

// AllCategories lists every category in display order.
// The breakdown always carries a count for each of them.
var AllCategories = []Category{
	CategoryAnalytics,
	CategoryAdvertising,
	CategorySocial,
	CategoryFingerprinting,
	CategoryEssential,
	CategoryFunctional,
	CategoryUnknown,
}

// IsTracking reports whether the category describes cross-site tracking.
func (c Category) IsTracking() bool {
	switch c {
	case CategoryAnalytics, CategoryAdvertising, CategorySocial, CategoryFingerprinting:
		return true
	default:
		return false
	}
}

// Risk is the risk tier of a tracking domain.
type Risk string

// Risk tiers, lowest first.
const (
	RiskLow      Risk = "low"
	RiskMedium   Risk = "medium"
	RiskHigh     Risk = "high"
	RiskCritical Risk = "critical"
)

// Rank returns an ordinal for comparisons. Unknown values rank as low.
func (r Risk) Rank() int {
	switch r {
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether r is at or above other.
func (r Risk) AtLeast(other Risk) bool {
	return r.Rank() >= other.Rank()
}

// Classification is the verdict for a single cookie.
// It is a pure function of the cookie's name, domain and expiration.
type Classification struct {
	// Category is the resolved category of the cookie.
	Category Category `json:"category"`

	// Risk is the risk tier of the cookie's domain.
	Risk Risk `json:"risk"`

	// IsTracking is true when the cookie name matches a known tracking
	// pattern, or its domain is a tracker and it lives for more than a year.
	IsTracking bool `json:"isTracking"`

	// IsTracker is true when the cookie's domain is a known tracker.
	IsTracker bool `json:"isTracker"`

	// DomainCategory is the category of the domain alone, before cookie-name
	// rules are applied.
	DomainCategory Category `json:"domainCategory"`
}

// ClassifiedCookie is an enriched copy of a CookieRecord.
// The original record is never modified.
type ClassifiedCookie struct {
	CookieRecord
	Classification
}
