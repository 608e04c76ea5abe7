package trackerdb

import (
	"regexp"
	"strings"
	"time"

	"github.com/nao1215/privacyscan/internal/model"
)

// LongLivedThreshold is the lifetime beyond which a cookie is long-lived.
// A long-lived cookie on a tracker domain counts as tracking even when its
// name is not a known tracking name.
const LongLivedThreshold = 365 * 24 * time.Hour

// Database is the tracking classification oracle.
// All methods are pure; the Database is never modified after New.
type Database struct {
	// domains maps each category to its set of known domains.
	domains map[model.Category]map[string]struct{}

	// riskOverrides pins the risk of specific domains.
	riskOverrides map[string]model.Risk

	trackingNames  []*regexp.Regexp
	essentialNames []*regexp.Regexp
	companies      []Company

	// companyDomains is the domain set of companies[i].
	companyDomains []map[string]struct{}

	// now is the clock used by the long-lived expiry rule.
	now func() time.Time
}

// Option configures a Database.
type Option func(*Database)

// WithClock sets the clock used to evaluate cookie expirations.
// Tests use it to make verdicts reproducible.
func WithClock(now func() time.Time) Option {
	return func(db *Database) {
		if now != nil {
			db.now = now
		}
	}
}

// WithDomains adds domains to a category's list.
// Domains are normalized (leading dot stripped, lowercased).
func WithDomains(category model.Category, domains ...string) Option {
	return func(db *Database) {
		set, ok := db.domains[category]
		if !ok {
			return
		}
		for _, d := range domains {
			if d = model.NormalizeDomain(d); d != "" {
				set[d] = struct{}{}
			}
		}
	}
}

// WithRiskOverride pins the risk tier of a domain and its subdomains.
func WithRiskOverride(domain string, risk model.Risk) Option {
	return func(db *Database) {
		if d := model.NormalizeDomain(domain); d != "" {
			db.riskOverrides[d] = risk
		}
	}
}

// New creates a Database populated with the built-in lists.
func New(opts ...Option) *Database {
	db := &Database{
		domains:        make(map[model.Category]map[string]struct{}, len(categoryOrder)),
		riskOverrides:  make(map[string]model.Risk, len(defaultRiskOverrides)),
		trackingNames:  trackingNamePatterns,
		essentialNames: essentialNamePatterns,
		companies:      defaultCompanies,
		now:            time.Now,
	}

	for _, category := range categoryOrder {
		set := make(map[string]struct{}, len(defaultDomains[category]))
		for _, d := range defaultDomains[category] {
			set[d] = struct{}{}
		}
		db.domains[category] = set
	}
	for d, r := range defaultRiskOverrides {
		db.riskOverrides[d] = r
	}
	db.companyDomains = make([]map[string]struct{}, len(db.companies))
	for i, c := range db.companies {
		set := make(map[string]struct{}, len(c.Domains))
		for _, d := range c.Domains {
			set[d] = struct{}{}
		}
		db.companyDomains[i] = set
	}

	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Categorize returns the first category, in declared order, whose list
// contains domain or a parent of domain. It returns CategoryUnknown otherwise.
func (db *Database) Categorize(domain string) model.Category {
	domain = model.NormalizeDomain(domain)
	if domain == "" {
		return model.CategoryUnknown
	}
	for _, category := range categoryOrder {
		if matchesSuffix(domain, db.domains[category]) {
			return category
		}
	}
	return model.CategoryUnknown
}

// IsTracker reports whether domain belongs to a tracking category.
func (db *Database) IsTracker(domain string) bool {
	switch db.Categorize(domain) {
	case model.CategoryUnknown, model.CategoryEssential:
		return false
	default:
		return true
	}
}

// RiskLevel returns the explicit override for domain if one matches,
// otherwise the default risk of its category.
func (db *Database) RiskLevel(domain string) model.Risk {
	domain = model.NormalizeDomain(domain)
	for candidate := range suffixes(domain) {
		if r, ok := db.riskOverrides[candidate]; ok {
			return r
		}
	}
	if r, ok := categoryRisk[db.Categorize(domain)]; ok {
		return r
	}
	return model.RiskLow
}

// IsTrackingName reports whether name matches a known tracking cookie name.
func (db *Database) IsTrackingName(name string) bool {
	return matchAny(db.trackingNames, name)
}

// IsEssentialName reports whether name looks like a session, CSRF or consent cookie.
func (db *Database) IsEssentialName(name string) bool {
	return matchAny(db.essentialNames, name)
}

// IsTrackingCookie reports whether the cookie's name matches a tracking
// pattern, or its domain is a tracker and it expires more than 365 days out.
func (db *Database) IsTrackingCookie(c model.CookieRecord) bool {
	if db.IsTrackingName(c.Name) {
		return true
	}
	if !db.IsTracker(c.Domain) {
		return false
	}
	return db.IsLongLived(c)
}

// IsLongLived reports whether the cookie expires more than 365 days from now.
func (db *Database) IsLongLived(c model.CookieRecord) bool {
	life, ok := c.LifetimeFrom(db.now())
	return ok && life > LongLivedThreshold
}

// CategorizeCookie composes the domain and name rules into one verdict.
//
// A cookie whose domain is unknown resolves to:
//   - unknown when it is flagged as tracking by name or expiry,
//   - essential when its name is a session, CSRF or consent cookie,
//   - functional otherwise.
func (db *Database) CategorizeCookie(c model.CookieRecord) model.Classification {
	domainCategory := db.Categorize(c.Domain)
	tracking := db.IsTrackingCookie(c)

	category := domainCategory
	if domainCategory == model.CategoryUnknown {
		switch {
		case tracking:
			category = model.CategoryUnknown
		case db.IsEssentialName(c.Name):
			category = model.CategoryEssential
		default:
			category = model.CategoryFunctional
		}
	}

	return model.Classification{
		Category:       category,
		Risk:           db.RiskLevel(c.Domain),
		IsTracking:     tracking,
		IsTracker:      domainCategory != model.CategoryUnknown && domainCategory != model.CategoryEssential,
		DomainCategory: domainCategory,
	}
}

// Classify returns an enriched copy of the cookie. The input is not modified.
func (db *Database) Classify(c model.CookieRecord) model.ClassifiedCookie {
	return model.ClassifiedCookie{
		CookieRecord:   c,
		Classification: db.CategorizeCookie(c),
	}
}

// IsSensitiveDomain reports whether domain contains a sensitive keyword
// such as bank, paypal or login.
func IsSensitiveDomain(domain string) bool {
	domain = model.NormalizeDomain(domain)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(domain, kw) {
			return true
		}
	}
	return false
}

// matchesSuffix reports whether domain or any parent domain is in set.
func matchesSuffix(domain string, set map[string]struct{}) bool {
	for candidate := range suffixes(domain) {
		if _, ok := set[candidate]; ok {
			return true
		}
	}
	return false
}

// suffixes yields domain and each parent domain: a.b.c, b.c, c.
// This is equivalent to testing d == known || strings.HasSuffix(d, "."+known).
func suffixes(domain string) func(yield func(string) bool) {
	return func(yield func(string) bool) {
		for domain != "" {
			if !yield(domain) {
				return
			}
			i := strings.IndexByte(domain, '.')
			if i < 0 {
				return
			}
			domain = domain[i+1:]
		}
	}
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
