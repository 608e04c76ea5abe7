package trackerdb

import (
	"regexp"

	"github.com/nao1215/privacyscan/internal/model"
)

// Company is a tracking company with the domains and cookie names it uses.
type Company struct {
	Name     string
	Domains  []string
	Patterns []*regexp.Regexp
	Category model.Category
	Risk     model.Risk
}

// defaultCompanies is the curated company table.
var defaultCompanies = []Company{
	{
		Name:     "Google",
		Domains:  []string{"google-analytics.com", "analytics.google.com", "googletagmanager.com", "doubleclick.net", "googlesyndication.com", "googleadservices.com"},
		Patterns: compileAll(`^_ga$`, `^_ga_`, `^_gid$`, `^_gat`, `^_gac_`, `^_gcl_`, `^__utm[abcvtz]$`, `^_dc_gtm_`, `^__gads$`, `^__gpi$`, `^IDE$`, `^DSID$`, `^test_cookie$`),
		Category: model.CategoryAdvertising,
		Risk:     model.RiskHigh,
	},
	{
		Name:     "Meta",
		Domains:  []string{"facebook.com", "facebook.net", "fbcdn.net", "instagram.com"},
		Patterns: compileAll(`^_fbp$`, `^_fbc$`, `^fr$`, `^datr$`),
		Category: model.CategorySocial,
		Risk:     model.RiskHigh,
	},
	{
		Name:     "Microsoft",
		Domains:  []string{"bat.bing.com", "clarity.ms"},
		Patterns: compileAll(`^_uetsid$`, `^_uetvid$`, `^MUID$`, `^_clck$`, `^_clsk$`),
		Category: model.CategoryAdvertising,
		Risk:     model.RiskHigh,
	},
	{
		Name:     "Amazon",
		Domains:  []string{"amazon-adsystem.com"},
		Category: model.CategoryAdvertising,
		Risk:     model.RiskHigh,
	},
	{
		Name:     "X (Twitter)",
		Domains:  []string{"twitter.com", "x.com", "ads-twitter.com"},
		Patterns: compileAll(`^personalization_id$`, `^guest_id`),
		Category: model.CategorySocial,
		Risk:     model.RiskMedium,
	},
	{
		Name:     "LinkedIn",
		Domains:  []string{"linkedin.com", "licdn.com", "ads.linkedin.com"},
		Patterns: compileAll(`^li_sugr$`, `^bcookie$`, `^lidc$`, `^UserMatchHistory$`, `^AnalyticsSyncHistory$`),
		Category: model.CategorySocial,
		Risk:     model.RiskMedium,
	},
	{
		Name:     "TikTok",
		Domains:  []string{"tiktok.com"},
		Patterns: compileAll(`^_ttp$`),
		Category: model.CategorySocial,
		Risk:     model.RiskHigh,
	},
	{
		Name:     "Pinterest",
		Domains:  []string{"pinterest.com"},
		Patterns: compileAll(`^_pin_unauth$`),
		Category: model.CategorySocial,
		Risk:     model.RiskMedium,
	},
	{
		Name:     "Snap",
		Domains:  []string{"snapchat.com", "sc-static.net"},
		Patterns: compileAll(`^_scid`),
		Category: model.CategorySocial,
		Risk:     model.RiskMedium,
	},
	{
		Name:     "Reddit",
		Domains:  []string{"reddit.com", "redditmedia.com"},
		Patterns: compileAll(`^_rdt_uuid$`),
		Category: model.CategorySocial,
		Risk:     model.RiskMedium,
	},
	{
		Name:     "Hotjar",
		Domains:  []string{"hotjar.com", "hotjar.io"},
		Patterns: compileAll(`^_hj`),
		Category: model.CategoryAnalytics,
		Risk:     model.RiskHigh,
	},
	{
		Name:     "Mixpanel",
		Domains:  []string{"mixpanel.com"},
		Patterns: compileAll(`^mp_.*_mixpanel$`),
		Category: model.CategoryAnalytics,
		Risk:     model.RiskMedium,
	},
	{
		Name:     "Segment",
		Domains:  []string{"segment.com", "segment.io"},
		Patterns: compileAll(`^ajs_(user|anonymous)_id$`),
		Category: model.CategoryAnalytics,
		Risk:     model.RiskMedium,
	},
	{
		Name:     "Amplitude",
		Domains:  []string{"amplitude.com"},
		Patterns: compileAll(`^amp_`),
		Category: model.CategoryAnalytics,
		Risk:     model.RiskMedium,
	},
	{
		Name:     "HubSpot",
		Domains:  []string{"hs-analytics.net"},
		Patterns: compileAll(`^hubspotutk$`, `^__hs(tc|sc|src)$`),
		Category: model.CategoryAnalytics,
		Risk:     model.RiskMedium,
	},
	{
		Name:     "Yandex",
		Domains:  []string{"mc.yandex.ru"},
		Patterns: compileAll(`^_ym_`),
		Category: model.CategoryAnalytics,
		Risk:     model.RiskMedium,
	},
	{
		Name:     "Adobe",
		Domains:  []string{"demdex.net"},
		Patterns: compileAll(`^s_vi$`, `^AMCV_`),
		Category: model.CategoryAdvertising,
		Risk:     model.RiskHigh,
	},
	{
		Name:     "Criteo",
		Domains:  []string{"criteo.com", "criteo.net"},
		Category: model.CategoryAdvertising,
		Risk:     model.RiskHigh,
	},
	{
		Name:     "Xandr",
		Domains:  []string{"adnxs.com"},
		Patterns: compileAll(`^uuid2$`, `^anj$`),
		Category: model.CategoryAdvertising,
		Risk:     model.RiskHigh,
	},
	{
		Name:     "The Trade Desk",
		Domains:  []string{"adsrvr.org"},
		Category: model.CategoryAdvertising,
		Risk:     model.RiskHigh,
	},
	{
		Name:     "Quantcast",
		Domains:  []string{"quantserve.com"},
		Patterns: compileAll(`^__qca$`),
		Category: model.CategoryAdvertising,
		Risk:     model.RiskHigh,
	},
	{
		Name:     "Comscore",
		Domains:  []string{"scorecardresearch.com"},
		Category: model.CategoryAnalytics,
		Risk:     model.RiskMedium,
	},
	{
		Name:     "FingerprintJS",
		Domains:  []string{"fingerprint.com", "fpjs.io", "fpcdn.io"},
		Patterns: compileAll(`^_fp(id|jsid)$`),
		Category: model.CategoryFingerprinting,
		Risk:     model.RiskCritical,
	},
	{
		Name:     "LexisNexis ThreatMetrix",
		Domains:  []string{"threatmetrix.com", "online-metrix.net"},
		Category: model.CategoryFingerprinting,
		Risk:     model.RiskCritical,
	},
}

// MatchCompany attributes a cookie to a company.
// Cookie-name patterns are tried across the whole table before domains.
func (db *Database) MatchCompany(name, domain string) (Company, bool) {
	for _, c := range db.companies {
		if matchAny(c.Patterns, name) {
			return c, true
		}
	}

	domain = model.NormalizeDomain(domain)
	for i, c := range db.companies {
		if matchesSuffix(domain, db.companyDomains[i]) {
			return c, true
		}
	}
	return Company{}, false
}

// Companies returns a copy of the company table.
func (db *Database) Companies() []Company {
	out := make([]Company, len(db.companies))
	copy(out, db.companies)
	return out
}
