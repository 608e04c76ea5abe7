package trackerdb

import (
	"regexp"

	"github.com/nao1215/privacyscan/internal/model"
)

// categoryOrder is the declared lookup order of the domain lists.
var categoryOrder = []model.Category{
	model.CategoryAnalytics,
	model.CategoryAdvertising,
	model.CategorySocial,
	model.CategoryFingerprinting,
	model.CategoryEssential,
}

// defaultDomains holds the curated domain lists per category.
var defaultDomains = map[model.Category][]string{
	model.CategoryAnalytics: {
		"google-analytics.com",
		"analytics.google.com",
		"googletagmanager.com",
		"hotjar.com",
		"hotjar.io",
		"mixpanel.com",
		"segment.com",
		"segment.io",
		"amplitude.com",
		"heap.io",
		"heapanalytics.com",
		"fullstory.com",
		"clarity.ms",
		"mouseflow.com",
		"crazyegg.com",
		"chartbeat.com",
		"chartbeat.net",
		"parsely.com",
		"nr-data.net",
		"newrelic.com",
		"statcounter.com",
		"kissmetrics.com",
		"optimizely.com",
		"scorecardresearch.com",
		"mc.yandex.ru",
		"hs-analytics.net",
		"matomo.cloud",
	},
	model.CategoryAdvertising: {
		"doubleclick.net",
		"googlesyndication.com",
		"googleadservices.com",
		"adnxs.com",
		"criteo.com",
		"criteo.net",
		"amazon-adsystem.com",
		"adsrvr.org",
		"rubiconproject.com",
		"pubmatic.com",
		"openx.net",
		"taboola.com",
		"outbrain.com",
		"bidswitch.net",
		"casalemedia.com",
		"demdex.net",
		"adform.net",
		"quantserve.com",
		"mathtag.com",
		"bat.bing.com",
		"ads-twitter.com",
		"ads.linkedin.com",
		"advertising.com",
		"media.net",
		"smartadserver.com",
		"moatads.com",
		"rlcdn.com",
		"agkn.com",
		"teads.tv",
		"3lift.com",
		"yieldmo.com",
		"sharethrough.com",
	},
	model.CategorySocial: {
		"facebook.com",
		"facebook.net",
		"fbcdn.net",
		"instagram.com",
		"twitter.com",
		"x.com",
		"linkedin.com",
		"licdn.com",
		"pinterest.com",
		"tiktok.com",
		"snapchat.com",
		"sc-static.net",
		"reddit.com",
		"redditmedia.com",
		"addthis.com",
		"sharethis.com",
		"disqus.com",
		"vk.com",
	},
	model.CategoryFingerprinting: {
		"fingerprint.com",
		"fpjs.io",
		"fpcdn.io",
		"iovation.com",
		"threatmetrix.com",
		"online-metrix.net",
		"bluecava.com",
		"augur.io",
		"deviceatlas.com",
	},
	model.CategoryEssential: {
		"cloudflare.com",
		"paypal.com",
		"stripe.com",
		"stripe.network",
		"recaptcha.net",
		"gstatic.com",
		"hcaptcha.com",
		"akamaihd.net",
		"fastly.net",
		"auth0.com",
		"okta.com",
		"login.microsoftonline.com",
		"accounts.google.com",
		"onetrust.com",
		"cookielaw.org",
		"consensu.org",
	},
}

// defaultRiskOverrides pins the risk of specific domains regardless of category.
var defaultRiskOverrides = map[string]model.Risk{
	"doubleclick.net":       model.RiskHigh,
	"facebook.com":          model.RiskHigh,
	"facebook.net":          model.RiskHigh,
	"tiktok.com":            model.RiskHigh,
	"hotjar.com":            model.RiskHigh,
	"fullstory.com":         model.RiskHigh,
	"clarity.ms":            model.RiskHigh,
	"mouseflow.com":         model.RiskHigh,
	"criteo.com":            model.RiskHigh,
	"fingerprint.com":       model.RiskCritical,
	"fpjs.io":               model.RiskCritical,
	"threatmetrix.com":      model.RiskCritical,
	"online-metrix.net":     model.RiskCritical,
	"iovation.com":          model.RiskCritical,
	"google-analytics.com":  model.RiskMedium,
	"scorecardresearch.com": model.RiskMedium,
	"paypal.com":            model.RiskLow,
	"stripe.com":            model.RiskLow,
}

// categoryRisk is the fallback risk per category.
var categoryRisk = map[model.Category]model.Risk{
	model.CategoryFingerprinting: model.RiskHigh,
	model.CategoryAdvertising:    model.RiskHigh,
	model.CategoryAnalytics:      model.RiskMedium,
	model.CategorySocial:         model.RiskMedium,
	model.CategoryEssential:      model.RiskLow,
}

// trackingNamePatterns match cookie names set by well-known trackers.
var trackingNamePatterns = compileAll(
	`^_ga$`,
	`^_ga_`,
	`^_gid$`,
	`^_gat`,
	`^_gac_`,
	`^_gcl_`,
	`^__utm[abcvtz]$`,
	`^_dc_gtm_`,
	`^__gads$`,
	`^__gpi$`,
	`^IDE$`,
	`^DSID$`,
	`^test_cookie$`,
	`^NID$`,
	`^_fbp$`,
	`^_fbc$`,
	`^fr$`,
	`^_uetsid$`,
	`^_uetvid$`,
	`^MUID$`,
	`^_clck$`,
	`^_clsk$`,
	`^_hj`,
	`^ajs_(user|anonymous)_id$`,
	`^mp_.*_mixpanel$`,
	`^amp_`,
	`^_pk_(id|ses)`,
	`^_ym_`,
	`^_scid`,
	`^_pin_unauth$`,
	`^_ttp$`,
	`^personalization_id$`,
	`^guest_id`,
	`^li_sugr$`,
	`^bcookie$`,
	`^lidc$`,
	`^UserMatchHistory$`,
	`^AnalyticsSyncHistory$`,
	`^_rdt_uuid$`,
	`^__qca$`,
	`^uuid2$`,
	`^anj$`,
	`^_mkto_trk$`,
	`^hubspotutk$`,
	`^__hs(tc|sc|src)$`,
	`^_parsely_`,
	`^_chartbeat`,
	`^optimizely`,
	`^s_vi$`,
	`^AMCV_`,
	`^_fp(id|jsid)$`,
)

// essentialNamePatterns match cookie names that keep a site working:
// sessions, CSRF tokens, load balancer affinity and consent state.
var essentialNamePatterns = compileAll(
	`(?i)^(session|sess|sid|sessionid|session_id|_session_id)$`,
	`(?i)^(phpsessid|jsessionid|asp\.net_sessionid|connect\.sid|laravel_session)$`,
	`(?i)^(csrftoken|csrf_token|_csrf|xsrf-token|__requestverificationtoken)$`,
	`(?i)^(__host-|__secure-)`,
	`(?i)^(cf_clearance|__cf_bm|_cfuvid|awsalb|awsalbcors)$`,
	`(?i)^(cookieconsent_status|optanonconsent|optanonalertboxclosed|euconsent-v2|cookie_consent)$`,
	`(?i)^(auth|auth_token|access_token|remember_token|logged_in)$`,
)

// sensitiveKeywords mark domains where insecure cookies are dangerous.
var sensitiveKeywords = []string{
	"bank",
	"paypal",
	"stripe",
	"auth",
	"login",
	"account",
	"payment",
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}
