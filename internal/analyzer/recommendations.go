package analyzer

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/nao1215/privacyscan/internal/model"
)

// Per-item point weights used to estimate a recommendation's impact.
const (
	weightAdvertising    = 3
	weightFingerprinting = 5
	weightFacebook       = 2
	weightAnalytics      = 2
	weightInsecure       = 3

	// manyCookies is the count above which analytics and long-lived cookies
	// are worth a recommendation.
	manyCookies = 10
)

// GenerateRecommendations builds the ranked recommendation list.
// Entries are ordered by severity, then by descending impact. A
// positive-feedback entry leads the list when nothing else applies or the
// score is 90 or more.
func (a *Analyzer) GenerateRecommendations(cat *Categorized, snapshot *model.StorageSnapshot, score model.PrivacyScoreResult) []model.Recommendation {
	m := a.measure(cat, snapshot)
	recs := make([]model.Recommendation, 0, 8)

	add := func(action string, impact int, detail string, items []string) {
		info := model.GetFindingInfo(action)
		recs = append(recs, model.Recommendation{
			Severity:    info.Severity,
			Title:       info.Title,
			Description: detail + " " + info.Recommendation,
			Action:      action,
			Impact:      impact,
			ImpactText:  fmt.Sprintf("up to +%d points", impact),
			Items:       items,
		})
	}

	if n := len(m.fingerprinting); n > 0 {
		add(model.ActionRemoveFingerprinting, n*weightFingerprinting,
			fmt.Sprintf("%d fingerprinting cookies found.", n), cookieDomains(m.fingerprinting))
	}
	if n := len(m.advertising); n > 0 {
		add(model.ActionRemoveAdvertising, n*weightAdvertising,
			fmt.Sprintf("%d advertising cookies found.", n), cookieDomains(m.advertising))
	}
	if n := len(m.insecure); n > 0 {
		add(model.ActionSecureSensitive, n*weightInsecure,
			fmt.Sprintf("%d cookies on sensitive domains lack the Secure flag.", n), cookieLabels(m.insecure))
	}
	if n := len(m.facebook); n > 0 {
		add(model.ActionRemoveSocial, n*weightFacebook,
			fmt.Sprintf("%d Facebook tracking cookies found.", n), cookieDomains(m.facebook))
	}
	if n := len(m.analytics); n > manyCookies {
		add(model.ActionReduceAnalytics, n*weightAnalytics,
			fmt.Sprintf("%d analytics cookies found.", n), cookieDomains(m.analytics))
	}
	if n := len(m.longLived); n > manyCookies {
		add(model.ActionClearLongLived, n,
			fmt.Sprintf("%d cookies expire more than a year from now.", n), nil)
	}
	if m.storageUnits > 0 {
		add(model.ActionClearStorage, int(m.storageUnits),
			fmt.Sprintf("Sites keep %d KB in key/value storage.", m.storageKB), largestOrigins(snapshot, 5))
	}

	slices.SortStableFunc(recs, func(x, y model.Recommendation) int {
		if c := cmp.Compare(y.Severity, x.Severity); c != 0 {
			return c
		}
		return cmp.Compare(y.Impact, x.Impact)
	})

	if len(recs) == 0 || score.Score >= 90 {
		info := model.GetFindingInfo(model.ActionNone)
		positive := model.Recommendation{
			Severity:    info.Severity,
			Title:       info.Title,
			Description: info.Impact + " " + info.Recommendation,
			Action:      model.ActionNone,
			ImpactText:  "no action needed",
		}
		recs = append([]model.Recommendation{positive}, recs...)
	}
	return recs
}

// cookieDomains returns the sorted distinct domains of cookies.
func cookieDomains(cookies []model.ClassifiedCookie) []string {
	seen := make(map[string]struct{}, len(cookies))
	out := make([]string, 0, len(cookies))
	for _, c := range cookies {
		d := c.NormalizedDomain()
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// cookieLabels returns "name (domain)" for each cookie in input order.
func cookieLabels(cookies []model.ClassifiedCookie) []string {
	out := make([]string, len(cookies))
	for i, c := range cookies {
		out[i] = cookieLabel(c.CookieRecord)
	}
	return out
}

func cookieLabel(c model.CookieRecord) string {
	return c.Name + " (" + c.NormalizedDomain() + ")"
}

// largestOrigins returns up to n origins with the most key/value data
// across both stores.
func largestOrigins(snapshot *model.StorageSnapshot, n int) []string {
	sizes := make(map[string]int64)
	for d, e := range snapshot.StoreA().ByDomain {
		sizes[d] += e.TotalSizeBytes
	}
	for d, e := range snapshot.StoreB().ByDomain {
		sizes[d] += e.TotalSizeBytes
	}
	domains := make([]string, 0, len(sizes))
	for d := range sizes {
		domains = append(domains, d)
	}
	slices.SortFunc(domains, func(x, y string) int {
		if c := cmp.Compare(sizes[y], sizes[x]); c != 0 {
			return c
		}
		return cmp.Compare(x, y)
	})
	if len(domains) > n {
		domains = domains[:n]
	}
	return domains
}
