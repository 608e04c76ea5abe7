package analyzer

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/nao1215/privacyscan/internal/model"
	"github.com/nao1215/privacyscan/internal/trackerdb"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

func newTestAnalyzer(opts ...Option) *Analyzer {
	db := trackerdb.New(trackerdb.WithClock(clock))
	return New(db, append([]Option{WithClock(clock)}, opts...)...)
}

func expiresIn(d time.Duration) *float64 {
	v := float64(testNow.Add(d).Unix())
	return &v
}

const year = 365 * 24 * time.Hour

func snapshotOf(cookies ...model.CookieRecord) *model.StorageSnapshot {
	scan := model.NewCookieScan()
	for _, c := range cookies {
		if c.ExpirationDate == nil {
			c.Session = true
		}
		scan.Items = append(scan.Items, c)
		scan.TotalCount++
	}
	return &model.StorageSnapshot{
		Cookies:        scan,
		KeyValueStoreA: model.NewKeyValueScan(true),
		KeyValueStoreB: model.NewKeyValueScan(false),
		Databases:      model.NewDatabaseScan(),
		Metadata:       model.SnapshotMetadata{ScanTime: "2025-06-01T12:00:00Z", Version: model.SnapshotVersion},
	}
}

func mixedCookies() []model.CookieRecord {
	return []model.CookieRecord{
		{Name: "_ga", Domain: "google-analytics.com", ExpirationDate: expiresIn(2 * year)},
		{Name: "sessionid", Domain: "example.com", Secure: true, HTTPOnly: true, Session: true},
		{Name: "IDE", Domain: "doubleclick.net", ExpirationDate: expiresIn(year)},
	}
}

// TestAnalyzeMixedCookies tests the analytics, essential and advertising scenario.
func TestAnalyzeMixedCookies(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer()
	result := a.Analyze(snapshotOf(mixedCookies()...))

	wantBuckets := map[model.Category]int{
		model.CategoryAnalytics:   1,
		model.CategoryAdvertising: 1,
		model.CategoryEssential:   1,
	}
	for _, category := range model.AllCategories {
		if got := result.Breakdown.ByCategory[category]; got != wantBuckets[category] {
			t.Errorf("category %s: expected %d, got %d", category, wantBuckets[category], got)
		}
	}

	if got := result.Breakdown.TrackingRatio; math.Abs(got-2.0/3.0) > 0.001 {
		t.Errorf("expected tracking ratio 2/3, got %v", got)
	}

	score := result.PrivacyScore
	tracking, ok := score.Deduction(model.DeductionTracking)
	if !ok {
		t.Fatal("expected a tracking deduction")
	}
	if tracking.Points != 11 || tracking.Count != 1 {
		t.Errorf("unexpected tracking deduction: %+v", tracking)
	}
	advertising, ok := score.Deduction(model.DeductionAdvertising)
	if !ok {
		t.Fatal("expected an advertising deduction")
	}
	if advertising.Points != 10 {
		t.Errorf("expected 10 advertising points, got %d", advertising.Points)
	}
	if longLived, ok := score.Deduction(model.DeductionLongLived); !ok || longLived.Count != 1 || longLived.Points != 1 {
		t.Errorf("unexpected long-lived deduction: %+v", longLived)
	}
	if score.Score != 78 {
		t.Errorf("expected score 78, got %d", score.Score)
	}
	if result.ScoreRating != model.RatingGood || result.ScoreColor != model.ColorGreen {
		t.Errorf("unexpected rating %q color %q", result.ScoreRating, result.ScoreColor)
	}

	b := result.Breakdown
	if b.ThirdParty != 2 || b.FirstParty != 1 || b.TrackingSurfaceArea != 2 || b.TrackerSites != 2 {
		t.Errorf("unexpected party split: %+v", b)
	}
	if b.SessionCookies != 1 || b.PersistentCookies != 2 || b.LongLivedCookies != 1 {
		t.Errorf("unexpected lifetime counts: %+v", b)
	}
	if b.AverageAgeDays != 547.5 {
		t.Errorf("expected average age 547.5 days, got %v", b.AverageAgeDays)
	}

	if len(result.Recommendations) != 1 || result.Recommendations[0].Action != model.ActionRemoveAdvertising {
		t.Errorf("unexpected recommendations: %+v", result.Recommendations)
	}
	if len(result.HighRiskItems) != 0 {
		t.Errorf("expected no high-risk items, got %+v", result.HighRiskItems)
	}

	if len(result.TrackerCompanies) != 1 {
		t.Fatalf("expected one company, got %+v", result.TrackerCompanies)
	}
	google := result.TrackerCompanies[0]
	if google.Name != "Google" || google.CookieCount != 2 ||
		!slices.Equal(google.Domains, []string{"doubleclick.net", "google-analytics.com"}) {
		t.Errorf("unexpected company: %+v", google)
	}

	if result.Metadata.AnalyzerVersion != Version || result.Metadata.CookieCount != 3 ||
		result.Metadata.SnapshotTime != "2025-06-01T12:00:00Z" {
		t.Errorf("unexpected metadata: %+v", result.Metadata)
	}
	if result.Timestamp != "2025-06-01T12:00:00Z" {
		t.Errorf("unexpected timestamp %q", result.Timestamp)
	}
}

// TestAnalyzeEmptySnapshot tests the perfect score path.
func TestAnalyzeEmptySnapshot(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer()
	for name, snap := range map[string]*model.StorageSnapshot{
		"empty":   snapshotOf(),
		"nil":     nil,
		"partial": {Metadata: model.SnapshotMetadata{Version: model.SnapshotVersion}},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			result := a.Analyze(snap)
			if result.PrivacyScore.Score != 100 {
				t.Errorf("expected 100, got %d", result.PrivacyScore.Score)
			}
			if result.ScoreRating != model.RatingExcellent {
				t.Errorf("expected Excellent, got %q", result.ScoreRating)
			}
			if len(result.Recommendations) != 1 || result.Recommendations[0].Action != model.ActionNone {
				t.Errorf("expected a single positive recommendation, got %+v", result.Recommendations)
			}
			if result.HighRiskItems == nil || len(result.HighRiskItems) != 0 {
				t.Errorf("expected empty high-risk list, got %+v", result.HighRiskItems)
			}
			if result.TrackerCompanies == nil || len(result.PrivacyScore.Deductions) != 0 {
				t.Error("expected empty companies and deductions")
			}
		})
	}
}

// TestInsecureSensitiveCookie tests an insecure cookie on a bank domain.
func TestInsecureSensitiveCookie(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer()
	snap := snapshotOf(model.CookieRecord{Name: "auth_token", Domain: "bank-example.com", Secure: false})
	result := a.Analyze(snap)

	var found *model.HighRiskItem
	for i := range result.HighRiskItems {
		if result.HighRiskItems[i].Type == model.HighRiskInsecureSensitive {
			found = &result.HighRiskItems[i]
		}
	}
	if found == nil {
		t.Fatalf("expected an insecure_sensitive item, got %+v", result.HighRiskItems)
	}
	if !slices.Contains(found.Items, "auth_token (bank-example.com)") {
		t.Errorf("expected the cookie in the item, got %v", found.Items)
	}

	d, ok := result.PrivacyScore.Deduction(model.DeductionInsecureSensitive)
	if !ok || d.Points != 3 || d.Count != 1 {
		t.Errorf("unexpected deduction: %+v", d)
	}
	if result.PrivacyScore.Score != 97 {
		t.Errorf("expected 97, got %d", result.PrivacyScore.Score)
	}

	// Score is at least 90, so the positive entry leads.
	recs := result.Recommendations
	if len(recs) != 2 || recs[0].Action != model.ActionNone || recs[1].Action != model.ActionSecureSensitive {
		t.Errorf("unexpected recommendations: %+v", recs)
	}
}

// TestCrossSiteTracking tests five advertising cookies on one high-risk domain.
func TestCrossSiteTracking(t *testing.T) {
	t.Parallel()

	var cookies []model.CookieRecord
	for i := range 5 {
		cookies = append(cookies, model.CookieRecord{
			Name:           fmt.Sprintf("ad%d", i),
			Domain:         ".doubleclick.net",
			Secure:         true,
			ExpirationDate: expiresIn(30 * 24 * time.Hour),
		})
	}

	a := newTestAnalyzer()
	result := a.Analyze(snapshotOf(cookies...))

	var cross []model.HighRiskItem
	for _, it := range result.HighRiskItems {
		if it.Type == model.HighRiskCrossSiteTracking {
			cross = append(cross, it)
		}
	}
	if len(cross) != 1 || cross[0].Risk != model.RiskHigh || len(cross[0].Items) != 5 {
		t.Fatalf("expected one cross-site item with 5 cookies, got %+v", cross)
	}

	want := int(math.Round(1.0*25 + math.Min(10, math.Log10(6)*4)))
	d, ok := result.PrivacyScore.Deduction(model.DeductionAdvertising)
	if !ok || d.Points != want || d.Points != 28 {
		t.Errorf("expected advertising deduction %d, got %+v", want, d)
	}
	if _, ok := result.PrivacyScore.Deduction(model.DeductionTracking); ok {
		t.Error("expected no tracking deduction")
	}
	if result.PrivacyScore.Score != 72 {
		t.Errorf("expected 72, got %d", result.PrivacyScore.Score)
	}
}

// TestCrossSiteRequiresHighRisk tests that medium-risk domains are not flagged.
func TestCrossSiteRequiresHighRisk(t *testing.T) {
	t.Parallel()

	var cookies []model.CookieRecord
	for i := range 4 {
		cookies = append(cookies, model.CookieRecord{Name: fmt.Sprintf("c%d", i), Domain: "segment.io"})
	}
	result := newTestAnalyzer().Analyze(snapshotOf(cookies...))
	for _, it := range result.HighRiskItems {
		if it.Type == model.HighRiskCrossSiteTracking {
			t.Errorf("unexpected cross-site item: %+v", it)
		}
	}
}

// TestScoreBounds tests that the score stays in range for large inputs.
func TestScoreBounds(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer()
	for _, n := range []int{1, 10, 1000, 10000} {
		cookies := make([]model.CookieRecord, n)
		for i := range cookies {
			cookies[i] = model.CookieRecord{
				Name:           fmt.Sprintf("fp%d", i),
				Domain:         "fingerprint.com",
				ExpirationDate: expiresIn(3 * year),
			}
		}
		snap := snapshotOf(cookies...)
		cat := a.CategorizeCookies(snap.CookieItems())
		score := a.CalculatePrivacyScore(cat, snap)
		if score.Score < 0 || score.Score > 100 {
			t.Errorf("n=%d: score %d out of range", n, score.Score)
		}
		if n == 10000 {
			if fp, ok := score.Deduction(model.DeductionFingerprinting); !ok || fp.Points != 35 {
				t.Errorf("expected capped fingerprinting deduction 35, got %+v", fp)
			}
		}
	}

	if clampScore(-40) != 0 || clampScore(140) != 100 || clampScore(55) != 55 {
		t.Error("clampScore does not clamp to [0, 100]")
	}
}

// TestCalculatePrivacyScoreIdempotent tests repeated calls on the same input.
func TestCalculatePrivacyScoreIdempotent(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer()
	snap := snapshotOf(append(mixedCookies(),
		model.CookieRecord{Name: "_fbp", Domain: "facebook.com", ExpirationDate: expiresIn(90 * 24 * time.Hour)},
		model.CookieRecord{Name: "_fpid", Domain: "fpjs.io"},
	)...)

	cat := a.CategorizeCookies(snap.CookieItems())
	first := a.CalculatePrivacyScore(cat, snap)
	for range 5 {
		again := a.CalculatePrivacyScore(a.CategorizeCookies(snap.CookieItems()), snap)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("expected identical results, got %+v and %+v", first, again)
		}
	}
}

// TestCategorySumEqualsTotal tests that every cookie lands in one bucket.
func TestCategorySumEqualsTotal(t *testing.T) {
	t.Parallel()

	domains := []string{"google-analytics.com", "doubleclick.net", "facebook.com", "fingerprint.com",
		"paypal.com", "example.com", "shop.example", ".criteo.com"}
	names := []string{"_ga", "IDE", "_fbp", "sessionid", "theme", "uid", "csrftoken", "_hjid"}

	var cookies []model.CookieRecord
	for i, d := range domains {
		for j, n := range names {
			c := model.CookieRecord{Name: n, Domain: d}
			if (i+j)%3 == 0 {
				c.ExpirationDate = expiresIn(time.Duration(i+j) * 100 * 24 * time.Hour)
			}
			cookies = append(cookies, c)
		}
	}

	a := newTestAnalyzer()
	b := a.Analyze(snapshotOf(cookies...)).Breakdown
	sum := 0
	for _, n := range b.ByCategory {
		sum += n
	}
	if sum != len(cookies) || b.Total != len(cookies) {
		t.Errorf("expected category sum %d, got %d (total %d)", len(cookies), sum, b.Total)
	}
	if b.FirstParty+b.ThirdParty != len(cookies) {
		t.Error("expected first and third party counts to cover every cookie")
	}
}

// TestCategorizeDoesNotMutate tests that classification works on copies.
func TestCategorizeDoesNotMutate(t *testing.T) {
	t.Parallel()

	cookies := mixedCookies()
	before := slices.Clone(cookies)
	newTestAnalyzer().CategorizeCookies(cookies)
	if !reflect.DeepEqual(before, cookies) {
		t.Error("expected input cookies to be unchanged")
	}
}

// TestExcessiveStorage tests the storage detector and deduction.
func TestExcessiveStorage(t *testing.T) {
	t.Parallel()

	snap := snapshotOf()
	snap.KeyValueStoreB.ByDomain["app.example"] = &model.DomainStorageEntry{
		Domain:         "app.example",
		ItemCount:      3,
		TotalSizeBytes: 1200 * 1024,
		Keys: []model.StorageKey{
			{Key: "cache", Size: 900 * 1024},
			{Key: "state", Size: 200 * 1024},
			{Key: "prefs", Size: 100 * 1024},
		},
	}
	snap.KeyValueStoreB.TotalSize = 1200 * 1024
	// Large total but no single oversized item.
	snap.KeyValueStoreA.ByDomain["many.example"] = &model.DomainStorageEntry{
		Domain:         "many.example",
		TotalSizeBytes: 2 * 1024 * 1024,
		Keys:           []model.StorageKey{{Key: "a", Size: 50 * 1024}},
	}

	a := newTestAnalyzer()
	result := a.Analyze(snap)

	if len(result.HighRiskItems) != 1 {
		t.Fatalf("expected one storage item, got %+v", result.HighRiskItems)
	}
	item := result.HighRiskItems[0]
	if item.Type != model.HighRiskExcessiveStorage || !slices.Equal(item.Items, []string{"cache (900 KB)", "state (200 KB)"}) {
		t.Errorf("unexpected item: %+v", item)
	}

	d, ok := result.PrivacyScore.Deduction(model.DeductionExcessiveStorage)
	if !ok || d.Points != 5 || d.Count != 12 {
		t.Errorf("unexpected storage deduction: %+v", d)
	}
	if result.Breakdown.Storage.KeyValueKB != 1200 {
		t.Errorf("expected 1200 KB, got %d", result.Breakdown.Storage.KeyValueKB)
	}

	var storageRec *model.Recommendation
	for i := range result.Recommendations {
		if result.Recommendations[i].Action == model.ActionClearStorage {
			storageRec = &result.Recommendations[i]
		}
	}
	if storageRec == nil || storageRec.Impact != 12 || !slices.Equal(storageRec.Items, []string{"many.example", "app.example"}) {
		t.Errorf("unexpected storage recommendation: %+v", storageRec)
	}
}

// TestRecommendationOrder tests severity then impact ordering.
func TestRecommendationOrder(t *testing.T) {
	t.Parallel()

	var cookies []model.CookieRecord
	add := func(n int, name, domain string, secure bool) {
		for i := range n {
			cookies = append(cookies, model.CookieRecord{Name: fmt.Sprintf("%s%d", name, i), Domain: domain, Secure: secure})
		}
	}
	add(2, "fp", "fingerprint.com", true)
	add(4, "ad", "criteo.com", true)
	add(2, "sess", "login.example", false)
	add(12, "_ga", "google-analytics.com", true)
	add(1, "_fbp", "facebook.com", true)

	recs := newTestAnalyzer().Analyze(snapshotOf(cookies...)).Recommendations

	var actions []string
	for _, r := range recs {
		actions = append(actions, r.Action)
	}
	want := []string{
		model.ActionRemoveFingerprinting, // critical, 10
		model.ActionRemoveAdvertising,    // high, 12
		model.ActionSecureSensitive,      // high, 6
		model.ActionReduceAnalytics,      // medium, 24
		model.ActionRemoveSocial,         // medium, 2
	}
	if !slices.Equal(actions, want) {
		t.Errorf("expected %v, got %v", want, actions)
	}
	if recs[1].ImpactText != "up to +12 points" {
		t.Errorf("unexpected impact text %q", recs[1].ImpactText)
	}
}

// TestTrackerCompanies tests company attribution rules.
func TestTrackerCompanies(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer()
	cat := a.CategorizeCookies([]model.CookieRecord{
		{Name: "_fbp", Domain: ".facebook.com"},
		{Name: "fr", Domain: "facebook.com"},
		{Name: "_ga", Domain: "google-analytics.com"},
		// Essential domain: never attributed even with a Google name.
		{Name: "_ga", Domain: "paypal.com"},
		// Tracking name on an unknown domain resolves to unknown.
		{Name: "_hjid", Domain: "shop.example"},
	})
	companies := a.ComputeTrackerCompanies(cat)

	if len(companies) != 2 {
		t.Fatalf("expected 2 companies, got %+v", companies)
	}
	if companies[0].Name != "Meta" || companies[0].CookieCount != 2 || companies[0].Risk != model.RiskHigh {
		t.Errorf("unexpected first company: %+v", companies[0])
	}
	if companies[1].Name != "Google" || companies[1].CookieCount != 1 {
		t.Errorf("unexpected second company: %+v", companies[1])
	}
}

type staticDetector struct{}

func (staticDetector) Name() string { return "static" }

func (staticDetector) Detect(DetectInput) []model.HighRiskItem {
	return []model.HighRiskItem{{Type: "custom", Risk: model.RiskLow}}
}

// TestWithDetector tests that custom detectors run after the built-in ones.
func TestWithDetector(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(WithDetector(staticDetector{}))
	items := a.Analyze(snapshotOf(model.CookieRecord{Name: "_fpid", Domain: "fpjs.io"})).HighRiskItems
	if len(items) != 2 || items[0].Type != model.HighRiskFingerprinting || items[1].Type != "custom" {
		t.Errorf("unexpected items: %+v", items)
	}
	if items[0].Risk != model.RiskCritical || items[0].Severity != model.SeverityCritical {
		t.Errorf("unexpected fingerprinting item: %+v", items[0])
	}
}

func findRecommendation(recs []model.Recommendation, action string) *model.Recommendation {
	for i := range recs {
		if recs[i].Action == action {
			return &recs[i]
		}
	}
	return nil
}

// TestCountThresholdRecommendations tests that analytics and long-lived
// cookies are only worth a recommendation above ten.
func TestCountThresholdRecommendations(t *testing.T) {
	t.Parallel()

	longLived := func(n int) []model.CookieRecord {
		cookies := make([]model.CookieRecord, 0, n)
		for i := range n {
			cookies = append(cookies, model.CookieRecord{
				Name:           fmt.Sprintf("pref%d", i),
				Domain:         "example.org",
				Secure:         true,
				ExpirationDate: expiresIn(2 * year),
			})
		}
		return cookies
	}
	analytics := func(n int) []model.CookieRecord {
		cookies := make([]model.CookieRecord, 0, n)
		for i := range n {
			cookies = append(cookies, model.CookieRecord{
				Name:   fmt.Sprintf("_ga_%d", i),
				Domain: "google-analytics.com",
				Secure: true,
			})
		}
		return cookies
	}

	tests := []struct {
		name       string
		cookies    []model.CookieRecord
		action     string
		wantImpact int // 0 means no recommendation
	}{
		{name: "ten long-lived cookies", cookies: longLived(10), action: model.ActionClearLongLived},
		{name: "eleven long-lived cookies", cookies: longLived(11), action: model.ActionClearLongLived, wantImpact: 11},
		{name: "ten analytics cookies", cookies: analytics(10), action: model.ActionReduceAnalytics},
		{name: "eleven analytics cookies", cookies: analytics(11), action: model.ActionReduceAnalytics, wantImpact: 11 * weightAnalytics},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			recs := newTestAnalyzer().Analyze(snapshotOf(tt.cookies...)).Recommendations
			rec := findRecommendation(recs, tt.action)
			if tt.wantImpact == 0 {
				if rec != nil {
					t.Errorf("expected no %s recommendation, got %+v", tt.action, rec)
				}
				return
			}
			if rec == nil {
				t.Fatalf("expected %s recommendation, got %+v", tt.action, recs)
			}
			if rec.Impact != tt.wantImpact {
				t.Errorf("expected impact %d, got %d", tt.wantImpact, rec.Impact)
			}
		})
	}
}

// TestNewSharesClockWithDefaultDatabase tests that the built-in tracker
// lists judge expiry against the analyzer's clock.
func TestNewSharesClockWithDefaultDatabase(t *testing.T) {
	t.Parallel()

	// Long-lived at testNow, already expired by the wall clock.
	c := model.CookieRecord{Name: "segment", Domain: "criteo.com", ExpirationDate: expiresIn(year + 35*24*time.Hour)}

	cat := New(nil, WithClock(clock)).CategorizeCookies([]model.CookieRecord{c})
	if len(cat.Cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cat.Cookies))
	}
	if !cat.Cookies[0].IsTracking {
		t.Error("expected a long-lived tracker cookie to be flagged as tracking")
	}
}
