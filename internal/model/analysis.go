package model

// Deduction types.
const (
	DeductionTracking          = "tracking"
	DeductionAdvertising       = "advertising"
	DeductionFingerprinting    = "fingerprinting"
	DeductionLongLived         = "long_lived"
	DeductionInsecureSensitive = "insecure_sensitive"
	DeductionExcessiveStorage  = "excessive_storage"
)

// High-risk item types.
const (
	HighRiskFingerprinting    = "fingerprinting"
	HighRiskExcessiveStorage  = "excessive_storage"
	HighRiskCrossSiteTracking = "cross_site_tracking"
	HighRiskInsecureSensitive = "insecure_sensitive"
)

// Recommendation action identifiers.
const (
	ActionRemoveAdvertising    = "remove_advertising"
	ActionRemoveFingerprinting = "remove_fingerprinting"
	ActionRemoveSocial         = "remove_social"
	ActionReduceAnalytics      = "reduce_analytics"
	ActionClearLongLived       = "clear_long_lived"
	ActionClearStorage         = "clear_storage"
	ActionSecureSensitive      = "secure_sensitive"
	ActionNone                 = "none"
)

// Score ratings.
const (
	RatingExcellent = "Excellent"
	RatingGood      = "Good"
	RatingFair      = "Fair"
	RatingPoor      = "Poor"
	RatingCritical  = "Critical"
)

// Score colors.
const (
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorRed    = "red"
)

// Deduction is a named, point-valued reduction of the privacy score.
type Deduction struct {
	Type        string   `json:"type"`
	Points      int      `json:"points"`
	Count       int      `json:"count"`
	Ratio       *float64 `json:"ratio,omitempty"`
	Description string   `json:"description"`
}

// PrivacyScoreResult is the score plus the deductions that produced it.
// It is deterministic for a given snapshot and classification table.
type PrivacyScoreResult struct {
	Score      int              `json:"score"`
	Deductions []Deduction      `json:"deductions"`
	Breakdown  map[Category]int `json:"breakdown"`
}

// TotalDeducted returns the sum of all deduction points.
func (r PrivacyScoreResult) TotalDeducted() int {
	total := 0
	for _, d := range r.Deductions {
		total += d.Points
	}
	return total
}

// Deduction returns the deduction of the given type, if applied.
func (r PrivacyScoreResult) Deduction(kind string) (Deduction, bool) {
	for _, d := range r.Deductions {
		if d.Type == kind {
			return d, true
		}
	}
	return Deduction{}, false
}

// StorageBreakdown summarizes key/value and database usage.
type StorageBreakdown struct {
	KeyValueStoreABytes int64 `json:"keyValueStoreABytes"`
	KeyValueStoreBBytes int64 `json:"keyValueStoreBBytes"`
	KeyValueKB          int64 `json:"keyValueKB"`
	DatabaseCount       int   `json:"databaseCount"`
	DatabaseRecords     int   `json:"databaseRecords"`
}

// Breakdown is the detailed cookie and storage breakdown.
type Breakdown struct {
	Total      int              `json:"total"`
	ByCategory map[Category]int `json:"byCategory"`
	FirstParty int              `json:"firstParty"`
	ThirdParty int              `json:"thirdParty"`

	// AverageAgeDays is the mean remaining lifetime of persistent,
	// non-expired cookies.
	AverageAgeDays float64 `json:"averageAgeDays"`

	// TrackingSurfaceArea is the number of distinct tracker domains seen.
	TrackingSurfaceArea int `json:"trackingSurfaceArea"`

	// TrackerSites is the number of distinct registrable domains among trackers.
	TrackerSites int `json:"trackerSites"`

	// TrackingRatio is the share of cookies classified as tracking.
	TrackingRatio float64 `json:"trackingRatio"`

	SessionCookies    int              `json:"sessionCookies"`
	PersistentCookies int              `json:"persistentCookies"`
	SecureCookies     int              `json:"secureCookies"`
	HTTPOnlyCookies   int              `json:"httpOnlyCookies"`
	LongLivedCookies  int              `json:"longLivedCookies"`
	Storage           StorageBreakdown `json:"storage"`
}

// Recommendation is an actionable suggestion with its estimated score impact.
type Recommendation struct {
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Action      string   `json:"action"`
	Impact      int      `json:"impact"`
	ImpactText  string   `json:"impactText"`
	Items       []string `json:"items,omitempty"`
}

// HighRiskItem is a flagged group of items that warrants attention.
type HighRiskItem struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Items       []string `json:"items"`
	Risk        Risk     `json:"risk"`
}

// TrackerCompany attributes tracking cookies to the company behind them.
type TrackerCompany struct {
	Name        string   `json:"name"`
	Domains     []string `json:"domains"`
	CookieCount int      `json:"cookieCount"`
	Category    Category `json:"category"`
	Risk        Risk     `json:"risk"`
}

// AnalysisMetadata describes the analysis run.
type AnalysisMetadata struct {
	AnalyzerVersion string      `json:"analyzerVersion"`
	SnapshotTime    string      `json:"snapshotTime,omitempty"`
	CookieCount     int         `json:"cookieCount"`
	ScanErrors      []ScanError `json:"scanErrors,omitempty"`
}

// PrivacyAnalysisResult is the full analysis of one snapshot.
type PrivacyAnalysisResult struct {
	PrivacyScore     PrivacyScoreResult `json:"privacyScore"`
	ScoreRating      string             `json:"scoreRating"`
	ScoreColor       string             `json:"scoreColor"`
	Breakdown        Breakdown          `json:"breakdown"`
	Recommendations  []Recommendation   `json:"recommendations"`
	HighRiskItems    []HighRiskItem     `json:"highRiskItems"`
	TrackerCompanies []TrackerCompany   `json:"trackerCompanies"`
	Timestamp        string             `json:"timestamp"`
	Metadata         AnalysisMetadata   `json:"metadata"`
}

// ScoreRating maps a score to its rating at thresholds 90/70/50/30.
func ScoreRating(score int) string {
	switch {
	case score >= 90:
		return RatingExcellent
	case score >= 70:
		return RatingGood
	case score >= 50:
		return RatingFair
	case score >= 30:
		return RatingPoor
	default:
		return RatingCritical
	}
}

// ScoreColor maps a score to its display color at thresholds 70/40.
func ScoreColor(score int) string {
	switch {
	case score >= 70:
		return ColorGreen
	case score >= 40:
		return ColorYellow
	default:
		return ColorRed
	}
}
