package analyzer

import (
	"cmp"
	"slices"

	"github.com/nao1215/privacyscan/internal/model"
)

// FlaggedItem is one entry of a high-risk item, identified by its type.
type FlaggedItem struct {
	Type string `json:"type"`
	Item string `json:"item"`
}

// Comparison describes how the analysis of a target changed between two scans.
type Comparison struct {
	PreviousScore  int    `json:"previousScore"`
	CurrentScore   int    `json:"currentScore"`
	ScoreDelta     int    `json:"scoreDelta"`
	PreviousRating string `json:"previousRating"`
	CurrentRating  string `json:"currentRating"`

	// CategoryDelta is current minus previous cookie count per category.
	// Categories without change are omitted.
	CategoryDelta map[model.Category]int `json:"categoryDelta"`

	NewHighRisk      []FlaggedItem `json:"newHighRisk"`
	ResolvedHighRisk []FlaggedItem `json:"resolvedHighRisk"`
	NewCompanies     []string      `json:"newCompanies"`
	GoneCompanies    []string      `json:"goneCompanies"`
}

// Improved reports whether the score went up.
func (c Comparison) Improved() bool {
	return c.ScoreDelta > 0
}

// Compare returns the changes from prev to cur. Either may be nil, which is
// treated as an empty analysis with a perfect score.
func Compare(prev, cur *model.PrivacyAnalysisResult) Comparison {
	prev = orEmpty(prev)
	cur = orEmpty(cur)

	c := Comparison{
		PreviousScore:  prev.PrivacyScore.Score,
		CurrentScore:   cur.PrivacyScore.Score,
		ScoreDelta:     cur.PrivacyScore.Score - prev.PrivacyScore.Score,
		PreviousRating: prev.ScoreRating,
		CurrentRating:  cur.ScoreRating,
		CategoryDelta:  make(map[model.Category]int),
	}

	for _, category := range model.AllCategories {
		if d := cur.Breakdown.ByCategory[category] - prev.Breakdown.ByCategory[category]; d != 0 {
			c.CategoryDelta[category] = d
		}
	}

	before, after := flagged(prev), flagged(cur)
	c.NewHighRisk = difference(after, before, compareFlagged)
	c.ResolvedHighRisk = difference(before, after, compareFlagged)

	pc, cc := companyNames(prev), companyNames(cur)
	c.NewCompanies = difference(cc, pc, cmp.Compare[string])
	c.GoneCompanies = difference(pc, cc, cmp.Compare[string])
	return c
}

func orEmpty(r *model.PrivacyAnalysisResult) *model.PrivacyAnalysisResult {
	if r != nil {
		return r
	}
	return &model.PrivacyAnalysisResult{
		PrivacyScore: model.PrivacyScoreResult{Score: maxScore},
		ScoreRating:  model.ScoreRating(maxScore),
	}
}

func flagged(r *model.PrivacyAnalysisResult) map[FlaggedItem]struct{} {
	set := make(map[FlaggedItem]struct{})
	for _, h := range r.HighRiskItems {
		for _, item := range h.Items {
			set[FlaggedItem{Type: h.Type, Item: item}] = struct{}{}
		}
	}
	return set
}

func companyNames(r *model.PrivacyAnalysisResult) map[string]struct{} {
	set := make(map[string]struct{}, len(r.TrackerCompanies))
	for _, tc := range r.TrackerCompanies {
		set[tc.Name] = struct{}{}
	}
	return set
}

// difference returns the sorted members of a missing from b.
func difference[T comparable](a, b map[T]struct{}, compare func(x, y T) int) []T {
	var out []T
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	slices.SortFunc(out, compare)
	return out
}

func compareFlagged(x, y FlaggedItem) int {
	if c := cmp.Compare(x.Type, y.Type); c != 0 {
		return c
	}
	return cmp.Compare(x.Item, y.Item)
}
