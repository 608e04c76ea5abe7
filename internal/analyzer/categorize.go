package analyzer

import (
	"github.com/nao1215/privacyscan/internal/model"
)

// Categorized holds classified cookies and their category buckets.
type Categorized struct {
	// Cookies are the classified copies in input order.
	Cookies []model.ClassifiedCookie

	// Buckets has an entry for every category, possibly empty.
	Buckets map[model.Category][]model.ClassifiedCookie
}

// Count returns the number of cookies in a category.
func (c *Categorized) Count(category model.Category) int {
	return len(c.Buckets[category])
}

// Counts returns the per-category counts, including zero counts.
func (c *Categorized) Counts() map[model.Category]int {
	out := make(map[model.Category]int, len(model.AllCategories))
	for _, category := range model.AllCategories {
		out[category] = len(c.Buckets[category])
	}
	return out
}

// CategorizeCookies classifies every cookie and puts it in exactly one bucket.
// Cookies on unknown domains land in unknown when flagged as tracking and in
// functional or essential otherwise.
func (a *Analyzer) CategorizeCookies(cookies []model.CookieRecord) *Categorized {
	cat := &Categorized{
		Cookies: make([]model.ClassifiedCookie, 0, len(cookies)),
		Buckets: make(map[model.Category][]model.ClassifiedCookie, len(model.AllCategories)),
	}
	for _, category := range model.AllCategories {
		cat.Buckets[category] = []model.ClassifiedCookie{}
	}
	for _, c := range cookies {
		cc := a.db.Classify(c)
		cat.Cookies = append(cat.Cookies, cc)
		cat.Buckets[cc.Category] = append(cat.Buckets[cc.Category], cc)
	}
	return cat
}
