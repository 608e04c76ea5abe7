package analyzer

import (
	"cmp"
	"slices"

	"github.com/nao1215/privacyscan/internal/model"
)

// ComputeTrackerCompanies attributes tracking cookies to the companies
// behind them. Only cookies resolved to analytics, advertising, social or
// fingerprinting are attributed; cookie-name patterns win over domains.
func (a *Analyzer) ComputeTrackerCompanies(cat *Categorized) []model.TrackerCompany {
	byName := make(map[string]*model.TrackerCompany)
	domains := make(map[string]map[string]struct{})

	for _, c := range cat.Cookies {
		if !c.Category.IsTracking() {
			continue
		}
		company, ok := a.db.MatchCompany(c.Name, c.Domain)
		if !ok {
			continue
		}
		tc, ok := byName[company.Name]
		if !ok {
			tc = &model.TrackerCompany{
				Name:     company.Name,
				Category: company.Category,
				Risk:     company.Risk,
			}
			byName[company.Name] = tc
			domains[company.Name] = make(map[string]struct{})
		}
		tc.CookieCount++
		domains[company.Name][c.NormalizedDomain()] = struct{}{}
	}

	out := make([]model.TrackerCompany, 0, len(byName))
	for name, tc := range byName {
		tc.Domains = make([]string, 0, len(domains[name]))
		for d := range domains[name] {
			tc.Domains = append(tc.Domains, d)
		}
		slices.Sort(tc.Domains)
		out = append(out, *tc)
	}
	slices.SortFunc(out, func(x, y model.TrackerCompany) int {
		if c := cmp.Compare(y.CookieCount, x.CookieCount); c != 0 {
			return c
		}
		return cmp.Compare(x.Name, y.Name)
	})
	return out
}
