package analyzer

import (
	"fmt"
	"math"

	"github.com/nao1215/privacyscan/internal/model"
)

// maxScore is the score of a profile with nothing to deduct.
const maxScore = 100

// CalculatePrivacyScore computes the 0 to 100 score and the deductions
// behind it. It is deterministic: the same input always yields the same
// score and deduction list.
func (a *Analyzer) CalculatePrivacyScore(cat *Categorized, snapshot *model.StorageSnapshot) model.PrivacyScoreResult {
	m := a.measure(cat, snapshot)
	deductions := make([]model.Deduction, 0, 6)

	if n := len(m.tracking); n > 0 {
		r := ratio(n, m.total)
		deductions = append(deductions, model.Deduction{
			Type:        model.DeductionTracking,
			Points:      roundInt(r*30 + math.Min(10, math.Log10(float64(n+1))*3)),
			Count:       n,
			Ratio:       &r,
			Description: fmt.Sprintf("%d tracking cookies (%.0f%% of all cookies)", n, r*100),
		})
	}

	if n := len(m.advertising); n > 0 {
		r := ratio(n, m.total)
		deductions = append(deductions, model.Deduction{
			Type:        model.DeductionAdvertising,
			Points:      roundInt(r*25 + math.Min(10, math.Log10(float64(n+1))*4)),
			Count:       n,
			Ratio:       &r,
			Description: fmt.Sprintf("%d advertising cookies (%.0f%% of all cookies)", n, r*100),
		})
	}

	if n := len(m.fingerprinting); n > 0 {
		r := ratio(n, m.total)
		deductions = append(deductions, model.Deduction{
			Type:        model.DeductionFingerprinting,
			Points:      roundInt(r*20 + math.Min(15, float64(n)*2)),
			Count:       n,
			Ratio:       &r,
			Description: fmt.Sprintf("%d fingerprinting cookies", n),
		})
	}

	if n := len(m.longLived); n > 0 {
		deductions = append(deductions, model.Deduction{
			Type:        model.DeductionLongLived,
			Points:      min(10, roundInt(math.Log10(float64(n+1))*4)),
			Count:       n,
			Description: fmt.Sprintf("%d cookies expire more than a year from now", n),
		})
	}

	if n := len(m.insecure); n > 0 {
		deductions = append(deductions, model.Deduction{
			Type:        model.DeductionInsecureSensitive,
			Points:      min(15, n*3),
			Count:       n,
			Description: fmt.Sprintf("%d cookies without the Secure flag on sensitive domains", n),
		})
	}

	if m.storageUnits > 0 {
		deductions = append(deductions, model.Deduction{
			Type:        model.DeductionExcessiveStorage,
			Points:      int(min(5, m.storageUnits)),
			Count:       int(m.storageUnits),
			Description: fmt.Sprintf("%d KB of key/value storage", m.storageKB),
		})
	}

	total := 0
	for _, d := range deductions {
		total += d.Points
	}

	return model.PrivacyScoreResult{
		Score:      clampScore(maxScore - total),
		Deductions: deductions,
		Breakdown:  cat.Counts(),
	}
}

func clampScore(v int) int {
	return max(0, min(maxScore, v))
}

// roundInt rounds half away from zero.
func roundInt(v float64) int {
	return int(math.Round(v))
}
