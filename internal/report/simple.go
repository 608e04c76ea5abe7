package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/privacyscan/internal/analyzer"
	"github.com/nao1215/privacyscan/internal/database"
	"github.com/nao1215/privacyscan/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors so the output can be piped to files or other tools.
type SimpleWriter struct {
	baseWriter

	// verbose lists every item of a high-risk entry and recommendation.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the session's analysis in human-readable format.
func (w *SimpleWriter) Write(session *model.ScanSession) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, session)
	if a := session.Analysis; a != nil {
		w.writeScore(&sb, a)
		w.writeBreakdown(&sb, a)
		w.writeCompanies(&sb, a)
		w.writeHighRisk(&sb, a)
		w.writeRecommendations(&sb, a)
	}
	w.writeErrors(&sb, session)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, session *model.ScanSession) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                        PRIVACYSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Target:     %s\n", session.Target)
	fmt.Fprintf(sb, "Scan Date:  %s\n", scanTime(session).Format(dateLayout))
	fmt.Fprintf(sb, "Status:     %s\n", statusText(session))
	if s := session.Snapshot; s != nil {
		fmt.Fprintf(sb, "Duration:   %d ms\n", s.Metadata.ScanDurationMs)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeScore(sb *strings.Builder, a *model.PrivacyAnalysisResult) {
	section(sb, "PRIVACY SCORE")

	fmt.Fprintf(sb, "  Score:  %d/100 (%s)\n\n", a.PrivacyScore.Score, a.ScoreRating)
	if len(a.PrivacyScore.Deductions) == 0 {
		sb.WriteString("  No deductions\n\n")
		return
	}
	for _, d := range a.PrivacyScore.Deductions {
		fmt.Fprintf(sb, "  %4d  %s\n", -d.Points, d.Description)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeBreakdown(sb *strings.Builder, a *model.PrivacyAnalysisResult) {
	section(sb, "COOKIES AND STORAGE")

	p := newPrinter()
	b := a.Breakdown
	sb.WriteString(p.Sprintf("  Cookies:         %d (%d first-party, %d third-party)\n", b.Total, b.FirstParty, b.ThirdParty))
	sb.WriteString(p.Sprintf("  Tracking ratio:  %s\n", formatPercent(b.TrackingRatio)))
	sb.WriteString(p.Sprintf("  Tracker sites:   %d\n", b.TrackerSites))
	sb.WriteString(p.Sprintf("  Long-lived:      %d (average lifetime %.1f days)\n", b.LongLivedCookies, b.AverageAgeDays))
	sb.WriteString("\n")

	for _, c := range model.AllCategories {
		sb.WriteString(p.Sprintf("  %-16s %d\n", categoryLabel(c)+":", b.ByCategory[c]))
	}
	sb.WriteString("\n")

	st := b.Storage
	fmt.Fprintf(sb, "  Per-tab storage: %s\n", formatBytes(st.KeyValueStoreABytes))
	fmt.Fprintf(sb, "  Shared storage:  %s\n", formatBytes(st.KeyValueStoreBBytes))
	sb.WriteString(p.Sprintf("  Databases:       %d (%d records)\n", st.DatabaseCount, st.DatabaseRecords))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeCompanies(sb *strings.Builder, a *model.PrivacyAnalysisResult) {
	if len(a.TrackerCompanies) == 0 {
		return
	}
	section(sb, "TRACKER COMPANIES")

	for _, tc := range a.TrackerCompanies {
		fmt.Fprintf(sb, "  %-20s %3d cookies  %s, %s risk\n",
			tc.Name, tc.CookieCount, categoryLabel(tc.Category), tc.Risk)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeHighRisk(sb *strings.Builder, a *model.PrivacyAnalysisResult) {
	if len(a.HighRiskItems) == 0 {
		return
	}
	section(sb, "HIGH-RISK ITEMS")

	for _, h := range a.HighRiskItems {
		fmt.Fprintf(sb, "[%s] %s: %s\n", severityIndicator(h.Severity), h.Severity, h.Title)
		fmt.Fprintf(sb, "    %s\n", h.Description)
		for _, item := range limitItems(h.Items, w.verbose) {
			fmt.Fprintf(sb, "    - %s\n", item)
		}
		sb.WriteString("\n")
	}
}

func (w *SimpleWriter) writeRecommendations(sb *strings.Builder, a *model.PrivacyAnalysisResult) {
	if len(a.Recommendations) == 0 {
		return
	}
	section(sb, "RECOMMENDATIONS")

	for i, r := range a.Recommendations {
		fmt.Fprintf(sb, "  %d. [%s] %s", i+1, r.Severity, r.Title)
		if r.Impact > 0 {
			fmt.Fprintf(sb, " (%s)", r.ImpactText)
		}
		sb.WriteString("\n")
		fmt.Fprintf(sb, "     %s\n", r.Description)
		if w.verbose && len(r.Items) > 0 {
			fmt.Fprintf(sb, "     Affected: %s\n", strings.Join(r.Items, ", "))
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeErrors(sb *strings.Builder, session *model.ScanSession) {
	if session.Snapshot == nil || !session.Snapshot.HasErrors() {
		return
	}
	section(sb, "COLLECTION ERRORS")

	for _, e := range session.Snapshot.Metadata.Errors {
		fmt.Fprintf(sb, "  * %s: %s\n", e.Source, e.Message)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by privacyscan\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}

// WriteComparison outputs the change between two scans.
func (w *SimpleWriter) WriteComparison(target string, c analyzer.Comparison) (int, error) {
	var sb strings.Builder

	section(&sb, "COMPARISON: "+target)
	fmt.Fprintf(&sb, "  Score:  %d -> %d (%s)\n", c.PreviousScore, c.CurrentScore, formatDelta(c.ScoreDelta))
	fmt.Fprintf(&sb, "  Rating: %s -> %s\n\n", c.PreviousRating, c.CurrentRating)

	for _, cat := range model.AllCategories {
		if d, ok := c.CategoryDelta[cat]; ok {
			fmt.Fprintf(&sb, "  %-16s %s\n", categoryLabel(cat)+":", formatDelta(d))
		}
	}
	if len(c.CategoryDelta) > 0 {
		sb.WriteString("\n")
	}

	writeFlagged(&sb, "New high-risk items", c.NewHighRisk)
	writeFlagged(&sb, "Resolved high-risk items", c.ResolvedHighRisk)
	fmt.Fprintf(&sb, "  New companies:  %s\n", joinOrDash(c.NewCompanies))
	fmt.Fprintf(&sb, "  Gone companies: %s\n", joinOrDash(c.GoneCompanies))

	return io.WriteString(w.output, sb.String())
}

func writeFlagged(sb *strings.Builder, title string, items []analyzer.FlaggedItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "  %s:\n", title)
	for _, f := range items {
		fmt.Fprintf(sb, "    - [%s] %s\n", f.Type, f.Item)
	}
	sb.WriteString("\n")
}

// WriteHistory outputs the saved scans of target.
func (w *SimpleWriter) WriteHistory(target string, records []database.ScanRecord) (int, error) {
	var sb strings.Builder

	section(&sb, "HISTORY: "+target)
	if len(records) == 0 {
		sb.WriteString("  No saved scans\n")
		return io.WriteString(w.output, sb.String())
	}

	fmt.Fprintf(&sb, "  %-5s %-24s %5s  %-9s %7s %8s\n", "ID", "SCANNED", "SCORE", "RATING", "COOKIES", "TRACKING")
	for _, r := range records {
		fmt.Fprintf(&sb, "  %-5d %-24s %5d  %-9s %7d %8d\n",
			r.ID, r.ScannedAt.Local().Format(dateLayout), r.Score, r.Rating, r.CookieCount, r.TrackingCookies)
	}
	return io.WriteString(w.output, sb.String())
}
