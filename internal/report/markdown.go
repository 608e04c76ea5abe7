package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/privacyscan/internal/analyzer"
	"github.com/nao1215/privacyscan/internal/database"
	"github.com/nao1215/privacyscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides tables, GitHub-flavored alerts and mermaid
// charts without hand-escaping.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the session's analysis in Markdown format.
func (w *MarkdownWriter) Write(session *model.ScanSession) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, session)
	if a := session.Analysis; a != nil {
		w.writeScore(md, a)
		w.writeCategories(md, a)
		w.writeCompanies(md, a)
		w.writeHighRisk(md, a)
		w.writeRecommendations(md, a)
	}
	w.writeErrors(md, session)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, session *model.ScanSession) {
	md.H1("Privacy Report")
	md.PlainText("")

	rows := [][]string{
		{"Target", "`" + session.Target + "`"},
		{"Scan Date", scanTime(session).Format(dateLayout)},
		{"Status", statusText(session)},
	}
	if s := session.Snapshot; s != nil {
		rows = append(rows,
			[]string{"Cookies", strconv.Itoa(s.Summary.CookieCount)},
			[]string{"Domains", strconv.Itoa(s.Summary.UniqueDomains)},
			[]string{"Stored Data", formatBytes(s.Summary.TotalSizeBytes)},
		)
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeScore(md *markdown.Markdown, a *model.PrivacyAnalysisResult) {
	md.H2("Privacy Score")
	md.PlainText("")
	md.PlainTextf("**%d / 100** (%s)", a.PrivacyScore.Score, a.ScoreRating)
	md.PlainText("")

	switch a.ScoreColor {
	case model.ColorRed:
		md.Cautionf("This profile carries heavy tracking. %d points were deducted.", a.PrivacyScore.TotalDeducted())
	case model.ColorYellow:
		md.Warningf("Tracking is noticeable. %d points were deducted.", a.PrivacyScore.TotalDeducted())
	default:
		if len(a.PrivacyScore.Deductions) == 0 {
			md.Tip("No tracking detected.")
		} else {
			md.Note("Minor tracking detected.")
		}
	}
	md.PlainText("")

	if len(a.PrivacyScore.Deductions) == 0 {
		return
	}
	rows := make([][]string, 0, len(a.PrivacyScore.Deductions))
	for _, d := range a.PrivacyScore.Deductions {
		rows = append(rows, []string{d.Type, strconv.Itoa(-d.Points), d.Description})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Deduction", "Points", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeCategories(md *markdown.Markdown, a *model.PrivacyAnalysisResult) {
	md.H2("Cookies by Category")
	md.PlainText("")

	p := newPrinter()
	rows := make([][]string, 0, len(model.AllCategories))
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Cookies by Category"),
		piechart.WithShowData(true),
	)
	charted := false
	for _, c := range model.AllCategories {
		n := a.Breakdown.ByCategory[c]
		rows = append(rows, []string{categoryLabel(c), p.Sprintf("%d", n)})
		if n > 0 {
			chart.LabelAndIntValue(categoryLabel(c), uint64(n))
			charted = true
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Cookies"},
		Rows:   rows,
	})
	md.PlainText("")

	if charted {
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	st := a.Breakdown.Storage
	md.BulletList(
		"Tracking ratio: "+formatPercent(a.Breakdown.TrackingRatio),
		"Long-lived cookies: "+strconv.Itoa(a.Breakdown.LongLivedCookies),
		"Per-tab storage: "+formatBytes(st.KeyValueStoreABytes),
		"Shared storage: "+formatBytes(st.KeyValueStoreBBytes),
		p.Sprintf("Databases: %d (%d records)", st.DatabaseCount, st.DatabaseRecords),
	)
	md.PlainText("")
}

func (w *MarkdownWriter) writeCompanies(md *markdown.Markdown, a *model.PrivacyAnalysisResult) {
	if len(a.TrackerCompanies) == 0 {
		return
	}
	md.H2("Tracker Companies")
	md.PlainText("")

	rows := make([][]string, 0, len(a.TrackerCompanies))
	for _, tc := range a.TrackerCompanies {
		rows = append(rows, []string{
			tc.Name,
			strconv.Itoa(tc.CookieCount),
			categoryLabel(tc.Category),
			string(tc.Risk),
			truncateString(joinOrDash(tc.Domains), 60),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Company", "Cookies", "Category", "Risk", "Domains"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeHighRisk(md *markdown.Markdown, a *model.PrivacyAnalysisResult) {
	if len(a.HighRiskItems) == 0 {
		return
	}
	md.H2("High-Risk Items")
	md.PlainText("")

	for _, h := range a.HighRiskItems {
		md.H3(fmt.Sprintf("%s (%s)", h.Title, h.Severity))
		md.PlainText("")
		md.PlainText(h.Description)
		md.PlainText("")
		md.BulletList(limitItems(h.Items, false)...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeRecommendations(md *markdown.Markdown, a *model.PrivacyAnalysisResult) {
	if len(a.Recommendations) == 0 {
		return
	}
	md.H2("Recommendations")
	md.PlainText("")

	rows := make([][]string, 0, len(a.Recommendations))
	for _, r := range a.Recommendations {
		impact := "-"
		if r.Impact > 0 {
			impact = r.ImpactText
		}
		rows = append(rows, []string{r.Severity.String(), r.Title, impact, truncateString(r.Description, 80)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Recommendation", "Impact", "Details"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeErrors(md *markdown.Markdown, session *model.ScanSession) {
	if session.Snapshot == nil || !session.Snapshot.HasErrors() {
		return
	}
	md.H2("Collection Errors")
	md.PlainText("")
	md.Importantf("%d parts of the scan did not complete; counts below may be partial.", len(session.Snapshot.Metadata.Errors))
	md.PlainText("")

	items := make([]string, 0, len(session.Snapshot.Metadata.Errors))
	for _, e := range session.Snapshot.Metadata.Errors {
		items = append(items, e.Source+": "+e.Message)
	}
	md.BulletList(items...)
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by privacyscan*")
}

// WriteComparison outputs the change between two scans in Markdown format.
func (w *MarkdownWriter) WriteComparison(target string, c analyzer.Comparison) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Privacy Comparison")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"", "Previous", "Current", "Change"},
		Rows: [][]string{
			{"Target", "`" + target + "`", "", ""},
			{"Score", strconv.Itoa(c.PreviousScore), strconv.Itoa(c.CurrentScore), formatDelta(c.ScoreDelta)},
			{"Rating", c.PreviousRating, c.CurrentRating, ""},
		},
	})
	md.PlainText("")

	if c.Improved() {
		md.Tip(fmt.Sprintf("Score improved by %d points.", c.ScoreDelta))
	} else if c.ScoreDelta < 0 {
		md.Warningf("Score dropped by %d points.", -c.ScoreDelta)
	}
	md.PlainText("")

	writeFlaggedMarkdown(md, "New High-Risk Items", c.NewHighRisk)
	writeFlaggedMarkdown(md, "Resolved High-Risk Items", c.ResolvedHighRisk)

	md.H2("Companies")
	md.PlainText("")
	md.BulletList(
		"New: "+joinOrDash(c.NewCompanies),
		"Gone: "+joinOrDash(c.GoneCompanies),
	)

	return len(md.String()), md.Build()
}

func writeFlaggedMarkdown(md *markdown.Markdown, title string, items []analyzer.FlaggedItem) {
	if len(items) == 0 {
		return
	}
	md.H2(title)
	md.PlainText("")
	rows := make([][]string, 0, len(items))
	for _, f := range items {
		rows = append(rows, []string{f.Type, f.Item})
	}
	md.Table(markdown.TableSet{Header: []string{"Type", "Item"}, Rows: rows})
	md.PlainText("")
}

// WriteHistory outputs the saved scans of target in Markdown format.
func (w *MarkdownWriter) WriteHistory(target string, records []database.ScanRecord) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Scan History")
	md.PlainText("")
	md.PlainTextf("Target: `%s`", target)
	md.PlainText("")

	if len(records) == 0 {
		md.PlainText("No saved scans.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.ScannedAt.Format(dateLayout),
			strconv.Itoa(r.Score),
			r.Rating,
			strconv.Itoa(r.CookieCount),
			strconv.Itoa(r.TrackingCookies),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Scanned", "Score", "Rating", "Cookies", "Tracking"},
		Rows:   rows,
	})
	return len(md.String()), md.Build()
}
