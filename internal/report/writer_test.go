package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/privacyscan/internal/analyzer"
	"github.com/nao1215/privacyscan/internal/database"
	"github.com/nao1215/privacyscan/internal/model"
)

func testSession() *model.ScanSession {
	ratio := 0.5
	return &model.ScanSession{
		Target:    "profile.yaml",
		StartedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Snapshot: &model.StorageSnapshot{
			Summary: model.SnapshotSummary{CookieCount: 4, UniqueDomains: 3, TotalSizeBytes: 1500000},
			Metadata: model.SnapshotMetadata{
				ScanTime:       "2025-06-01T12:00:00Z",
				ScanDurationMs: 42,
				Errors:         []model.ScanError{{Source: model.SourceDatabases, Message: "app.example (tab 3): timed out after 5s"}},
			},
		},
		Analysis: &model.PrivacyAnalysisResult{
			PrivacyScore: model.PrivacyScoreResult{
				Score: 64,
				Deductions: []model.Deduction{
					{Type: model.DeductionTracking, Points: 20, Count: 2, Ratio: &ratio, Description: "2 tracking cookies (50% of all cookies)"},
					{Type: model.DeductionAdvertising, Points: 16, Count: 2, Ratio: &ratio, Description: "2 advertising cookies (50% of all cookies)"},
				},
			},
			ScoreRating: model.ScoreRating(64),
			ScoreColor:  model.ScoreColor(64),
			Breakdown: model.Breakdown{
				Total:         4,
				ByCategory:    map[model.Category]int{model.CategoryAdvertising: 2, model.CategoryEssential: 2},
				TrackingRatio: 0.5,
				Storage:       model.StorageBreakdown{KeyValueStoreABytes: 2048, DatabaseCount: 1, DatabaseRecords: 1200},
			},
			Recommendations: []model.Recommendation{
				{Severity: model.SeverityHigh, Title: "Block advertising trackers", Description: "Use a content blocker.", Impact: 6, ImpactText: "up to +6 points", Items: []string{"doubleclick.net"}},
			},
			HighRiskItems: []model.HighRiskItem{
				{Type: model.HighRiskCrossSiteTracking, Severity: model.SeverityHigh, Title: "Cross-site tracking", Description: "doubleclick.net sets 3 cookies.", Items: []string{"a (doubleclick.net)", "b (doubleclick.net)", "c (doubleclick.net)", "d (doubleclick.net)", "e (doubleclick.net)", "f (doubleclick.net)", "g (doubleclick.net)"}, Risk: model.RiskHigh},
			},
			TrackerCompanies: []model.TrackerCompany{{Name: "Google", Domains: []string{"doubleclick.net"}, CookieCount: 2, Category: model.CategoryAdvertising, Risk: model.RiskHigh}},
		},
	}
}

func testComparison() analyzer.Comparison {
	return analyzer.Compare(
		&model.PrivacyAnalysisResult{PrivacyScore: model.PrivacyScoreResult{Score: 50}, ScoreRating: model.RatingFair,
			TrackerCompanies: []model.TrackerCompany{{Name: "Meta"}}},
		testSession().Analysis,
	)
}

// TestSimpleWriter tests the text report.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("session report", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(testSession()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()

		for _, want := range []string{
			"PRIVACYSCAN REPORT",
			"Target:     profile.yaml",
			"Complete with 1 collection errors",
			"Score:  64/100 (Fair)",
			"-20  2 tracking cookies",
			"Advertising:",
			"Tracking ratio:  50.0%",
			"Per-tab storage: 2.0 kB",
			"Databases:       1 (1,200 records)",
			"Google",
			"[!!] HIGH: Cross-site tracking",
			"... and 2 more",
			"1. [HIGH] Block advertising trackers (up to +6 points)",
			"databases: app.example (tab 3): timed out after 5s",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("verbose lists every item", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(testSession()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "g (doubleclick.net)") || strings.Contains(buf.String(), "more") {
			t.Error("expected every item in verbose output")
		}
		if !strings.Contains(buf.String(), "Affected: doubleclick.net") {
			t.Error("expected recommendation items in verbose output")
		}
	})

	t.Run("session without analysis", func(t *testing.T) {
		t.Parallel()
		s := model.NewScanSession("broken.yaml")
		s.ErrorMessage = "unsupported target"

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "ERROR - unsupported target") {
			t.Errorf("expected error status, got %q", buf.String())
		}
		if strings.Contains(buf.String(), "PRIVACY SCORE") {
			t.Error("expected no score section")
		}
	})

	t.Run("comparison and history", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		if _, err := w.WriteComparison("profile.yaml", testComparison()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := w.WriteHistory("profile.yaml", []database.ScanRecord{{ID: 7, Score: 64, Rating: "Fair", CookieCount: 4}}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		for _, want := range []string{"Score:  50 -> 64 (+14)", "New companies:  Google", "Gone companies: Meta", "HISTORY: profile.yaml", "Fair"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})
}

// TestJSONWriter tests the JSON report.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("session report omits cookie values", func(t *testing.T) {
		t.Parallel()
		s := testSession()
		s.Snapshot.Cookies = &model.CookieScan{Items: []model.CookieRecord{{Name: "sid", Domain: "example.com", Value: "s3cr3t-cookie-value"}}}

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint(), WithToolVersion("1.2.3")).Write(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "s3cr3t-cookie-value") {
			t.Error("cookie value leaked into JSON report")
		}

		var got JSONReport
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Version != "1.2.3" || got.Target != "profile.yaml" {
			t.Errorf("unexpected header %+v", got)
		}
		if got.Analysis == nil || got.Analysis.PrivacyScore.Score != 64 {
			t.Error("expected analysis with score 64")
		}
		if got.Summary == nil || got.Summary.CookieCount != 4 {
			t.Error("expected snapshot summary")
		}
		if len(got.Errors) != 1 {
			t.Errorf("expected 1 error, got %d", len(got.Errors))
		}
	})

	t.Run("empty history is an empty array", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteHistory("x.yaml", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"scans":[]`) {
			t.Errorf("expected empty scans array, got %q", buf.String())
		}
	})

	t.Run("comparison", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteComparison("x.yaml", testComparison()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"scoreDelta":14`) {
			t.Errorf("expected score delta, got %q", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown report.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)
	if _, err := w.Write(testSession()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Privacy Report",
		"## Privacy Score",
		"**64 / 100** (Fair)",
		"## Cookies by Category",
		"```mermaid",
		"## Tracker Companies",
		"Google",
		"## High-Risk Items",
		"## Recommendations",
		"## Collection Errors",
		"1.5 MB",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	if _, err := w.WriteComparison("profile.yaml", testComparison()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "# Privacy Comparison") || !strings.Contains(buf.String(), "+14") {
		t.Errorf("unexpected comparison output:\n%s", buf.String())
	}

	buf.Reset()
	if _, err := w.WriteHistory("profile.yaml", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No saved scans.") {
		t.Errorf("unexpected history output:\n%s", buf.String())
	}
}

type failingWriter struct{ *SimpleWriter }

func (failingWriter) Write(*model.ScanSession) (int, error) { return 0, errors.New("disk full") }

// TestMultiWriter tests fan-out and early stop.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	m := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))
	n, err := m.Write(testSession())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != a.Len()+b.Len() || a.Len() == 0 || b.Len() == 0 {
		t.Errorf("unexpected byte count %d (%d + %d)", n, a.Len(), b.Len())
	}

	var c bytes.Buffer
	m = NewMultiWriter(failingWriter{NewSimpleWriter(io.Discard)}, NewSimpleWriter(&c))
	if _, err := m.Write(testSession()); err == nil {
		t.Error("expected error")
	}
	if c.Len() != 0 {
		t.Error("expected writing to stop at the first error")
	}
}
