package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/privacyscan/internal/analyzer"
	"github.com/nao1215/privacyscan/internal/database"
	"github.com/nao1215/privacyscan/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// version is the tool version written into session reports.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// WithToolVersion sets the version recorded in session reports.
func WithToolVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport is the document written for one scan session.
//
// Design decision: We wrap the analysis rather than emitting the session
// because the session's snapshot holds cookie values; only its summary
// and errors are carried over.
type JSONReport struct {
	Version   string                       `json:"version,omitempty"`
	Target    string                       `json:"target"`
	ScannedAt time.Time                    `json:"scannedAt"`
	Status    string                       `json:"status"`
	Summary   *model.SnapshotSummary       `json:"summary,omitempty"`
	Errors    []model.ScanError            `json:"errors,omitempty"`
	Analysis  *model.PrivacyAnalysisResult `json:"analysis,omitempty"`
}

// NewJSONReport builds the report document for session.
func NewJSONReport(session *model.ScanSession, version string) *JSONReport {
	r := &JSONReport{
		Version:   version,
		Target:    session.Target,
		ScannedAt: scanTime(session),
		Status:    statusText(session),
		Analysis:  session.Analysis,
	}
	if s := session.Snapshot; s != nil {
		summary := s.Summary
		r.Summary = &summary
		r.Errors = s.Metadata.Errors
	}
	return r
}

// Write outputs the session report in JSON format.
func (w *JSONWriter) Write(session *model.ScanSession) (int, error) {
	return w.writeJSON(NewJSONReport(session, w.version))
}

// WriteComparison outputs the comparison in JSON format.
func (w *JSONWriter) WriteComparison(target string, c analyzer.Comparison) (int, error) {
	return w.writeJSON(struct {
		Target     string              `json:"target"`
		Comparison analyzer.Comparison `json:"comparison"`
	}{target, c})
}

// WriteHistory outputs the history in JSON format.
func (w *JSONWriter) WriteHistory(target string, records []database.ScanRecord) (int, error) {
	if records == nil {
		records = []database.ScanRecord{}
	}
	return w.writeJSON(struct {
		Target string                `json:"target"`
		Scans  []database.ScanRecord `json:"scans"`
	}{target, records})
}

// writeJSON marshals v and writes it with a trailing newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
