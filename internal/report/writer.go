package report

import (
	"io"

	"github.com/nao1215/privacyscan/internal/analyzer"
	"github.com/nao1215/privacyscan/internal/database"
	"github.com/nao1215/privacyscan/internal/model"
)

// Writer defines the interface for report output.
// Implementations write scan results in various formats.
//
// Design decision: We use an interface so that the CLI picks a format
// once and hands the same value to every command.
type Writer interface {
	// Write outputs the analysis of one scan session.
	// Returns the number of bytes written and any error encountered.
	Write(session *model.ScanSession) (int, error)

	// WriteComparison outputs the change between two scans of target.
	WriteComparison(target string, c analyzer.Comparison) (int, error)

	// WriteHistory outputs the saved scans of target, newest first.
	WriteHistory(target string, records []database.ScanRecord) (int, error)
}

// MultiWriter writes to multiple Writers in order.
// It stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the session to all configured Writers.
func (m *MultiWriter) Write(session *model.ScanSession) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.Write(session) })
}

// WriteComparison outputs the comparison to all configured Writers.
func (m *MultiWriter) WriteComparison(target string, c analyzer.Comparison) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteComparison(target, c) })
}

// WriteHistory outputs the history to all configured Writers.
func (m *MultiWriter) WriteHistory(target string, records []database.ScanRecord) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteHistory(target, records) })
}

func (m *MultiWriter) each(fn func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := fn(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
