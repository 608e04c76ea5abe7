package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/privacyscan/internal/model"
)

// dateLayout is used for every timestamp shown to people.
const dateLayout = "2006-01-02 15:04:05 MST"

// maxListedItems caps the items shown per high-risk entry unless verbose.
const maxListedItems = 5

// categoryLabel returns "Advertising" for model.CategoryAdvertising.
// Casers are stateful, so one is created per call.
func categoryLabel(c model.Category) string {
	return cases.Title(language.English).String(string(c))
}

// newPrinter returns a printer that groups digits ("12,345").
func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

// formatBytes returns a human-readable size such as "1.2 MB".
func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// formatDelta returns "+5", "-3" or "0".
func formatDelta(d int) string {
	if d > 0 {
		return fmt.Sprintf("+%d", d)
	}
	return fmt.Sprintf("%d", d)
}

// formatPercent formats a 0..1 ratio as a percentage with one decimal.
func formatPercent(r float64) string {
	return fmt.Sprintf("%.1f%%", r*100)
}

// scanTime returns when session was scanned, preferring the snapshot's own time.
func scanTime(session *model.ScanSession) time.Time {
	if t := session.Snapshot.ScanTimeValue(); !t.IsZero() {
		return t
	}
	return session.StartedAt
}

// statusText describes how complete a session is.
func statusText(session *model.ScanSession) string {
	switch {
	case session.TimedOut:
		return "TIMED OUT (partial results)"
	case session.ErrorMessage != "":
		return "ERROR - " + session.ErrorMessage
	case session.Snapshot != nil && session.Snapshot.HasErrors():
		return fmt.Sprintf("Complete with %d collection errors", len(session.Snapshot.Metadata.Errors))
	default:
		return "Complete"
	}
}

// limitItems truncates items to maxListedItems with a trailing "... and N more".
func limitItems(items []string, verbose bool) []string {
	if verbose || len(items) <= maxListedItems {
		return items
	}
	out := append([]string(nil), items[:maxListedItems]...)
	return append(out, fmt.Sprintf("... and %d more", len(items)-maxListedItems))
}

// severityIndicator returns a visual indicator for the severity level.
func severityIndicator(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "!!!"
	case model.SeverityHigh:
		return "!!"
	case model.SeverityMedium:
		return "!"
	case model.SeverityLow:
		return "-"
	default:
		return "i"
	}
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// joinOrDash joins items, or returns "-" when there are none.
func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
