// Package report renders privacy analyses for people and tools.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown with tables, alerts and a mermaid chart
//
// Every writer renders three things: the analysis of one scan session,
// the comparison of the two latest scans of a target, and the saved
// history of a target.
//
// Reports never contain cookie values or storage contents. They show
// names, domains, counts and sizes only, so a report can be shared
// without leaking the session state of the scanned profile.
//
// Design decision: We separate report writing from the analysis data
// structures (which are in the model package) so that adding an output
// format does not touch the engine.
package report
