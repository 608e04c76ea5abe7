// Package analyzer turns a StorageSnapshot into a privacy analysis.
//
// The analysis is a pure pipeline: cookies are classified against the
// tracking database, then the score, breakdown, recommendations, high-risk
// items and tracker companies are derived from the classified cookies and
// the snapshot's storage data. Nothing is written back to the snapshot.
//
// The score starts at 100 and loses points per deduction:
//
//	tracking          round(ratio*30 + min(10, log10(n+1)*3))
//	advertising       round(ratio*25 + min(10, log10(n+1)*4))
//	fingerprinting    round(ratio*20 + min(15, n*2))
//	long_lived        min(10, round(log10(n+1)*4))
//	insecure_sensitive min(15, n*3)
//	excessive_storage min(5, floor(KB/100))
//
// where ratio is n divided by the total cookie count. The result is clamped
// to [0, 100], so ten thousand fingerprinting cookies score 0, not a
// negative number.
//
// Design decision: High-risk checks are small Detector values run in
// registration order, following the same registry approach as the other
// analyzers in this codebase. Each detector is independent and a cookie may
// be flagged by several of them.
package analyzer
