// Package collector gathers a browsing session's local storage into one
// StorageSnapshot.
//
// Four independent sources are scanned: the cookie store, the per-tab
// key/value store, the per-origin key/value store and the embedded
// databases. Each source runs under its own timeout tier and a failing or
// stalled source never prevents the others from completing:
//
//	master (ScanAll)          30s
//	  key/value, per tab       3s
//	  databases, per tab       5s
//	    open database          2s
//	    count object store     1s
//
// Every bounded call goes through Bounded, which always settles by its
// deadline and converts panics into errors. A stalled browser call is not
// waited for; its goroutine finishes on its own and its result is dropped.
//
// Design decision: Per-tab work fans out with errgroup and each tab writes
// into its own slice slot. Aggregation runs after all tabs settle, in tab
// order, so the snapshot is deterministic regardless of completion timing
// and no locking is needed.
//
// The public entry points never return an error for collaborator failures.
// Those are recorded in the snapshot metadata as ScanError entries.
package collector
