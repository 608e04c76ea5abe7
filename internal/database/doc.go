// Package database provides the SQLite scan history of privacyscan.
//
// Each saved row holds one analysis: the scanned target, when it was
// scanned, the score and rating, a SHA3-256 digest of the snapshot and the
// analysis as JSON. The snapshot itself is not stored, because it carries
// cookie values and storage keys of the scanned profile; the digest is
// enough to tell whether storage changed between two scans.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. The same driver reads Firefox and Chromium cookie databases
// 4. WAL mode provides good concurrent read performance
package database
