// Package model defines the core data structures used throughout privacyscan.
//
// This package contains the following main types:
//   - CookieRecord, DomainStorageEntry, DatabaseEntry: collected storage items
//   - StorageSnapshot: the immutable result of one scan pass
//   - Category, Risk, ClassifiedCookie: tracking classification
//   - PrivacyAnalysisResult: score, breakdown, recommendations and high-risk items
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The collector, analyzer, report and database packages all use
// these types, so centralizing them prevents import cycles.
//
// Field names in JSON output are part of a stable contract read by external
// consumers (UI, persistence). Do not rename them.
package model
