// Package trackerdb provides the tracking classification database.
//
// The Database is a static oracle: it maps a domain to a tracking category
// and risk tier, and a cookie to a tracking or non-tracking verdict, using
// curated domain lists and cookie-name pattern tables.
//
// # Category order
//
// Domain lists are checked in a fixed order: analytics, advertising, social,
// fingerprinting, essential. The first list that matches wins. A domain
// matches a list entry when it equals the entry or is a subdomain of it.
//
// This is the only classifier in privacyscan. Report writers and the
// analyzer all go through it so a cookie is never classified two ways.
//
// # Usage
//
//	db := trackerdb.New()
//	verdict := db.CategorizeCookie(cookie)
//
// The Database is immutable after New returns and safe for concurrent use.
package trackerdb
