// Package log provides the structured logger of privacyscan, built on top of
// the standard slog package.
//
// A scan touches cookie values, web storage contents and authentication
// state of a real browser profile. None of that may reach a log file, so
// every logger returned by this package wraps its handler in a
// RedactingHandler:
//   - values of attributes named after storage payloads (cookie_value,
//     value, token, authorization, session) are masked
//   - values that look like credentials (JWTs, bearer tokens, long opaque
//     identifiers) are masked whatever their key
//   - profile paths under the user's home directory are shortened to "~"
//
// Cookie names, domains, tab ids and counts are logged as-is; they are
// what the scan reports anyway.
//
// # Usage
//
//	logger := log.New(os.Stderr, log.Options{Verbose: true})
//	logger.Debug("cookie read",
//	    "domain", "example.com",
//	    "cookie_value", "abc123", // logged as ***REDACTED***
//	)
package log
