// Package browser defines the browser collaborators a storage scan reads from
// and provides adapters that implement them.
//
// A scan needs five capabilities: a bulk cookie read, tab enumeration, a
// read-only script injection into a tab, embedded database access inside a
// tab, and a storage quota estimate. Each capability is a small interface so
// that a platform adapter can implement only what it has. A cookie jar on
// disk, for example, has cookies but no tabs.
//
// Adapters shipped here:
//   - Profile: a YAML description of a browsing session. It implements every
//     collaborator and can simulate tabs that stall or fail, which makes it
//     the adapter used by tests and demos.
//   - FirefoxCookies: reads cookies.sqlite from a Firefox profile.
//   - ChromiumCookies: reads the Cookies database of a Chromium profile.
//     Encrypted values are sized but never decrypted.
//
// Design decision: Collaborators accept a context.Context but callers must not
// rely on them honoring it. Script injection into a detached or
// permission-denied page can stall indefinitely, so the collector bounds every
// call on its own instead of trusting cancellation.
package browser
