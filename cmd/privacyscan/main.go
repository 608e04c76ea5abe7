// Package main provides the entry point for the privacyscan CLI.
//
// privacyscan takes a snapshot of a browser profile's client-side storage
// (cookies, per-tab and shared key/value stores, databases), scores how
// much tracking it carries and explains what to clean up.
//
// Usage:
//
//	privacyscan scan profile.yaml
//	privacyscan scan firefox:~/.mozilla/firefox/abcd.default-release
//	privacyscan history
//	privacyscan compare profile.yaml
//
// See --help for all available options.
package main

// main is the entry point for privacyscan.
func main() {
	Execute()
}
