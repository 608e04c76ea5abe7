package browser

import "errors"

// Adapter errors.
var (
	// ErrUnsupported is returned by Open when the target does not name a
	// known adapter.
	ErrUnsupported = errors.New("unsupported browser target")

	// ErrUnknownTab is returned when a tab id does not exist in the session.
	ErrUnknownTab = errors.New("unknown tab")

	// ErrUnknownDatabase is returned when a tab has no database with the given name.
	ErrUnknownDatabase = errors.New("unknown database")

	// ErrUnknownObjectStore is returned when a database has no object store
	// with the given name.
	ErrUnknownObjectStore = errors.New("unknown object store")

	// ErrInjectionFailed is returned when a script cannot run in a tab,
	// for example because the page denies access.
	ErrInjectionFailed = errors.New("script injection failed")
)
