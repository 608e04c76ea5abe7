package browser

import (
	"context"
	"io"
)

// Cookie is a cookie as reported by a cookie store, before normalization.
type Cookie struct {
	Name     string
	Domain   string
	Path     string
	Value    string
	Secure   bool
	HTTPOnly bool

	// SameSite is the browser's policy string. Adapters map their native
	// encoding to no_restriction, lax, strict or unspecified.
	SameSite string

	// Session is true for cookies without an expiration.
	Session bool

	// ExpirationDate is the absolute expiration in epoch seconds, nil for
	// session cookies.
	ExpirationDate *float64

	// ValueSize is the byte length of the value when Value is withheld,
	// for example when the store only holds an encrypted blob.
	ValueSize int

	// StoreID identifies the cookie jar or container.
	StoreID string
}

// Tab is an open browser tab.
type Tab struct {
	ID       int
	URL      string
	Title    string
	WindowID int
}

// StorageArea selects which key/value store a script reads.
type StorageArea string

const (
	// AreaTab is key/value storage isolated per tab.
	AreaTab StorageArea = "tab"
	// AreaOrigin is key/value storage shared by all tabs of an origin.
	AreaOrigin StorageArea = "origin"
)

// StorageItem is one key of a key/value store with its size in bytes.
type StorageItem struct {
	Key  string
	Size int64
}

// DatabaseInfo names an embedded database of an origin.
type DatabaseInfo struct {
	Name    string
	Version int64
}

// Quota is a storage usage estimate.
type Quota struct {
	UsageBytes int64
	QuotaBytes int64
}

// CookieStore reads every cookie across all origins in one call.
type CookieStore interface {
	GetAllCookies(ctx context.Context) ([]Cookie, error)
}

// TabEnumerator lists open tabs.
type TabEnumerator interface {
	QueryTabs(ctx context.Context) ([]Tab, error)
}

// ScriptInjector runs a read-only script inside a tab's page context.
// Implementations may block indefinitely on a detached page.
type ScriptInjector interface {
	ReadStorage(ctx context.Context, tabID int, area StorageArea) ([]StorageItem, error)
}

// DatabaseHandle is an open embedded database.
type DatabaseHandle interface {
	Version() int64
	ObjectStoreNames() []string
	CountRecords(ctx context.Context, store string) (int64, error)
	io.Closer
}

// DatabaseProbe enumerates and opens embedded databases inside a tab.
type DatabaseProbe interface {
	ListDatabases(ctx context.Context, tabID int) ([]DatabaseInfo, error)
	OpenDatabase(ctx context.Context, tabID int, name string) (DatabaseHandle, error)
}

// QuotaEstimator returns a best-effort storage estimate.
type QuotaEstimator interface {
	Estimate(ctx context.Context) (Quota, error)
}

// Browser bundles the collaborators of one browsing session.
// Any field may be nil when the source lacks that capability.
type Browser struct {
	// Name describes the source, such as a profile path.
	Name string

	Cookies   CookieStore
	Tabs      TabEnumerator
	Scripts   ScriptInjector
	Databases DatabaseProbe
	Quota     QuotaEstimator
}
