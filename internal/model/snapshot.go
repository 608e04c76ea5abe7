package model

import "time"

// Snapshot sources used to tag scan errors.
const (
	SourceCookies       = "cookies"
	SourceKeyValueStore = "keyValueStoreA"
	SourceSharedStore   = "keyValueStoreB"
	SourceDatabases     = "databases"
)

// SnapshotVersion is the schema version written into snapshot metadata.
const SnapshotVersion = "1.0"

// ScanError is a failure recorded for one subsystem.
type ScanError struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e ScanError) Error() string {
	return e.Source + ": " + e.Message
}

// SnapshotSummary holds cross-source totals.
type SnapshotSummary struct {
	TotalSizeBytes int64   `json:"totalSizeBytes"`
	TotalSizeMB    float64 `json:"totalSizeMB"`
	TotalSizeKB    float64 `json:"totalSizeKB"`
	TotalItems     int     `json:"totalItems"`
	CookieCount    int     `json:"cookieCount"`
	UniqueDomains  int     `json:"uniqueDomains"`
}

// SnapshotMetadata describes how and when a snapshot was taken.
type SnapshotMetadata struct {
	// ScanTime is the ISO-8601 start time of the scan.
	ScanTime       string `json:"scanTime"`
	ScanDurationMs int64  `json:"scanDurationMs"`
	Version        string `json:"version"`

	// Errors is nil (JSON null) when every subsystem succeeded.
	Errors []ScanError `json:"errors"`
}

// StorageSnapshot is the complete, immutable result of one scan pass.
// Consumers treat it as read-only; nothing downstream mutates it.
type StorageSnapshot struct {
	Cookies        *CookieScan      `json:"cookies"`
	KeyValueStoreA *KeyValueScan    `json:"keyValueStoreA"`
	KeyValueStoreB *KeyValueScan    `json:"keyValueStoreB"`
	Databases      *DatabaseScan    `json:"databases"`
	Summary        SnapshotSummary  `json:"summary"`
	Metadata       SnapshotMetadata `json:"metadata"`
}

// CookieItems returns the snapshot's cookies, or nil when absent.
func (s *StorageSnapshot) CookieItems() []CookieRecord {
	if s == nil || s.Cookies == nil {
		return nil
	}
	return s.Cookies.Items
}

// StoreA returns the per-tab key/value scan, or an empty one when absent.
func (s *StorageSnapshot) StoreA() *KeyValueScan {
	if s == nil || s.KeyValueStoreA == nil {
		return NewKeyValueScan(true)
	}
	return s.KeyValueStoreA
}

// StoreB returns the shared key/value scan, or an empty one when absent.
func (s *StorageSnapshot) StoreB() *KeyValueScan {
	if s == nil || s.KeyValueStoreB == nil {
		return NewKeyValueScan(false)
	}
	return s.KeyValueStoreB
}

// ScanTimeValue parses Metadata.ScanTime. It returns the zero time when unset.
func (s *StorageSnapshot) ScanTimeValue() time.Time {
	if s == nil || s.Metadata.ScanTime == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.Metadata.ScanTime)
	if err != nil {
		return time.Time{}
	}
	return t
}

// HasErrors reports whether any subsystem recorded an error.
func (s *StorageSnapshot) HasErrors() bool {
	return s != nil && len(s.Metadata.Errors) > 0
}

// ErrorsFor returns the errors tagged with source.
func (s *StorageSnapshot) ErrorsFor(source string) []ScanError {
	if s == nil {
		return nil
	}
	var out []ScanError
	for _, e := range s.Metadata.Errors {
		if e.Source == source {
			out = append(out, e)
		}
	}
	return out
}
