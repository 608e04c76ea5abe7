package model

// StorageKey is a single key in a key/value store with its size in bytes.
type StorageKey struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// DomainStorageEntry aggregates one origin's key/value storage.
type DomainStorageEntry struct {
	Domain         string       `json:"domain"`
	ItemCount      int          `json:"itemCount"`
	TotalSizeBytes int64        `json:"totalSizeBytes"`
	Keys           []StorageKey `json:"keys"`
}

// LargestKey returns the biggest key in the entry, or false when empty.
func (e *DomainStorageEntry) LargestKey() (StorageKey, bool) {
	if e == nil || len(e.Keys) == 0 {
		return StorageKey{}, false
	}
	largest := e.Keys[0]
	for _, k := range e.Keys[1:] {
		if k.Size > largest.Size {
			largest = k
		}
	}
	return largest, true
}

// TabStorageEntry is the key/value storage read from a single tab.
// The per-tab store keeps data separate for each tab of the same origin.
type TabStorageEntry struct {
	TabID          int          `json:"tabId"`
	URL            string       `json:"url"`
	Title          string       `json:"title,omitempty"`
	Domain         string       `json:"domain"`
	ItemCount      int          `json:"itemCount"`
	TotalSizeBytes int64        `json:"totalSizeBytes"`
	Keys           []StorageKey `json:"keys"`
}

// KeyValueScan is the result of scanning one key/value store flavor.
type KeyValueScan struct {
	ByDomain map[string]*DomainStorageEntry `json:"byDomain"`

	// ByTab is keyed by tab id and only populated for the per-tab store.
	ByTab map[string]*TabStorageEntry `json:"byTab,omitempty"`

	TotalItems  int      `json:"totalItems"`
	TotalSize   int64    `json:"totalSize"`
	TabsScanned int      `json:"tabsScanned"`
	TabsSkipped int      `json:"tabsSkipped"`
	TabsFailed  int      `json:"tabsFailed"`
	Errors      []string `json:"errors,omitempty"`
}

// NewKeyValueScan returns an empty scan. perTab controls whether ByTab is allocated.
func NewKeyValueScan(perTab bool) *KeyValueScan {
	s := &KeyValueScan{ByDomain: map[string]*DomainStorageEntry{}}
	if perTab {
		s.ByTab = map[string]*TabStorageEntry{}
	}
	return s
}

// ObjectStoreEntry is a named collection inside an embedded database.
type ObjectStoreEntry struct {
	Name        string `json:"name"`
	RecordCount int    `json:"recordCount"`
}

// DatabaseEntry describes one embedded per-origin database.
type DatabaseEntry struct {
	Domain        string             `json:"domain"`
	Name          string             `json:"name"`
	Version       int                `json:"version"`
	ObjectStores  []ObjectStoreEntry `json:"objectStores"`
	TotalRecords  int                `json:"totalRecords"`
	EstimatedSize int64              `json:"estimatedSize"`
}

// StoreNames returns the object store names of the database.
func (d DatabaseEntry) StoreNames() []string {
	names := make([]string, len(d.ObjectStores))
	for i, s := range d.ObjectStores {
		names[i] = s.Name
	}
	return names
}

// QuotaEstimate is a best-effort storage quota reading.
type QuotaEstimate struct {
	UsageBytes int64 `json:"usageBytes"`
	QuotaBytes int64 `json:"quotaBytes"`
}

// DatabaseScan is the result of scanning embedded databases.
type DatabaseScan struct {
	Databases      []DatabaseEntry `json:"databases"`
	ByDomain       map[string]int  `json:"byDomain"`
	TotalDatabases int             `json:"totalDatabases"`
	TotalRecords   int             `json:"totalRecords"`
	EstimatedSize  int64           `json:"estimatedSize"`
	Quota          *QuotaEstimate  `json:"quota,omitempty"`
	TabsScanned    int             `json:"tabsScanned"`
	TabsFailed     int             `json:"tabsFailed"`
	Errors         []string        `json:"errors,omitempty"`
}

// NewDatabaseScan returns an empty database scan.
func NewDatabaseScan() *DatabaseScan {
	return &DatabaseScan{
		Databases: []DatabaseEntry{},
		ByDomain:  map[string]int{},
	}
}
