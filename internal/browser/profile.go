package browser

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/privacyscan/internal/model"
)

// ProfileCookie is a cookie entry of a YAML profile.
type ProfileCookie struct {
	Name     string `yaml:"name"`
	Domain   string `yaml:"domain"`
	Path     string `yaml:"path"`
	Value    string `yaml:"value"`
	Secure   bool   `yaml:"secure"`
	HTTPOnly bool   `yaml:"httpOnly"`
	SameSite string `yaml:"sameSite"`

	// Expires is an absolute expiration. ExpiresIn is relative to the
	// profile clock. A cookie with neither is a session cookie.
	Expires   *time.Time    `yaml:"expires"`
	ExpiresIn time.Duration `yaml:"expiresIn"`

	StoreID string `yaml:"storeId"`
}

// ProfileItem is a key/value storage entry. Size overrides the computed
// size when set.
type ProfileItem struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
	Size  int64  `yaml:"size"`
}

// ProfileObjectStore is an object store with a fixed record count.
type ProfileObjectStore struct {
	Name    string `yaml:"name"`
	Records int64  `yaml:"records"`

	// Stall makes CountRecords block until its context ends.
	Stall bool `yaml:"stall"`
}

// ProfileDatabase is an embedded database of a tab's origin.
type ProfileDatabase struct {
	Name    string               `yaml:"name"`
	Version int64                `yaml:"version"`
	Stores  []ProfileObjectStore `yaml:"stores"`

	// Stall makes OpenDatabase block until its context ends.
	Stall bool `yaml:"stall"`
	// Fail makes OpenDatabase return an error.
	Fail bool `yaml:"fail"`
}

// ProfileTab is an open tab with its storage.
type ProfileTab struct {
	ID            int               `yaml:"id"`
	URL           string            `yaml:"url"`
	Title         string            `yaml:"title"`
	WindowID      int               `yaml:"window"`
	TabStorage    []ProfileItem     `yaml:"tabStorage"`
	OriginStorage []ProfileItem     `yaml:"originStorage"`
	Databases     []ProfileDatabase `yaml:"databases"`

	// Stall makes every script injection into this tab block until its
	// context ends.
	Stall bool `yaml:"stall"`
	// Fail makes every script injection into this tab return an error.
	Fail bool `yaml:"fail"`
}

// ProfileQuota is the quota reported by the profile.
type ProfileQuota struct {
	Usage int64 `yaml:"usage"`
	Quota int64 `yaml:"quota"`
}

// ProfileData is the YAML document of a profile.
type ProfileData struct {
	Cookies []ProfileCookie `yaml:"cookies"`
	Tabs    []ProfileTab    `yaml:"tabs"`
	Quota   *ProfileQuota   `yaml:"quota"`

	// FailCookies makes the bulk cookie read fail.
	FailCookies bool `yaml:"failCookies"`
}

// Profile is a browsing session described in YAML.
// It implements every collaborator interface of this package.
type Profile struct {
	data ProfileData
	tabs map[int]*ProfileTab
	now  func() time.Time
}

// ProfileOption configures a Profile.
type ProfileOption func(*Profile)

// WithProfileClock sets the clock that resolves relative expirations.
func WithProfileClock(now func() time.Time) ProfileOption {
	return func(p *Profile) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProfile builds a Profile from already decoded data.
func NewProfile(data ProfileData, opts ...ProfileOption) *Profile {
	p := &Profile{
		data: data,
		tabs: make(map[int]*ProfileTab, len(data.Tabs)),
		now:  time.Now,
	}
	for i := range p.data.Tabs {
		p.tabs[p.data.Tabs[i].ID] = &p.data.Tabs[i]
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseProfile decodes a YAML profile document.
func ParseProfile(raw []byte, opts ...ProfileOption) (*Profile, error) {
	var data ProfileData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	seen := make(map[int]struct{}, len(data.Tabs))
	for _, tab := range data.Tabs {
		if _, dup := seen[tab.ID]; dup {
			return nil, fmt.Errorf("failed to parse profile: duplicate tab id %d", tab.ID)
		}
		seen[tab.ID] = struct{}{}
	}
	return NewProfile(data, opts...), nil
}

// LoadProfile reads and decodes a YAML profile file.
func LoadProfile(path string, opts ...ProfileOption) (*Profile, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return ParseProfile(raw, opts...)
}

// Browser returns the collaborator bundle backed by this profile.
func (p *Profile) Browser(name string) *Browser {
	return &Browser{
		Name:      name,
		Cookies:   p,
		Tabs:      p,
		Scripts:   p,
		Databases: p,
		Quota:     p,
	}
}

// GetAllCookies returns the profile cookies.
func (p *Profile) GetAllCookies(_ context.Context) ([]Cookie, error) {
	if p.data.FailCookies {
		return nil, fmt.Errorf("%w: cookie store unavailable", ErrInjectionFailed)
	}
	now := p.now()
	out := make([]Cookie, 0, len(p.data.Cookies))
	for _, c := range p.data.Cookies {
		cookie := Cookie{
			Name:     c.Name,
			Domain:   c.Domain,
			Path:     c.Path,
			Value:    c.Value,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			SameSite: normalizeSameSite(c.SameSite),
			StoreID:  c.StoreID,
		}
		if cookie.Path == "" {
			cookie.Path = "/"
		}
		switch {
		case c.Expires != nil:
			sec := epochSeconds(*c.Expires)
			cookie.ExpirationDate = &sec
		case c.ExpiresIn != 0:
			sec := epochSeconds(now.Add(c.ExpiresIn))
			cookie.ExpirationDate = &sec
		default:
			cookie.Session = true
		}
		out = append(out, cookie)
	}
	return out, nil
}

// QueryTabs returns the profile tabs in document order.
func (p *Profile) QueryTabs(_ context.Context) ([]Tab, error) {
	out := make([]Tab, 0, len(p.data.Tabs))
	for _, t := range p.data.Tabs {
		out = append(out, Tab{ID: t.ID, URL: t.URL, Title: t.Title, WindowID: t.WindowID})
	}
	return out, nil
}

// ReadStorage returns the keys of a tab's key/value store.
func (p *Profile) ReadStorage(ctx context.Context, tabID int, area StorageArea) ([]StorageItem, error) {
	tab, err := p.injectable(ctx, tabID)
	if err != nil {
		return nil, err
	}

	var items []ProfileItem
	switch area {
	case AreaTab:
		items = tab.TabStorage
	case AreaOrigin:
		items = tab.OriginStorage
	default:
		return nil, fmt.Errorf("%w: unknown storage area %q", ErrInjectionFailed, area)
	}

	out := make([]StorageItem, 0, len(items))
	for _, it := range items {
		size := it.Size
		if size == 0 {
			// Page storage holds UTF-16 strings: two bytes per character.
			size = int64(utf8.RuneCountInString(it.Key)+utf8.RuneCountInString(it.Value)) * 2
		}
		out = append(out, StorageItem{Key: it.Key, Size: size})
	}
	return out, nil
}

// ListDatabases returns the databases of a tab's origin.
func (p *Profile) ListDatabases(ctx context.Context, tabID int) ([]DatabaseInfo, error) {
	tab, err := p.injectable(ctx, tabID)
	if err != nil {
		return nil, err
	}
	out := make([]DatabaseInfo, 0, len(tab.Databases))
	for _, db := range tab.Databases {
		out = append(out, DatabaseInfo{Name: db.Name, Version: db.Version})
	}
	return out, nil
}

// OpenDatabase opens a database of a tab's origin.
func (p *Profile) OpenDatabase(ctx context.Context, tabID int, name string) (DatabaseHandle, error) {
	tab, err := p.injectable(ctx, tabID)
	if err != nil {
		return nil, err
	}
	for i := range tab.Databases {
		db := &tab.Databases[i]
		if db.Name != name {
			continue
		}
		if db.Stall {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		if db.Fail {
			return nil, fmt.Errorf("%w: open %s blocked", ErrInjectionFailed, name)
		}
		return &profileHandle{db: db}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDatabase, name)
}

// Estimate returns the configured quota.
func (p *Profile) Estimate(_ context.Context) (Quota, error) {
	if p.data.Quota == nil {
		return Quota{}, fmt.Errorf("%w: no quota estimate", ErrInjectionFailed)
	}
	return Quota{UsageBytes: p.data.Quota.Usage, QuotaBytes: p.data.Quota.Quota}, nil
}

// injectable resolves a tab and applies its stall and fail flags.
func (p *Profile) injectable(ctx context.Context, tabID int) (*ProfileTab, error) {
	tab, ok := p.tabs[tabID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTab, tabID)
	}
	if tab.Stall {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if tab.Fail {
		return nil, fmt.Errorf("%w: tab %d", ErrInjectionFailed, tabID)
	}
	return tab, nil
}

type profileHandle struct {
	db *ProfileDatabase
}

func (h *profileHandle) Version() int64 { return h.db.Version }

func (h *profileHandle) ObjectStoreNames() []string {
	names := make([]string, 0, len(h.db.Stores))
	for _, s := range h.db.Stores {
		names = append(names, s.Name)
	}
	return names
}

func (h *profileHandle) CountRecords(ctx context.Context, store string) (int64, error) {
	for _, s := range h.db.Stores {
		if s.Name != store {
			continue
		}
		if s.Stall {
			<-ctx.Done()
			return 0, ctx.Err()
		}
		return s.Records, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownObjectStore, store)
}

func (h *profileHandle) Close() error { return nil }

func epochSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}

// normalizeSameSite maps the spellings browsers use to the model constants.
func normalizeSameSite(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "none", "no_restriction":
		return model.SameSiteNoRestriction
	case "lax":
		return model.SameSiteLax
	case "strict":
		return model.SameSiteStrict
	default:
		return model.SameSiteUnspecified
	}
}
