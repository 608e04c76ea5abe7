package model

import (
	"strings"
	"time"
)

// SameSite policy values as reported by browsers.
const (
	SameSiteNoRestriction = "no_restriction"
	SameSiteLax           = "lax"
	SameSiteStrict        = "strict"
	SameSiteUnspecified   = "unspecified"
)

// CookieRecord is a normalized cookie. It is immutable once collected.
type CookieRecord struct {
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	Path     string `json:"path"`
	Value    string `json:"value"`
	Secure   bool   `json:"secure"`
	HTTPOnly bool   `json:"httpOnly"`
	SameSite string `json:"sameSite"`
	Session  bool   `json:"session"`

	// ExpirationDate is the absolute expiration in epoch seconds.
	// Nil for session cookies.
	ExpirationDate *float64 `json:"expirationDate,omitempty"`

	// Size is len(name)+len(value) in bytes.
	Size int64 `json:"size"`

	// StoreID identifies the cookie jar (profile or container) the cookie came from.
	StoreID string `json:"storeId,omitempty"`
}

// NormalizedDomain returns the cookie domain without a leading dot, lowercased.
func (c CookieRecord) NormalizedDomain() string {
	return NormalizeDomain(c.Domain)
}

// Expires returns the expiration time and true for persistent cookies.
func (c CookieRecord) Expires() (time.Time, bool) {
	if c.Session || c.ExpirationDate == nil {
		return time.Time{}, false
	}
	sec := *c.ExpirationDate
	whole := int64(sec)
	frac := int64((sec - float64(whole)) * float64(time.Second))
	return time.Unix(whole, frac), true
}

// LifetimeFrom returns how long the cookie lives after now.
// The second return value is false for session cookies.
func (c CookieRecord) LifetimeFrom(now time.Time) (time.Duration, bool) {
	exp, ok := c.Expires()
	if !ok {
		return 0, false
	}
	return exp.Sub(now), true
}

// NormalizeDomain strips a leading dot and lowercases the domain.
func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "."))
}

// CookieDomainStats aggregates the cookies set by one domain.
type CookieDomainStats struct {
	Domain      string   `json:"domain"`
	Count       int      `json:"count"`
	TotalSize   int64    `json:"totalSize"`
	HasSecure   bool     `json:"hasSecure"`
	HasHTTPOnly bool     `json:"hasHttpOnly"`
	Names       []string `json:"names"`
}

// CookieScan is the cookie portion of a snapshot.
type CookieScan struct {
	Items      []CookieRecord                `json:"items"`
	ByDomain   map[string]*CookieDomainStats `json:"byDomain"`
	TotalCount int                           `json:"totalCount"`
	TotalSize  int64                         `json:"totalSize"`
}

// NewCookieScan returns an empty cookie scan with non-nil collections.
func NewCookieScan() *CookieScan {
	return &CookieScan{
		Items:    []CookieRecord{},
		ByDomain: map[string]*CookieDomainStats{},
	}
}
