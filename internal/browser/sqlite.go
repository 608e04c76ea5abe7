package browser

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/privacyscan/internal/model"
)

const (
	// firefoxMillisThreshold separates second and millisecond expiry values.
	// Recent Firefox versions store moz_cookies.expiry in milliseconds;
	// 1e11 seconds is far past any real cookie lifetime.
	firefoxMillisThreshold = 1e11

	// chromiumEpochOffset is the number of seconds between 1601-01-01 and
	// the Unix epoch. Chromium stores expires_utc as microseconds since 1601.
	chromiumEpochOffset = 11644473600
)

// FirefoxCookies reads cookies from a Firefox cookies.sqlite file.
type FirefoxCookies struct {
	path string
}

// NewFirefoxCookies returns a reader for path, which is either the
// cookies.sqlite file or the profile directory containing it.
func NewFirefoxCookies(path string) *FirefoxCookies {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, "cookies.sqlite")
	}
	return &FirefoxCookies{path: path}
}

// GetAllCookies returns every row of moz_cookies.
func (f *FirefoxCookies) GetAllCookies(ctx context.Context) ([]Cookie, error) {
	db, err := openReadOnly(f.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, `
		SELECT name, value, host, path, expiry, isSecure, isHttpOnly, sameSite, originAttributes
		FROM moz_cookies
		ORDER BY host, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query moz_cookies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cookies []Cookie
	for rows.Next() {
		var (
			c                Cookie
			expiry           int64
			secure, httpOnly int
			sameSite         int
		)
		if err := rows.Scan(&c.Name, &c.Value, &c.Domain, &c.Path, &expiry,
			&secure, &httpOnly, &sameSite, &c.StoreID); err != nil {
			return nil, fmt.Errorf("failed to scan cookie row: %w", err)
		}
		c.Secure = secure != 0
		c.HTTPOnly = httpOnly != 0
		c.SameSite = firefoxSameSite(sameSite)
		if expiry <= 0 {
			c.Session = true
		} else {
			sec := float64(expiry)
			if sec > firefoxMillisThreshold {
				sec /= 1000
			}
			c.ExpirationDate = &sec
		}
		cookies = append(cookies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cookie rows: %w", err)
	}
	return cookies, nil
}

// ChromiumCookies reads cookies from a Chromium Cookies database.
type ChromiumCookies struct {
	path string
}

// NewChromiumCookies returns a reader for path, which is either the Cookies
// file or a profile directory holding Cookies or Network/Cookies.
func NewChromiumCookies(path string) *ChromiumCookies {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		candidate := filepath.Join(path, "Network", "Cookies")
		if _, err := os.Stat(candidate); err != nil {
			candidate = filepath.Join(path, "Cookies")
		}
		path = candidate
	}
	return &ChromiumCookies{path: path}
}

// GetAllCookies returns every row of the cookies table.
// Values are encrypted on most platforms; their size is reported through
// Cookie.ValueSize and the value itself is left empty.
func (c *ChromiumCookies) GetAllCookies(ctx context.Context) ([]Cookie, error) {
	db, err := openReadOnly(c.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, `
		SELECT host_key, name, value, length(encrypted_value), path, expires_utc,
		       is_secure, is_httponly, samesite, is_persistent
		FROM cookies
		ORDER BY host_key, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cookies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cookies []Cookie
	for rows.Next() {
		var (
			ck                           Cookie
			encryptedLen                 sql.NullInt64
			expiresUTC                   int64
			secure, httpOnly, persistent int
			sameSite                     int
		)
		if err := rows.Scan(&ck.Domain, &ck.Name, &ck.Value, &encryptedLen, &ck.Path,
			&expiresUTC, &secure, &httpOnly, &sameSite, &persistent); err != nil {
			return nil, fmt.Errorf("failed to scan cookie row: %w", err)
		}
		ck.Secure = secure != 0
		ck.HTTPOnly = httpOnly != 0
		ck.SameSite = chromiumSameSite(sameSite)
		if ck.Value == "" && encryptedLen.Valid {
			ck.ValueSize = int(encryptedLen.Int64)
		}
		if persistent == 0 || expiresUTC == 0 {
			ck.Session = true
		} else {
			sec := float64(expiresUTC)/float64(time.Second/time.Microsecond) - chromiumEpochOffset
			ck.ExpirationDate = &sec
		}
		cookies = append(cookies, ck)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cookie rows: %w", err)
	}
	return cookies, nil
}

// openReadOnly opens an existing SQLite file without creating or writing it.
func openReadOnly(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cookie database not found at %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open cookie database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// firefoxSameSite maps moz_cookies.sameSite (0 none, 1 lax, 2 strict).
func firefoxSameSite(v int) string {
	switch v {
	case 0:
		return model.SameSiteNoRestriction
	case 1:
		return model.SameSiteLax
	case 2:
		return model.SameSiteStrict
	default:
		return model.SameSiteUnspecified
	}
}

// chromiumSameSite maps cookies.samesite (-1 unspecified, 0 none, 1 lax, 2 strict).
func chromiumSameSite(v int) string {
	switch v {
	case 0:
		return model.SameSiteNoRestriction
	case 1:
		return model.SameSiteLax
	case 2:
		return model.SameSiteStrict
	default:
		return model.SameSiteUnspecified
	}
}
