package browser

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/nao1215/privacyscan/internal/model"
)

func createSQLite(t *testing.T, path string, stmts ...string) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	for _, stmt := range stmts {
		if _, err := db.ExecContext(context.Background(), stmt); err != nil {
			t.Fatalf("failed to exec %q: %v", stmt, err)
		}
	}
}

// TestFirefoxCookies tests reading a Firefox cookie jar.
func TestFirefoxCookies(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	createSQLite(t, filepath.Join(dir, "cookies.sqlite"),
		`CREATE TABLE moz_cookies (
			id INTEGER PRIMARY KEY, originAttributes TEXT NOT NULL DEFAULT '',
			name TEXT, value TEXT, host TEXT, path TEXT, expiry INTEGER,
			isSecure INTEGER, isHttpOnly INTEGER, sameSite INTEGER)`,
		`INSERT INTO moz_cookies (name, value, host, path, expiry, isSecure, isHttpOnly, sameSite)
		 VALUES ('_ga', 'GA1.2', '.google-analytics.com', '/', 1893456000, 1, 0, 0)`,
		`INSERT INTO moz_cookies (name, value, host, path, expiry, isSecure, isHttpOnly, sameSite, originAttributes)
		 VALUES ('sid', 'abc', 'example.com', '/', 1893456000000, 0, 1, 2, '^userContextId=1')`,
	)

	cookies, err := NewFirefoxCookies(dir).GetAllCookies(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}

	// Rows are ordered by host.
	ga, sid := cookies[0], cookies[1]
	if ga.Name != "_ga" || !ga.Secure || ga.SameSite != model.SameSiteNoRestriction {
		t.Errorf("unexpected _ga cookie: %+v", ga)
	}
	if ga.ExpirationDate == nil || *ga.ExpirationDate != 1893456000 {
		t.Errorf("unexpected _ga expiration: %v", ga.ExpirationDate)
	}
	if sid.ExpirationDate == nil || *sid.ExpirationDate != 1893456000 {
		t.Errorf("expected millisecond expiry to be converted, got %v", sid.ExpirationDate)
	}
	if !sid.HTTPOnly || sid.SameSite != model.SameSiteStrict || sid.StoreID != "^userContextId=1" {
		t.Errorf("unexpected sid cookie: %+v", sid)
	}
}

// TestChromiumCookies tests reading a Chromium cookie database.
func TestChromiumCookies(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	createSQLite(t, filepath.Join(dir, "Cookies"),
		`CREATE TABLE cookies (
			host_key TEXT, name TEXT, value TEXT, encrypted_value BLOB, path TEXT,
			expires_utc INTEGER, is_secure INTEGER, is_httponly INTEGER,
			samesite INTEGER, is_persistent INTEGER)`,
		// 13356403200000000 microseconds since 1601 is 2024-04-01T00:00:00Z.
		`INSERT INTO cookies VALUES ('.doubleclick.net', 'IDE', '', X'763130AABBCCDD', '/',
			13356403200000000, 1, 1, 0, 1)`,
		`INSERT INTO cookies VALUES ('example.com', 'theme', 'dark', X'', '/', 0, 0, 0, -1, 0)`,
	)

	cookies, err := NewChromiumCookies(dir).GetAllCookies(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}

	ide, theme := cookies[0], cookies[1]
	if ide.ValueSize != 7 || ide.Value != "" {
		t.Errorf("expected encrypted value to be sized only, got %+v", ide)
	}
	if ide.ExpirationDate == nil || *ide.ExpirationDate != 1711929600 {
		t.Errorf("unexpected IDE expiration: %v", ide.ExpirationDate)
	}
	if ide.SameSite != model.SameSiteNoRestriction {
		t.Errorf("expected no_restriction, got %q", ide.SameSite)
	}
	if !theme.Session || theme.Value != "dark" || theme.SameSite != model.SameSiteUnspecified {
		t.Errorf("unexpected theme cookie: %+v", theme)
	}
}

// TestCookieDatabaseMissing tests the missing file error.
func TestCookieDatabaseMissing(t *testing.T) {
	t.Parallel()

	if _, err := NewFirefoxCookies(filepath.Join(t.TempDir(), "nope.sqlite")).GetAllCookies(context.Background()); err == nil {
		t.Error("expected error for missing database")
	}
}
