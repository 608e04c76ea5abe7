package browser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Open resolves a scan target into a Browser.
//
// Accepted targets:
//   - a path ending in .yaml or .yml: a Profile document
//   - firefox:<path>: a Firefox profile directory or cookies.sqlite
//   - chromium:<path>: a Chromium profile directory or Cookies file
func Open(target string, opts ...ProfileOption) (*Browser, error) {
	switch {
	case strings.HasPrefix(target, "firefox:"):
		path := strings.TrimPrefix(target, "firefox:")
		return &Browser{Name: target, Cookies: NewFirefoxCookies(path)}, nil
	case strings.HasPrefix(target, "chromium:"):
		path := strings.TrimPrefix(target, "chromium:")
		return &Browser{Name: target, Cookies: NewChromiumCookies(path)}, nil
	}

	switch strings.ToLower(filepath.Ext(target)) {
	case ".yaml", ".yml":
		p, err := LoadProfile(target, opts...)
		if err != nil {
			return nil, err
		}
		return p.Browser(target), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, target)
}
