package log

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// sensitiveKeys are attribute keys whose values are always masked.
var sensitiveKeys = map[string]bool{
	"cookie":        true,
	"cookie_value":  true,
	"set-cookie":    true,
	"value":         true,
	"storage_value": true,
	"authorization": true,
	"token":         true,
	"session":       true,
	"session_id":    true,
	"password":      true,
	"secret":        true,
	"encrypted":     true,
}

// sensitiveKeywords mask any key containing them ("csrf_token", "auth_header").
var sensitiveKeywords = []string{"token", "secret", "password", "auth", "credential"}

// sensitivePatterns are value shapes masked regardless of key.
var sensitivePatterns = []*regexp.Regexp{
	// JWT
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	// bearer / basic credentials
	regexp.MustCompile(`(?i)^(bearer|basic)\s+\S+`),
	// long opaque identifiers, typical of session and tracking ids
	regexp.MustCompile(`^[A-Za-z0-9+/=_-]{32,}$`),
}

// pathKeys hold filesystem paths that are shortened relative to home.
var pathKeys = map[string]bool{
	"path":    true,
	"profile": true,
	"target":  true,
	"db_dir":  true,
	"file":    true,
}

// RedactingHandler wraps an slog.Handler and masks sensitive attribute
// values before the record reaches the underlying handler.
//
// Design decision: masking happens in a handler rather than at call sites,
// so a forgotten call site cannot leak a cookie value.
type RedactingHandler struct {
	handler slog.Handler
	home    string
}

// NewRedactingHandler wraps handler. A nil handler falls back to
// slog.Default().Handler().
func NewRedactingHandler(handler slog.Handler) *RedactingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return &RedactingHandler{handler: handler, home: home}
}

// Enabled delegates to the underlying handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and forwards it.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redact(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

// WithAttrs masks attrs before attaching them.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.redact(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(masked), home: h.home}
}

// WithGroup returns a handler that nests subsequent attributes under name.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name), home: h.home}
}

func (h *RedactingHandler) redact(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		masked := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			masked[i] = h.redact(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	}

	key := strings.ToLower(a.Key)
	if isSensitiveKey(key) {
		return slog.String(a.Key, MaskValue)
	}
	if a.Value.Kind() != slog.KindString {
		return a
	}

	s := a.Value.String()
	if isSensitiveValue(s) {
		return slog.String(a.Key, MaskValue)
	}
	if pathKeys[key] {
		return slog.String(a.Key, h.shortenPath(s))
	}
	return a
}

// shortenPath replaces the home directory prefix of p with "~".
func (h *RedactingHandler) shortenPath(p string) string {
	if h.home == "" {
		return p
	}
	// targets may carry a scheme prefix such as "firefox:".
	prefix := ""
	if i := strings.Index(p, ":"); i > 0 && !filepath.IsAbs(p) {
		prefix, p = p[:i+1], p[i+1:]
	}
	rel, err := filepath.Rel(h.home, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || !filepath.IsAbs(p) {
		return prefix + p
	}
	return prefix + filepath.Join("~", rel)
}

func isSensitiveKey(key string) bool {
	if sensitiveKeys[key] {
		return true
	}
	for _, kw := range sensitiveKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

func isSensitiveValue(value string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}
