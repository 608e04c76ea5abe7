package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/nao1215/privacyscan/internal/config"
	"github.com/nao1215/privacyscan/internal/database"
	"github.com/nao1215/privacyscan/internal/report"
)

const testProfile = `
cookies:
  - name: sid
    domain: example.com
    value: abc
    secure: true
    httpOnly: true
  - name: IDE
    domain: .doubleclick.net
    value: tracking-id-1234
    secure: true
    expiresIn: 8760h
tabs:
  - id: 1
    url: https://example.com/
    tabStorage:
      - key: theme
        value: dark
`

// testEnv isolates a command run from the user's config and history.
type testEnv struct {
	configPath string
	dbDir      string
	profile    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		configPath: filepath.Join(dir, "config.yaml"),
		dbDir:      filepath.Join(dir, "data"),
		profile:    filepath.Join(dir, "profile.yaml"),
	}
	if err := os.WriteFile(env.configPath, []byte("maxTabs: 10\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if err := os.WriteFile(env.profile, []byte(testProfile), 0600); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}
	return env
}

// run executes the root command with args and returns stdout.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", e.configPath, "--db-dir", e.dbDir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// TestScanCmd tests the scan command.
func TestScanCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes text report", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		out, err := env.run(t, "scan", "--no-save", env.profile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"PRIVACYSCAN REPORT", "PRIVACY SCORE", "RECOMMENDATIONS"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Contains(out, "tracking-id-1234") {
			t.Error("report must not contain cookie values")
		}
		if _, err := os.Stat(filepath.Join(env.dbDir, database.FileName)); !os.IsNotExist(err) {
			t.Error("expected no history database with --no-save")
		}
	})

	t.Run("writes json report", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		out, err := env.run(t, "scan", "--no-save", "--json", "--rate", "100", env.profile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var r report.JSONReport
		if err := json.Unmarshal([]byte(out), &r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Target != env.profile {
			t.Errorf("expected target %s, got %s", env.profile, r.Target)
		}
		if r.Analysis == nil {
			t.Fatal("expected analysis")
		}
		if r.Summary == nil || r.Summary.CookieCount != 2 {
			t.Errorf("expected 2 cookies in summary, got %+v", r.Summary)
		}
		if strings.Contains(out, "tracking-id-1234") {
			t.Error("report must not contain cookie values")
		}
	})

	t.Run("writes report file", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		outputPath := filepath.Join(t.TempDir(), "reports", "scan.md")

		out, err := env.run(t, "scan", "--no-save", "--markdown", "-o", outputPath, env.profile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != "" {
			t.Errorf("expected empty stdout, got %q", out)
		}
		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(content), "#") {
			t.Error("expected markdown headings in report file")
		}
		if runtime.GOOS != "windows" {
			info, err := os.Stat(outputPath)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if perm := info.Mode().Perm(); perm != 0600 {
				t.Errorf("expected permission 0600, got %o", perm)
			}
		}
	})

	t.Run("saves to history", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		if _, err := env.run(t, "scan", env.profile); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(filepath.Join(env.dbDir, database.FileName)); err != nil {
			t.Errorf("expected history database: %v", err)
		}
	})

	t.Run("reports failed targets", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		out, err := env.run(t, "scan", "--no-save", env.profile, "unknown:profile")
		if !errors.Is(err, ErrScanFailed) {
			t.Fatalf("expected ErrScanFailed, got %v", err)
		}
		if !strings.Contains(out, "PRIVACY SCORE") {
			t.Error("expected the successful target to be reported")
		}
	})

	t.Run("rejects conflicting formats", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		_, err := env.run(t, "scan", "--json", "--markdown", env.profile)
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("rejects invalid timeout", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		_, err := env.run(t, "scan", "--timeout", "0s", env.profile)
		if !errors.Is(err, config.ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("requires a target", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		if _, err := env.run(t, "scan"); err == nil {
			t.Error("expected error without targets")
		}
	})

	t.Run("fails on missing explicit config", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.configPath = filepath.Join(t.TempDir(), "missing.yaml")

		_, err := env.run(t, "scan", env.profile)
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

// TestHistoryAndCompareCmd tests reading saved scans back.
func TestHistoryAndCompareCmd(t *testing.T) {
	t.Parallel()

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		out, err := env.run(t, "history")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No saved scans yet") {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("compare needs two scans", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		if _, err := env.run(t, "compare", env.profile); !errors.Is(err, ErrNotEnoughScans) {
			t.Errorf("expected ErrNotEnoughScans, got %v", err)
		}
		if _, err := env.run(t, "scan", env.profile); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := env.run(t, "compare", env.profile); !errors.Is(err, ErrNotEnoughScans) {
			t.Errorf("expected ErrNotEnoughScans, got %v", err)
		}
	})

	t.Run("lists and compares saved scans", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		for range 2 {
			if _, err := env.run(t, "scan", env.profile); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		out, err := env.run(t, "history")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, env.profile) {
			t.Errorf("expected target list to contain %s, got %q", env.profile, out)
		}

		out, err = env.run(t, "history", "--json", env.profile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var h struct {
			Target string                `json:"target"`
			Scans  []database.ScanRecord `json:"scans"`
		}
		if err := json.Unmarshal([]byte(out), &h); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(h.Scans) != 2 {
			t.Fatalf("expected 2 scans, got %d", len(h.Scans))
		}
		if h.Scans[0].ID <= h.Scans[1].ID {
			t.Error("expected newest scan first")
		}
		if h.Scans[0].Digest == "" {
			t.Error("expected snapshot digest")
		}

		out, err = env.run(t, "compare", env.profile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "COMPARISON: "+env.profile) {
			t.Errorf("unexpected compare output: %q", out)
		}
	})

	t.Run("unknown target", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		if _, err := env.run(t, "scan", env.profile); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := env.run(t, "history", "other.yaml"); !errors.Is(err, database.ErrScanNotFound) {
			t.Errorf("expected ErrScanNotFound, got %v", err)
		}
	})
}
