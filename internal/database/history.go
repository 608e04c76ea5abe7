package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/privacyscan/internal/model"
)

// FileName is the name of the history database inside the data directory.
const FileName = "privacyscan.db"

// timeLayout is fixed-width so that scanned_at sorts lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryDB stores analyses of past scans.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// ScanRecord is the summary row of one saved scan.
type ScanRecord struct {
	ID              int64     `json:"id"`
	Target          string    `json:"target"`
	ScannedAt       time.Time `json:"scannedAt"`
	Score           int       `json:"score"`
	Rating          string    `json:"rating"`
	CookieCount     int       `json:"cookieCount"`
	TrackingCookies int       `json:"trackingCookies"`

	// Digest is the hex SHA3-256 of the snapshot JSON; empty when the
	// session carried no snapshot.
	Digest string `json:"digest"`
}

// StoredScan is a saved scan with its full analysis.
type StoredScan struct {
	ScanRecord
	Analysis *model.PrivacyAnalysisResult `json:"analysis"`
}

// Open opens or creates the history database in dbDir.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	var dsn string
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc"
	} else {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	h := &HistoryDB{db: db, dbPath: dbPath}
	if err := h.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return h, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		scanned_at TEXT NOT NULL,
		score INTEGER NOT NULL,
		rating TEXT NOT NULL,
		cookie_count INTEGER NOT NULL DEFAULT 0,
		tracking_cookies INTEGER NOT NULL DEFAULT 0,
		digest TEXT NOT NULL DEFAULT '',
		analysis_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_target ON scans(target);
	CREATE INDEX IF NOT EXISTS idx_scans_scanned_at ON scans(scanned_at);
	`
	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// SnapshotDigest returns the hex SHA3-256 of the snapshot's JSON form,
// excluding its metadata so that the scan time does not change the digest.
// A nil snapshot has an empty digest.
func SnapshotDigest(snapshot *model.StorageSnapshot) (string, error) {
	if snapshot == nil {
		return "", nil
	}
	content := *snapshot
	content.Metadata = model.SnapshotMetadata{}
	data, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Save stores the analysis of session and returns the new row id.
func (h *HistoryDB) Save(ctx context.Context, session *model.ScanSession) (int64, error) {
	if session == nil || session.Analysis == nil {
		return 0, ErrNoAnalysis
	}

	digest, err := SnapshotDigest(session.Snapshot)
	if err != nil {
		return 0, err
	}
	analysisJSON, err := json.Marshal(session.Analysis)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize analysis: %w", err)
	}

	scannedAt := session.StartedAt
	if scannedAt.IsZero() {
		scannedAt = time.Now()
	}

	a := session.Analysis
	res, err := h.db.ExecContext(ctx, `
	INSERT INTO scans (target, scanned_at, score, rating, cookie_count, tracking_cookies, digest, analysis_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		session.Target,
		scannedAt.UTC().Format(timeLayout),
		a.PrivacyScore.Score,
		a.ScoreRating,
		a.Breakdown.Total,
		trackingCount(a),
		digest,
		string(analysisJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save scan: %w", err)
	}
	return res.LastInsertId()
}

// ListTargets returns every target with at least one saved scan.
func (h *HistoryDB) ListTargets(ctx context.Context) ([]string, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT DISTINCT target FROM scans ORDER BY target`)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, target)
	}
	return targets, rows.Err()
}

// History returns the scan summaries of target, newest first.
// A non-positive limit returns every row.
func (h *HistoryDB) History(ctx context.Context, target string, limit int) ([]ScanRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := h.db.QueryContext(ctx, `
	SELECT id, target, scanned_at, score, rating, cookie_count, tracking_cookies, digest
	FROM scans
	WHERE target = ?
	ORDER BY scanned_at DESC, id DESC
	LIMIT ?
	`, target, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	defer rows.Close()

	var records []ScanRecord
	for rows.Next() {
		var r ScanRecord
		var scannedAt string
		if err := rows.Scan(&r.ID, &r.Target, &scannedAt, &r.Score, &r.Rating, &r.CookieCount, &r.TrackingCookies, &r.Digest); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		r.ScannedAt = parseTimestamp(scannedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Get returns the saved scan with the given id.
func (h *HistoryDB) Get(ctx context.Context, id int64) (*StoredScan, error) {
	row := h.db.QueryRowContext(ctx, `
	SELECT id, target, scanned_at, score, rating, cookie_count, tracking_cookies, digest, analysis_json
	FROM scans WHERE id = ?
	`, id)
	return scanStored(row)
}

// Latest returns up to n saved scans of target with their analyses, newest first.
// It returns ErrScanNotFound when target has no saved scan.
func (h *HistoryDB) Latest(ctx context.Context, target string, n int) ([]*StoredScan, error) {
	records, err := h.History(ctx, target, n)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrScanNotFound, target)
	}

	scans := make([]*StoredScan, 0, len(records))
	for _, r := range records {
		s, err := h.Get(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		scans = append(scans, s)
	}
	return scans, nil
}

func scanStored(row *sql.Row) (*StoredScan, error) {
	var s StoredScan
	var scannedAt, analysisJSON string
	err := row.Scan(&s.ID, &s.Target, &scannedAt, &s.Score, &s.Rating, &s.CookieCount, &s.TrackingCookies, &s.Digest, &analysisJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}
	s.ScannedAt = parseTimestamp(scannedAt)

	var analysis model.PrivacyAnalysisResult
	if err := json.Unmarshal([]byte(analysisJSON), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis: %w", err)
	}
	s.Analysis = &analysis
	return &s, nil
}

func trackingCount(a *model.PrivacyAnalysisResult) int {
	n := 0
	for category, count := range a.Breakdown.ByCategory {
		if category.IsTracking() {
			n += count
		}
	}
	return n
}

// parseTimestamp parses a stored timestamp; unparsable values yield zero time.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
