// Package audit keeps a local journal of every mutating flag
// operation this server performs on behalf of a client. The journal
// is advisory: it lets an operator answer "what changed, when, for
// which project" without trawling the Unleash event log, and it
// survives server restarts.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ─── Types ───────────────────────────────────────────────────────────────────

// Actions recorded by the flag tools.
const (
	ActionCreateFlag     = "create_flag"
	ActionToggleFlag     = "toggle_flag"
	ActionUpdateStrategy = "update_strategy"
)

// Entry is one journaled operation.
type Entry struct {
	ID        int64  `json:"id"`
	Action    string `json:"action"`
	Project   string `json:"project,omitempty"`
	Flag      string `json:"flag,omitempty"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

// Recorder is the write side of the journal. Tools depend on this
// interface so a server running without a journal can hand them nil.
type Recorder interface {
	Record(e Entry) error
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds journal configuration.
type Config struct {
	DataDir   string
	MaxRecent int
}

// DefaultConfig returns the default journal configuration.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:   filepath.Join(home, ".unleash-mcp"),
		MaxRecent: 50,
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the journal backed by a local SQLite database.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New creates a Store with the given configuration. It creates the
// data directory if needed, opens SQLite with WAL mode, and runs the
// migration.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("audit: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "audit.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("audit: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("audit: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("audit: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS audit_log (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			action     TEXT NOT NULL,
			project    TEXT,
			flag       TEXT,
			detail     TEXT,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_log(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_audit_flag    ON audit_log(project, flag);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ─── Journal ─────────────────────────────────────────────────────────────────

// Record appends one entry to the journal. The Action field is
// required; everything else is optional context.
func (s *Store) Record(e Entry) error {
	if e.Action == "" {
		return fmt.Errorf("audit: action is required")
	}
	_, err := s.db.Exec(
		`INSERT INTO audit_log (action, project, flag, detail) VALUES (?, ?, ?, ?)`,
		e.Action, nullableString(e.Project), nullableString(e.Flag), nullableString(e.Detail),
	)
	if err != nil {
		return fmt.Errorf("audit: record: %w", err)
	}
	return nil
}

// Recent returns the newest entries, newest first. A non-positive
// limit falls back to the configured maximum.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = s.cfg.MaxRecent
	}

	rows, err := s.db.Query(
		`SELECT id, action, COALESCE(project, ''), COALESCE(flag, ''), COALESCE(detail, ''), created_at
		 FROM audit_log
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("audit: recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Action, &e.Project, &e.Flag, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
