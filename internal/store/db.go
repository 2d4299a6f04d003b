// Package store persists session state between CLI invocations.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/justyntemme/sidetree/internal/debug"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Setting keys.
const (
	KeyLastOpened = "last_opened"
)

// ClipItem is one clipboard entry.
type ClipItem struct {
	Path  string
	IsDir bool
}

type DB struct {
	conn *sql.DB
}

// DefaultPath returns the session database location.
func DefaultPath() (string, error) {
	if p := os.Getenv("SIDETREE_STATE"); p != "" {
		return p, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sidetree", "session.db"), nil
}

// Open initializes the database connection and schema
func Open(dbPath string) (*DB, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// WAL mode allows simultaneous readers and writers
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, err
	}
	// Synchronous NORMAL is safe against app crashes, faster than FULL
	if _, err := db.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS clipboard (
		position INTEGER PRIMARY KEY,
		mode TEXT NOT NULL,
		path TEXT NOT NULL,
		is_dir INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	debug.Log(debug.STORE, "Open: %s", dbPath)
	return &DB{conn: db}, nil
}

// SaveClipboard replaces the stored clipboard.
func (d *DB) SaveClipboard(ctx context.Context, mode string, items []ClipItem) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM clipboard"); err != nil {
		return err
	}
	for i, it := range items {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO clipboard (position, mode, path, is_dir) VALUES (?, ?, ?, ?)",
			i, mode, it.Path, it.IsDir)
		if err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	debug.Log(debug.STORE, "SaveClipboard: %s, %d item(s)", mode, len(items))
	return nil
}

// LoadClipboard returns the stored clipboard in insertion order. An empty
// clipboard yields an empty mode.
func (d *DB) LoadClipboard(ctx context.Context) (string, []ClipItem, error) {
	rows, err := d.conn.QueryContext(ctx, "SELECT mode, path, is_dir FROM clipboard ORDER BY position ASC")
	if err != nil {
		return "", nil, err
	}
	defer rows.Close()

	var mode string
	var items []ClipItem
	for rows.Next() {
		var it ClipItem
		if err := rows.Scan(&mode, &it.Path, &it.IsDir); err != nil {
			return "", nil, err
		}
		items = append(items, it)
	}
	return mode, items, rows.Err()
}

// Setting returns a stored value, or "" if the key is unset.
func (d *DB) Setting(ctx context.Context, key string) (string, error) {
	var value string
	err := d.conn.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SaveSetting upserts a value. An empty value removes the key.
func (d *DB) SaveSetting(ctx context.Context, key, value string) error {
	var err error
	if value == "" {
		_, err = d.conn.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key)
	} else {
		_, err = d.conn.ExecContext(ctx, "INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value)
	}
	return err
}

func (d *DB) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}
