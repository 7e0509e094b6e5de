package tokenstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteFile = "storage.db"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS local_storage (
	origin     TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL,
	PRIMARY KEY (origin, key)
);
`

// SQLite stores entries in a single table keyed by (origin, key).
type SQLite struct {
	conn   *sql.DB
	origin string
}

// OpenSQLite opens (creating if needed) the storage database under dir.
func OpenSQLite(dir, origin string) (*SQLite, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return openSQLiteDriver("sqlite", filepath.Join(dir, sqliteFile), origin)
}

func openSQLiteDriver(driver, path, origin string) (*SQLite, error) {
	conn, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("open token database: %w", err)
	}

	// WAL lets concurrent CLI invocations read while one writes
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := conn.Exec(sqliteSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	os.Chmod(path, 0600)

	return &SQLite{conn: conn, origin: origin}, nil
}

func (s *SQLite) Get(key string) (string, bool, error) {
	var value string
	err := s.conn.QueryRow(
		`SELECT value FROM local_storage WHERE origin = ? AND key = ?`,
		s.origin, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLite) Set(key, value string) error {
	_, err := s.conn.Exec(`
		INSERT INTO local_storage (origin, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(origin, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.origin, key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(key string) error {
	if _, err := s.conn.Exec(`DELETE FROM local_storage WHERE origin = ? AND key = ?`, s.origin, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.conn.Close()
}
