package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteBackend stores every namespace in one SQLite table.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (creating if missing) the database at path with WAL
// journaling and a busy timeout, and ensures the prefs table exists.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS prefs (
		namespace TEXT NOT NULL,
		key       TEXT NOT NULL,
		value     TEXT NOT NULL,
		PRIMARY KEY (namespace, key)
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create prefs table: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

func (s *SQLiteBackend) Load(namespace string) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM prefs WHERE namespace = ?`, namespace)
	if err != nil {
		return nil, fmt.Errorf("query prefs: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan prefs: %w", err)
		}
		values[k] = v
	}
	return values, rows.Err()
}

// Save replaces the namespace inside one transaction.
func (s *SQLiteBackend) Save(namespace string, values map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM prefs WHERE namespace = ?`, namespace); err != nil {
		return fmt.Errorf("clear namespace: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO prefs (namespace, key, value) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for k, v := range values {
		if _, err := stmt.Exec(namespace, k, v); err != nil {
			return fmt.Errorf("insert %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteBackend) Close() error { return s.db.Close() }
