package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/glebarez/sqlite"
)

// DB records generated documents in <cache dir>/history.db.
type DB struct {
	SQL  *sql.DB
	Path string
}

// Entry is one generated document.
type Entry struct {
	ID        int64
	Command   string
	Templates []string
	Dest      string
	Bytes     int
	CreatedAt time.Time
}

func Open(dir string) (*DB, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("history directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "history.db")
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout=5000&_pragma=journal_mode(WAL)", path)
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := initSchema(sqldb); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("init %s: %w", path, err)
	}
	return &DB{SQL: sqldb, Path: path}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS generations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			command TEXT NOT NULL,
			templates TEXT NOT NULL,
			dest TEXT NOT NULL,
			bytes INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_generations_created ON generations(created_at)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) Close() error {
	if db == nil || db.SQL == nil {
		return nil
	}
	return db.SQL.Close()
}

// Record inserts e. A zero CreatedAt means now.
func (db *DB) Record(e Entry) error {
	if db == nil {
		return nil
	}
	ts := e.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := db.SQL.Exec(`INSERT INTO generations(command, templates, dest, bytes, created_at) VALUES(?,?,?,?,?)`,
		e.Command, strings.Join(e.Templates, " "), e.Dest, e.Bytes, ts.UnixNano())
	return err
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (db *DB) List(limit int) ([]Entry, error) {
	q := `SELECT id, command, templates, dest, bytes, created_at FROM generations ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.SQL.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var (
			e         Entry
			templates string
			created   int64
		)
		if err := rows.Scan(&e.ID, &e.Command, &templates, &e.Dest, &e.Bytes, &created); err != nil {
			return nil, err
		}
		e.Templates = strings.Fields(templates)
		e.CreatedAt = time.Unix(0, created)
		out = append(out, e)
	}
	return out, rows.Err()
}
