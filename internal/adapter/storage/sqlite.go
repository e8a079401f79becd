package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS cart_state (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`

var sqliteQueries = queries{
	get: `SELECT payload FROM cart_state WHERE key = ?`,
	set: `
		INSERT INTO cart_state (key, payload) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET payload = excluded.payload`,
	del: `DELETE FROM cart_state WHERE key = ?`,
}

// NewSQLiteStorage opens or creates the database file at path.
func NewSQLiteStorage(ctx context.Context, path string) (SQLStorage, error) {
	const op = "NewSQLiteStorage"

	if path == "" {
		path = "storefront.db"
	}
	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil && !errors.Is(err, os.ErrExist) {
		return SQLStorage{}, fmt.Errorf("%s: create dirs: %w", op, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return SQLStorage{}, fmt.Errorf("%s: %w", op, err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	s := SQLStorage{opPrefix: "SQLiteStorage", sqldb: db, q: sqliteQueries}
	if err := s.ping(ctx); err != nil {
		_ = db.Close()
		return SQLStorage{}, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return SQLStorage{}, fmt.Errorf("%s: create table: %w", op, err)
	}
	return s, nil
}
