package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"rdmlcore/pkg/rdml"
)

// SQLite persists row sets to a single table as JSON payloads, one row per
// document key, written through on every replace.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the index database at path.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = "rdmlcore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS document_rows (
		doc_key TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create document_rows table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// ReplaceDocument upserts the JSON-encoded row set under docKey.
func (s *SQLite) ReplaceDocument(ctx context.Context, docKey string, rows []rdml.Row) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO document_rows (doc_key, payload) VALUES (?, ?)
		 ON CONFLICT(doc_key) DO UPDATE SET payload = excluded.payload`,
		docKey, payload)
	if err != nil {
		return fmt.Errorf("store rows for %s: %w", docKey, err)
	}
	return nil
}

// Rows decodes the row set stored under docKey; nil when absent.
func (s *SQLite) Rows(ctx context.Context, docKey string) ([]rdml.Row, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM document_rows WHERE doc_key = ?`, docKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select rows for %s: %w", docKey, err)
	}
	var rows []rdml.Row
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, fmt.Errorf("decode rows for %s: %w", docKey, err)
	}
	return rows, nil
}

// Documents returns the indexed keys, ascending.
func (s *SQLite) Documents(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc_key FROM document_rows ORDER BY doc_key`)
	if err != nil {
		return nil, fmt.Errorf("select document keys: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// DeleteDocument removes the row set returning true if it existed.
func (s *SQLite) DeleteDocument(ctx context.Context, docKey string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM document_rows WHERE doc_key = ?`, docKey)
	if err != nil {
		return false, fmt.Errorf("delete rows for %s: %w", docKey, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error { return s.db.Close() }
