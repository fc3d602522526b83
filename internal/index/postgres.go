package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"rdmlcore/pkg/rdml"
)

const (
	postgresDriver = "pgx"
	// Default DSN keeps parity with Open defaults while allowing overrides via env.
	defaultPostgresDSN = "postgres://localhost/rdmlcore?sslmode=disable"
)

// Postgres persists row sets to a JSONB table, mirroring the SQLite layout.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a Postgres-backed index using the provided DSN
// (falls back to the local default) and ensures the schema exists.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		dsn = defaultPostgresDSN
	}
	db, err := sql.Open(postgresDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS document_rows (
		doc_key TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure document_rows table: %w", err)
	}
	return &Postgres{db: db}, nil
}

// DB exposes the underlying handle for integration testing hooks.
func (p *Postgres) DB() *sql.DB { return p.db }

// ReplaceDocument upserts the JSON-encoded row set under docKey.
func (p *Postgres) ReplaceDocument(ctx context.Context, docKey string, rows []rdml.Row) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO document_rows (doc_key, payload) VALUES ($1, $2)
		 ON CONFLICT (doc_key) DO UPDATE SET payload = EXCLUDED.payload`,
		docKey, payload)
	if err != nil {
		return fmt.Errorf("store rows for %s: %w", docKey, err)
	}
	return nil
}

// Rows decodes the row set stored under docKey; nil when absent.
func (p *Postgres) Rows(ctx context.Context, docKey string) ([]rdml.Row, error) {
	var payload []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT payload FROM document_rows WHERE doc_key = $1`, docKey).Scan(&payload)
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
func (p *Postgres) Documents(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT doc_key FROM document_rows ORDER BY doc_key`)
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
func (p *Postgres) DeleteDocument(ctx context.Context, docKey string) (bool, error) {
	res, err := p.db.ExecContext(ctx, `DELETE FROM document_rows WHERE doc_key = $1`, docKey)
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
func (p *Postgres) Close() error { return p.db.Close() }
