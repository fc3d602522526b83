// Package index persists the flattened reaction tables of imported RDML
// documents so analysis code can query descriptor rows across documents
// without re-parsing. Backends: memory (tests), embedded SQLite, Postgres.
package index

import (
	"context"
	"fmt"
	"os"

	"rdmlcore/pkg/rdml"
)

// Driver identifies a concrete index backend.
type Driver string

const (
	DriverMemory   Driver = "memory"   // in-memory only (tests / ephemeral)
	DriverSQLite   Driver = "sqlite"   // embedded sqlite file
	DriverPostgres Driver = "postgres" // PostgreSQL server
)

// Index stores one flattened row set per archived document key. Replace is
// all-or-nothing per document: the previous row set stays visible if a
// write fails.
type Index interface {
	ReplaceDocument(ctx context.Context, docKey string, rows []rdml.Row) error
	Rows(ctx context.Context, docKey string) ([]rdml.Row, error)
	// Documents returns the indexed document keys, ascending.
	Documents(ctx context.Context) ([]string, error)
	DeleteDocument(ctx context.Context, docKey string) (bool, error)
	Close() error
}

// Open selects an index backend using environment variables.
// Defaults to sqlite when unset.
//
//	RDMLCORE_INDEX_DRIVER: memory|sqlite|postgres (default sqlite)
//	RDMLCORE_SQLITE_PATH: path to sqlite file (default ./rdmlcore.db)
//	RDMLCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func Open(ctx context.Context) (Index, error) {
	driver := os.Getenv("RDMLCORE_INDEX_DRIVER")
	if driver == "" {
		driver = string(DriverSQLite)
	}
	switch Driver(driver) {
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return NewSQLite(os.Getenv("RDMLCORE_SQLITE_PATH"))
	case DriverPostgres:
		return NewPostgres(ctx, os.Getenv("RDMLCORE_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown index driver %s", driver)
	}
}

func cloneRows(rows []rdml.Row) []rdml.Row {
	if rows == nil {
		return nil
	}
	out := make([]rdml.Row, len(rows))
	copy(out, rows)
	for i, r := range out {
		if r.Extra != nil {
			extra := make(map[string]any, len(r.Extra))
			for k, v := range r.Extra {
				extra[k] = v
			}
			out[i].Extra = extra
		}
	}
	return out
}
