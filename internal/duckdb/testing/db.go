// Package duckdbtesting opens throwaway study warehouses for tests.
package duckdbtesting

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"percept/internal/duckdb"
	"percept/internal/testutil"
)

const openTimeout = 2 * time.Second

// Warehouse opens an in-memory warehouse with the schema applied. It is closed
// when the test ends.
func Warehouse(t testing.TB) *sql.DB {
	t.Helper()
	db, err := duckdb.Open(testutil.Context(t, openTimeout), ":memory:")
	if err != nil {
		t.Fatalf("open warehouse: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Rows counts the rows of one warehouse table.
func Rows(ctx context.Context, t testing.TB, db *sql.DB, table string) int {
	t.Helper()
	switch table {
	case "sessions", "trials", "warnings":
	default:
		t.Fatalf("unknown warehouse table %q", table)
	}
	var n int
	if err := db.QueryRowContext(ctx, "SELECT count(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
